// Package entity 定义领域实体
package entity

// IssueType 一致性问题类型
type IssueType string

const (
	IssueTypeContinuity IssueType = "continuity"
	IssueTypeCharacter  IssueType = "character"
	IssueTypeWorldRules IssueType = "world_rules"
)

// IssueSeverity 问题严重程度
type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityHigh     IssueSeverity = "high"
	SeverityMedium   IssueSeverity = "medium"
	SeverityLow      IssueSeverity = "low"
)

// SeverityRank 严重程度全序：critical > high > medium > low。
// 数值越大越严重，未知值视为最低
func SeverityRank(s IssueSeverity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Issue 一致性问题，由一致性检查产生，创建后不再修改
type Issue struct {
	Type         IssueType     `json:"type" validate:"required,oneof=continuity character world_rules"`
	Severity     IssueSeverity `json:"severity" validate:"required,oneof=critical high medium low"`
	Description  string        `json:"description" validate:"required"`
	Evidence     []string      `json:"evidence,omitempty"`
	SuggestedFix string        `json:"suggested_fix,omitempty"`
	Location     string        `json:"location,omitempty"`
}

// DimensionCheck 单维度检查结果
type DimensionCheck struct {
	Score  int     `json:"score" validate:"min=0,max=100"`
	Issues []Issue `json:"issues" validate:"dive"`
}

// 一致性各维度的固定权重
const (
	WeightContinuity = 0.40
	WeightCharacter  = 0.35
	WeightWorldRules = 0.25
)

// ConsistencyCheck 三维一致性检查结果。
// OverallScore 始终由本地按固定权重重新计算，不信任模型给出的总分
type ConsistencyCheck struct {
	Continuity   DimensionCheck `json:"continuity"`
	Character    DimensionCheck `json:"character"`
	WorldRules   DimensionCheck `json:"world_rules"`
	OverallScore int            `json:"overall_score"`
}

// AllIssues 按 continuity、character、world_rules 的顺序汇总全部问题
func (c *ConsistencyCheck) AllIssues() []Issue {
	issues := make([]Issue, 0, len(c.Continuity.Issues)+len(c.Character.Issues)+len(c.WorldRules.Issues))
	issues = append(issues, c.Continuity.Issues...)
	issues = append(issues, c.Character.Issues...)
	issues = append(issues, c.WorldRules.Issues...)
	return issues
}

// CriticalIssueCount 统计三个维度中 critical 级问题总数
func (c *ConsistencyCheck) CriticalIssueCount() int {
	n := 0
	for _, issue := range c.AllIssues() {
		if issue.Severity == SeverityCritical {
			n++
		}
	}
	return n
}
