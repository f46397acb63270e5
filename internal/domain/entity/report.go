// Package entity 定义领域实体
package entity

// Verdict 发布裁决
type Verdict string

const (
	VerdictPass   Verdict = "PASS"
	VerdictRevise Verdict = "REVISE"
	VerdictBlock  Verdict = "BLOCK"
)

// ActionItemType 整改项类型
type ActionItemType string

const (
	ActionFixRequired   ActionItemType = "fix_required"
	ActionImprovement   ActionItemType = "improvement"
	ActionConsideration ActionItemType = "consideration"
)

// ActionItem 整改项，按优先级排序后最多保留前 10 条
type ActionItem struct {
	Priority        IssueSeverity  `json:"priority"`
	Type            ActionItemType `json:"type"`
	Description     string         `json:"description"`
	AffectedArea    string         `json:"affected_area"`
	EstimatedEffort string         `json:"estimated_effort,omitempty"`
}

// WeightedScores 加权后的各维度得分
type WeightedScores struct {
	Continuity int `json:"continuity"`
	Character  int `json:"character"`
	WorldRules int `json:"world_rules"`
	Total      int `json:"total"`
}

// AggregateReport 汇总报告，流水线的终态输出，生成后不可变
type AggregateReport struct {
	Verdict          Verdict        `json:"verdict"`
	ConfidenceScore  int            `json:"confidence_score"`
	WeightedScores   WeightedScores `json:"weighted_scores"`
	ActionItems      []ActionItem   `json:"action_items"`
	ExecutiveSummary string         `json:"executive_summary"`
	Recommendation   string         `json:"recommendation"`
}
