// Package report 实现汇总报告生成。
// 纯计算，不发起任何模型调用：输入为一致性检查结果与读者评估结果，
// 输出加权得分、发布裁决、整改项清单与报告文案。
package report

import (
	"math"
	"sort"

	"novel-review-api/internal/domain/entity"
)

// 裁决阈值，固定常量，不随请求配置
const (
	PassThreshold   = 80
	ReviseThreshold = 60
)

// MaxActionItems 整改项清单保留的最大条数
const MaxActionItems = 10

// 置信度调整量
const (
	confidenceAllPositiveBonus   = 10
	confidenceNonePositiveMalus  = 10
	confidencePerCriticalPenalty = 5
)

// lowSatisfactionThreshold 读者满意度低于该值时，其建议升级为整改项
const lowSatisfactionThreshold = 60

// Generate 生成汇总报告。
// 各维度得分直接取自一致性检查（已为整数），总分按固定权重四舍五入
func Generate(check entity.ConsistencyCheck, personas []entity.PersonaResult) entity.AggregateReport {
	scores := computeWeightedScores(check)
	verdict := verdictOf(scores.Total)
	items := buildActionItems(check, personas)

	return entity.AggregateReport{
		Verdict:          verdict,
		ConfidenceScore:  computeConfidence(check, personas),
		WeightedScores:   scores,
		ActionItems:      items,
		ExecutiveSummary: executiveSummary(verdict, scores, check, personas),
		Recommendation:   recommendation(verdict, items, personas),
	}
}

func computeWeightedScores(check entity.ConsistencyCheck) entity.WeightedScores {
	total := entity.WeightContinuity*float64(check.Continuity.Score) +
		entity.WeightCharacter*float64(check.Character.Score) +
		entity.WeightWorldRules*float64(check.WorldRules.Score)
	return entity.WeightedScores{
		Continuity: check.Continuity.Score,
		Character:  check.Character.Score,
		WorldRules: check.WorldRules.Score,
		Total:      int(math.Round(total)),
	}
}

func verdictOf(total int) entity.Verdict {
	switch {
	case total >= PassThreshold:
		return entity.VerdictPass
	case total >= ReviseThreshold:
		return entity.VerdictRevise
	default:
		return entity.VerdictBlock
	}
}

// buildActionItems 由问题与低满意度读者建议生成整改项：
// critical/high 问题逐条转为 fix_required；
// 满意度低于阈值的读者，其前两条建议转为 high 优先级 improvement。
// 按严重程度稳定排序后截断到前 MaxActionItems 条
func buildActionItems(check entity.ConsistencyCheck, personas []entity.PersonaResult) []entity.ActionItem {
	items := make([]entity.ActionItem, 0, MaxActionItems)

	for _, issue := range check.AllIssues() {
		if issue.Severity != entity.SeverityCritical && issue.Severity != entity.SeverityHigh {
			continue
		}
		effort := "moderate"
		if issue.Severity == entity.SeverityCritical {
			effort = "significant"
		}
		desc := issue.Description
		if issue.SuggestedFix != "" {
			desc += "（建议：" + issue.SuggestedFix + "）"
		}
		items = append(items, entity.ActionItem{
			Priority:        issue.Severity,
			Type:            entity.ActionFixRequired,
			Description:     desc,
			AffectedArea:    affectedArea(issue),
			EstimatedEffort: effort,
		})
	}

	for _, p := range personas {
		if p.Metrics.Satisfaction >= lowSatisfactionThreshold {
			continue
		}
		for i, suggestion := range p.Suggestions {
			if i >= 2 {
				break
			}
			items = append(items, entity.ActionItem{
				Priority:     entity.SeverityHigh,
				Type:         entity.ActionImprovement,
				Description:  "[" + p.PersonaName + "] " + suggestion,
				AffectedArea: "读者体验",
			})
		}
	}

	// 稳定排序保证同级问题维持插入顺序
	sort.SliceStable(items, func(i, j int) bool {
		return entity.SeverityRank(items[i].Priority) > entity.SeverityRank(items[j].Priority)
	})
	if len(items) > MaxActionItems {
		items = items[:MaxActionItems]
	}
	return items
}

func affectedArea(issue entity.Issue) string {
	area := issueTypeName(issue.Type)
	if issue.Location != "" {
		area += "：" + issue.Location
	}
	return area
}

func issueTypeName(t entity.IssueType) string {
	switch t {
	case entity.IssueTypeContinuity:
		return "情节连贯性"
	case entity.IssueTypeCharacter:
		return "角色一致性"
	case entity.IssueTypeWorldRules:
		return "世界观规则"
	default:
		return string(t)
	}
}

// computeConfidence 置信度：以一致性总分为基准，
// 三位读者全部正向 +10，全无正向 -10，每个 critical 问题 -5，最终夹取到 [0,100]
func computeConfidence(check entity.ConsistencyCheck, personas []entity.PersonaResult) int {
	confidence := check.OverallScore

	positive := 0
	for _, p := range personas {
		if p.OverallReaction.IsPositive() {
			positive++
		}
	}
	if len(personas) > 0 {
		if positive == len(personas) {
			confidence += confidenceAllPositiveBonus
		} else if positive == 0 {
			confidence -= confidenceNonePositiveMalus
		}
	}

	confidence -= confidencePerCriticalPenalty * check.CriticalIssueCount()

	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

// FilterActionItemsByPriority 返回优先级不低于 minPriority 的整改项，
// 与问题过滤使用同一全序；幂等
func FilterActionItemsByPriority(items []entity.ActionItem, minPriority entity.IssueSeverity) []entity.ActionItem {
	threshold := entity.SeverityRank(minPriority)
	out := make([]entity.ActionItem, 0, len(items))
	for _, item := range items {
		if entity.SeverityRank(item.Priority) >= threshold {
			out = append(out, item)
		}
	}
	return out
}
