package report

import (
	"fmt"

	"novel-review-api/internal/application/persona"
	"novel-review-api/internal/domain/entity"
)

func verdictLabel(v entity.Verdict) string {
	switch v {
	case entity.VerdictPass:
		return "可发布"
	case entity.VerdictRevise:
		return "需修改"
	default:
		return "不可发布"
	}
}

// executiveSummary 生成报告摘要，模板化文案，参数为裁决、得分与读者均值
func executiveSummary(verdict entity.Verdict, scores entity.WeightedScores, check entity.ConsistencyCheck, personas []entity.PersonaResult) string {
	issueCount := len(check.AllIssues())
	avg := persona.AverageMetrics(personas)
	return fmt.Sprintf(
		"本次审校综合得分 %d 分（情节连贯 %d / 角色一致 %d / 世界观 %d），裁决为 %s（%s）。"+
			"共发现 %d 个一致性问题，其中 critical 级 %d 个；模拟读者平均满意度 %d 分。",
		scores.Total, scores.Continuity, scores.Character, scores.WorldRules,
		string(verdict), verdictLabel(verdict),
		issueCount, check.CriticalIssueCount(), avg.Satisfaction,
	)
}

// recommendation 按裁决分支选择三套建议模板之一，
// 文案引用 critical/high 整改项数量与满意度最低的读者名称
func recommendation(verdict entity.Verdict, items []entity.ActionItem, personas []entity.PersonaResult) string {
	urgent := len(FilterActionItemsByPriority(items, entity.SeverityHigh))
	lowest := lowestSatisfactionPersona(personas)

	switch verdict {
	case entity.VerdictPass:
		if urgent == 0 {
			return fmt.Sprintf("质量达到发布标准，可直接发布。可参考「%s」的反馈做锦上添花的打磨。", lowest)
		}
		return fmt.Sprintf("质量达到发布标准，但仍有 %d 项高优先级整改建议，建议发布前顺手处理；「%s」的满意度相对最低，可优先参考其意见。", urgent, lowest)
	case entity.VerdictRevise:
		return fmt.Sprintf("建议修改后再发布：清单中有 %d 项 critical/high 整改项需要处理，尤其需要回应「%s」反映的问题。", urgent, lowest)
	default:
		return fmt.Sprintf("当前版本不建议发布：存在 %d 项 critical/high 整改项，且「%s」的阅读体验明显受损，需要完成整改后重新提交审校。", urgent, lowest)
	}
}

// lowestSatisfactionPersona 返回满意度最低的读者名称，并列取排序靠前者
func lowestSatisfactionPersona(personas []entity.PersonaResult) string {
	if len(personas) == 0 {
		return "模拟读者"
	}
	lowest := personas[0]
	for _, p := range personas[1:] {
		if p.Metrics.Satisfaction < lowest.Metrics.Satisfaction {
			lowest = p
		}
	}
	if lowest.PersonaName == "" {
		return string(lowest.PersonaType)
	}
	return lowest.PersonaName
}
