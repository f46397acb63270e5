package persona

import "novel-review-api/internal/domain/entity"

// FallbackMetrics 单个画像评估失败时的中性兜底指标
type FallbackMetrics struct {
	Satisfaction int
	Engagement   int
	Frustration  int
	Reaction     entity.OverallReaction
}

// DefaultFallback 默认兜底配置
var DefaultFallback = FallbackMetrics{
	Satisfaction: 70,
	Engagement:   70,
	Frustration:  30,
	Reaction:     entity.ReactionNeutral,
}

// FallbackResult 为指定画像构造兜底结果。
// 兜底按画像逐个替换，一个画像失败不影响其余画像的真实结果。
func FallbackResult(p Profile) entity.PersonaResult {
	return entity.PersonaResult{
		PersonaType:        p.Type,
		PersonaName:        p.Name,
		PersonaDescription: p.Description,
		Metrics: entity.PersonaMetrics{
			Satisfaction: DefaultFallback.Satisfaction,
			Engagement:   DefaultFallback.Engagement,
			Frustration:  DefaultFallback.Frustration,
		},
		OverallReaction: DefaultFallback.Reaction,
	}
}
