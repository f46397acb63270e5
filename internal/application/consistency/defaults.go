package consistency

import "novel-review-api/internal/domain/entity"

// FallbackPolicy 检查失败时的兜底分数配置。
// 组合检查兜底取 75：刻意中性，避免把裁决推向 REVISE 或 PASS 任一侧；
// 单维度检查是部分降级路径，兜底取更乐观的 85。
type FallbackPolicy struct {
	CombinedScore  int
	DimensionScore int
}

// DefaultFallback 默认兜底配置
var DefaultFallback = FallbackPolicy{
	CombinedScore:  75,
	DimensionScore: 85,
}

// NeutralCheck 组合检查的兜底结果：三个维度均为中性分，无问题
func NeutralCheck() entity.ConsistencyCheck {
	return NeutralCheckWith(DefaultFallback)
}

// NeutralCheckWith 以指定配置构造兜底结果
func NeutralCheckWith(p FallbackPolicy) entity.ConsistencyCheck {
	return entity.ConsistencyCheck{
		Continuity:   entity.DimensionCheck{Score: p.CombinedScore, Issues: nil},
		Character:    entity.DimensionCheck{Score: p.CombinedScore, Issues: nil},
		WorldRules:   entity.DimensionCheck{Score: p.CombinedScore, Issues: nil},
		OverallScore: p.CombinedScore,
	}
}

// DimensionFallback 单维度检查的兜底结果
func DimensionFallback() entity.DimensionCheck {
	return entity.DimensionCheck{Score: DefaultFallback.DimensionScore, Issues: nil}
}
