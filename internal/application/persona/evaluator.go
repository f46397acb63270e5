package persona

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"novel-review-api/internal/application/generation"
	"novel-review-api/internal/domain/entity"
	wfnode "novel-review-api/internal/workflow/node"
	workflowprompt "novel-review-api/internal/workflow/prompt"
	"novel-review-api/pkg/logger"
	"novel-review-api/pkg/retry"
)

var defaultPromptRegistry = workflowprompt.NewRegistry()

// Limits 提示词中嵌入内容的长度上限（字符数）。
// 截断是刻意的有损简化，不做相关性选段。
type Limits struct {
	ExcerptRunes int
	SettingRunes int
}

// DefaultLimits 默认截断配置
var DefaultLimits = Limits{
	ExcerptRunes: 4000,
	SettingRunes: 2000,
}

// Evaluator 模拟读者评估器
type Evaluator struct {
	inv    generation.Invoker
	policy retry.Policy
	limits Limits
}

// NewEvaluator 创建评估器
func NewEvaluator(inv generation.Invoker, policy retry.Policy, limits Limits) *Evaluator {
	if limits.ExcerptRunes <= 0 {
		limits.ExcerptRunes = DefaultLimits.ExcerptRunes
	}
	if limits.SettingRunes <= 0 {
		limits.SettingRunes = DefaultLimits.SettingRunes
	}
	return &Evaluator{inv: inv, policy: policy, limits: limits}
}

// evalPayload 单个画像的生成响应
type evalPayload struct {
	Metrics         entity.PersonaMetrics  `json:"metrics"`
	Likes           []string               `json:"likes,omitempty"`
	Dislikes        []string               `json:"dislikes,omitempty"`
	Suggestions     []string               `json:"suggestions,omitempty"`
	OverallReaction entity.OverallReaction `json:"overall_reaction" validate:"required,oneof=very_positive positive neutral negative very_negative"`
	SampleComment   string                 `json:"sample_comment,omitempty"`
}

// EvaluateAll 并发执行三个画像的独立评估。
// 返回数组恒为 3 个元素且顺序固定，与完成顺序无关；
// 单个画像失败只替换该画像的兜底结果，不中止其余画像。
// fellBack 报告是否有任一画像降级。
func (e *Evaluator) EvaluateAll(ctx context.Context, excerpt string, model *entity.SettingModel, opts generation.CallOptions) ([]entity.PersonaResult, generation.Usage, bool) {
	ps := Profiles()
	results := make([]entity.PersonaResult, len(ps))

	var mu sync.Mutex
	var usage generation.Usage
	fellBack := false

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range ps {
		g.Go(func() error {
			res, u, ok := e.evaluateOne(gctx, p, excerpt, model, opts)
			mu.Lock()
			results[i] = res
			usage.Add(u)
			if !ok {
				fellBack = true
			}
			mu.Unlock()
			// 失败已映射为兜底结果，绝不返回 error，避免 errgroup 取消兄弟任务
			return nil
		})
	}
	_ = g.Wait()

	return results, usage, fellBack
}

// Evaluate 评估单个画像。失败时返回该画像的兜底结果
func (e *Evaluator) Evaluate(ctx context.Context, personaType entity.PersonaType, excerpt string, model *entity.SettingModel, opts generation.CallOptions) entity.PersonaResult {
	p, ok := ProfileOf(personaType)
	if !ok {
		logger.Warn(ctx, "unknown persona type", "persona_type", string(personaType))
		return entity.PersonaResult{PersonaType: personaType, OverallReaction: entity.ReactionNeutral}
	}
	res, _, _ := e.evaluateOne(ctx, p, excerpt, model, opts)
	return res
}

func (e *Evaluator) evaluateOne(ctx context.Context, p Profile, excerpt string, model *entity.SettingModel, opts generation.CallOptions) (entity.PersonaResult, generation.Usage, bool) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptPersonaEvalV1)
	if err != nil {
		return FallbackResult(p), generation.Usage{}, false
	}

	contract := evalContract(p)
	msgs, err := tpl.Format(ctx, map[string]any{
		"persona_name":        p.Name,
		"persona_description": p.Description,
		"focus_block":         "- " + strings.Join(p.FocusAreas, "\n- "),
		"criteria_block":      p.Criteria,
		"setting_block":       e.serializeSetting(model),
		"excerpt":             wfnode.TruncateByRunes(excerpt, e.limits.ExcerptRunes),
		"contract_block":      generation.ContractBlock(contract),
	})
	if err != nil {
		return FallbackResult(p), generation.Usage{}, false
	}

	req := generation.NewRequest(contract, opts)
	req.Messages = msgs

	res := generation.GenerateStructured[evalPayload](ctx, e.inv, req, e.policy)
	if !res.Success {
		logger.Warn(ctx, "persona evaluation degraded to fallback", "persona_type", string(p.Type))
		return FallbackResult(p), res.Usage, false
	}

	return entity.PersonaResult{
		PersonaType:        p.Type,
		PersonaName:        p.Name,
		PersonaDescription: p.Description,
		Metrics:            res.Data.Metrics,
		Likes:              res.Data.Likes,
		Dislikes:           res.Data.Dislikes,
		Suggestions:        res.Data.Suggestions,
		OverallReaction:    res.Data.OverallReaction,
		SampleComment:      res.Data.SampleComment,
	}, res.Usage, true
}

func (e *Evaluator) serializeSetting(model *entity.SettingModel) string {
	if model == nil {
		return "null"
	}
	b, err := json.Marshal(model)
	if err != nil {
		return "null"
	}
	return wfnode.TruncateByRunes(string(b), e.limits.SettingRunes)
}

// AverageMetrics 返回各指标在全部结果上的四舍五入算术平均，
// 供报告展示使用；裁决算法只使用离散反应档位，不使用该均值
func AverageMetrics(results []entity.PersonaResult) entity.PersonaMetrics {
	if len(results) == 0 {
		return entity.PersonaMetrics{}
	}
	var sat, eng, fru float64
	for _, r := range results {
		sat += float64(r.Metrics.Satisfaction)
		eng += float64(r.Metrics.Engagement)
		fru += float64(r.Metrics.Frustration)
	}
	n := float64(len(results))
	return entity.PersonaMetrics{
		Satisfaction: int(math.Round(sat / n)),
		Engagement:   int(math.Round(eng / n)),
		Frustration:  int(math.Round(fru / n)),
	}
}
