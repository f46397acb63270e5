// Package review 编排完整的审校流水线：
// 设定提取 -> {一致性检查, 读者评估}（并发） -> 汇总报告。
// 每次调用相互独立，不持有跨请求状态。
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"novel-review-api/internal/application/consistency"
	"novel-review-api/internal/application/generation"
	"novel-review-api/internal/application/persona"
	"novel-review-api/internal/application/report"
	"novel-review-api/internal/application/setting"
	"novel-review-api/internal/config"
	"novel-review-api/internal/domain/entity"
	"novel-review-api/pkg/errors"
	"novel-review-api/pkg/logger"
	"novel-review-api/pkg/metrics"
	"novel-review-api/pkg/retry"
)

// 降级阶段标识，写入 Analysis.Meta.FallbackStages 与指标标签
const (
	StageSetting     = "setting"
	StageConsistency = "consistency"
	StagePersona     = "persona"
)

// snippetRunes 响应信封中回显的摘录前缀长度
const snippetRunes = 200

// Options 单次审校的可选参数
type Options struct {
	// SkipPersonas 跳过读者评估阶段
	SkipPersonas bool
	// SkipSettingNote 跳过设定提取，后续检查不参照既有设定
	SkipSettingNote bool

	Temperature *float32
	Provider    string
	Model       string
}

// Service 审校编排服务
type Service struct {
	extractor *setting.Extractor
	checker   *consistency.Checker
	evaluator *persona.Evaluator
	cfg       config.AnalysisConfig
}

// NewService 创建审校服务。策略与截断配置来自全局配置
func NewService(inv generation.Invoker, cfg *config.Config) *Service {
	policy := retry.Policy{
		MaxAttempts: cfg.LLM.Retry.MaxAttempts,
		BaseDelay:   cfg.LLM.Retry.BaseDelay,
		MaxDelay:    cfg.LLM.Retry.MaxDelay,
	}
	limits := persona.Limits{
		ExcerptRunes: cfg.Analysis.PersonaExcerptRunes,
		SettingRunes: cfg.Analysis.PersonaSettingRunes,
	}
	return &Service{
		extractor: setting.NewExtractor(inv, policy),
		checker:   consistency.NewChecker(inv, policy),
		evaluator: persona.NewEvaluator(inv, policy, limits),
		cfg:       cfg.Analysis,
	}
}

// Analyze 执行一次完整审校。
// 除摘录长度越界外不向调用方返回错误：阶段失败由各自的兜底策略吸收，
// 并通过 status=partial 与 FallbackStages 向上暴露降级事实
func (s *Service) Analyze(ctx context.Context, excerpt string, opts Options) (*entity.Analysis, error) {
	if err := s.validateExcerpt(excerpt); err != nil {
		return nil, err
	}

	analysisID := uuid.New().String()
	ctx = logger.WithContext(ctx, logger.AnalysisIDKey, analysisID)
	start := time.Now()

	callOpts := generation.CallOptions{
		Provider:    opts.Provider,
		Model:       opts.Model,
		Temperature: opts.Temperature,
	}

	var (
		usage          generation.Usage
		llmCalls       int
		fallbackStages []string
	)

	// 阶段一：设定提取（串行，后续两个阶段都消费设定集）
	var model *entity.SettingModel
	if !opts.SkipSettingNote {
		llmCalls++
		extracted, u, err := s.extractor.ExtractSettingModel(
			logger.WithContext(ctx, logger.StageKey, StageSetting), excerpt, callOpts)
		usage.Add(u)
		if err != nil {
			// 提取失败不中止流水线：编排层替换为标题启发式的最小设定集
			logger.Warn(ctx, "setting extraction failed, using fallback model", "error", err.Error())
			model = FallbackSettingModel(excerpt)
			fallbackStages = append(fallbackStages, StageSetting)
		} else {
			model = extracted
		}
	}

	// 阶段二：一致性检查与读者评估互不依赖，并发执行
	var (
		check            entity.ConsistencyCheck
		personas         []entity.PersonaResult
		consistencyUsage generation.Usage
		personaUsage     generation.Usage
		checkFellBack    bool
		personasFellBack bool
	)

	g, gctx := errgroup.WithContext(ctx)
	llmCalls++
	g.Go(func() error {
		check, consistencyUsage, checkFellBack = s.checker.CheckConsistency(
			logger.WithContext(gctx, logger.StageKey, StageConsistency), excerpt, model, callOpts)
		return nil
	})
	if !opts.SkipPersonas {
		llmCalls += len(persona.Profiles())
		g.Go(func() error {
			personas, personaUsage, personasFellBack = s.evaluator.EvaluateAll(
				logger.WithContext(gctx, logger.StageKey, StagePersona), excerpt, model, callOpts)
			return nil
		})
	}
	_ = g.Wait()

	usage.Add(consistencyUsage)
	usage.Add(personaUsage)
	if checkFellBack {
		fallbackStages = append(fallbackStages, StageConsistency)
	}
	if personasFellBack {
		fallbackStages = append(fallbackStages, StagePersona)
	}

	// 阶段三：纯计算的汇总报告，无失败路径
	agg := report.Generate(check, personas)

	status := entity.AnalysisSuccess
	if len(fallbackStages) > 0 {
		status = entity.AnalysisPartial
	}

	duration := time.Since(start)
	s.recordMetrics(status, agg.Verdict, fallbackStages, duration)
	logger.Info(ctx, "analysis completed",
		"status", string(status),
		"verdict", string(agg.Verdict),
		"total_score", agg.WeightedScores.Total,
		"llm_calls", llmCalls,
		"duration_ms", duration.Milliseconds(),
	)

	return &entity.Analysis{
		ID:             analysisID,
		ExcerptSnippet: snippet(excerpt),
		SettingModel:   model,
		Consistency:    check,
		Personas:       personas,
		Report:         agg,
		Status:         status,
		Meta: entity.AnalysisMeta{
			DurationMs:       duration.Milliseconds(),
			LLMCalls:         llmCalls,
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			FallbackStages:   fallbackStages,
			StartedAt:        start,
		},
	}, nil
}

func (s *Service) validateExcerpt(excerpt string) error {
	n := len([]rune(excerpt))
	if n < s.cfg.ExcerptMinChars || n > s.cfg.ExcerptMaxChars {
		return errors.New(errors.CodeExcerptOutOfRange,
			fmt.Sprintf("摘录长度 %d 超出允许范围 [%d, %d]", n, s.cfg.ExcerptMinChars, s.cfg.ExcerptMaxChars))
	}
	return nil
}

func (s *Service) recordMetrics(status entity.AnalysisStatus, verdict entity.Verdict, fallbackStages []string, duration time.Duration) {
	metrics.AnalysisTotal.WithLabelValues(string(status)).Inc()
	metrics.AnalysisDuration.WithLabelValues(string(status)).Observe(duration.Seconds())
	metrics.AnalysisVerdictTotal.WithLabelValues(string(verdict)).Inc()
	for _, stage := range fallbackStages {
		metrics.StageFallbackTotal.WithLabelValues(stage).Inc()
	}
}

func snippet(excerpt string) string {
	runes := []rune(excerpt)
	if len(runes) <= snippetRunes {
		return excerpt
	}
	return string(runes[:snippetRunes]) + "…"
}
