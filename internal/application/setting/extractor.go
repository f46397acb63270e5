// Package setting 提供设定集提取：从小说全文中提取结构化的
// 角色表、世界观规则、时间轴与概要，作为后续检查的基准事实。
package setting

import (
	"context"

	"novel-review-api/internal/application/generation"
	"novel-review-api/internal/domain/entity"
	workflowprompt "novel-review-api/internal/workflow/prompt"
	"novel-review-api/pkg/errors"
	"novel-review-api/pkg/logger"
	"novel-review-api/pkg/retry"
)

var defaultPromptRegistry = workflowprompt.NewRegistry()

// Extractor 设定集提取器
type Extractor struct {
	inv    generation.Invoker
	policy retry.Policy
}

// NewExtractor 创建设定集提取器
func NewExtractor(inv generation.Invoker, policy retry.Policy) *Extractor {
	return &Extractor{inv: inv, policy: policy}
}

// ExtractSettingModel 从全文提取完整设定集。
// 适配层重试耗尽时返回领域错误，由编排方决定兜底设定集；
// 成功获得的设定集无条件执行后处理。
func (e *Extractor) ExtractSettingModel(ctx context.Context, fullText string, opts generation.CallOptions) (*entity.SettingModel, generation.Usage, error) {
	req, err := e.buildRequest(ctx, workflowprompt.PromptSettingExtractV1, fullText, settingModelContract(), opts)
	if err != nil {
		return nil, generation.Usage{}, errors.Wrap(err, errors.CodeSettingExtractionFailed, "failed to build extraction prompt")
	}

	res := generation.GenerateStructured[entity.SettingModel](ctx, e.inv, req, e.policy)
	if !res.Success {
		return nil, res.Usage, errors.Wrap(res.Err, errors.CodeSettingExtractionFailed, "setting extraction failed")
	}

	model := res.Data
	Postprocess(model)
	logger.Info(ctx, "setting model extracted",
		"title", model.Title,
		"characters", len(model.Characters),
		"world_rules", len(model.WorldRules),
		"timeline_events", len(model.Timeline),
	)
	return model, res.Usage, nil
}

type charactersPayload struct {
	Characters []entity.Character `json:"characters" validate:"dive"`
}

type worldRulesPayload struct {
	WorldRules []entity.WorldRule `json:"world_rules" validate:"dive"`
}

type timelinePayload struct {
	Timeline []entity.TimelineEvent `json:"timeline" validate:"dive"`
}

// ExtractCharacters 仅提取角色表。失败时返回空集合而非错误。
func (e *Extractor) ExtractCharacters(ctx context.Context, fullText string, opts generation.CallOptions) ([]entity.Character, generation.Usage) {
	req, err := e.buildRequest(ctx, workflowprompt.PromptCharactersExtractV1, fullText, charactersContract(), opts)
	if err != nil {
		return nil, generation.Usage{}
	}
	res := generation.GenerateStructured[charactersPayload](ctx, e.inv, req, e.policy)
	if !res.Success {
		logger.Warn(ctx, "character extraction degraded to empty set")
		return nil, res.Usage
	}
	return res.Data.Characters, res.Usage
}

// ExtractWorldRules 仅提取世界观规则。失败时返回空集合而非错误。
func (e *Extractor) ExtractWorldRules(ctx context.Context, fullText string, opts generation.CallOptions) ([]entity.WorldRule, generation.Usage) {
	req, err := e.buildRequest(ctx, workflowprompt.PromptWorldRulesExtractV1, fullText, worldRulesContract(), opts)
	if err != nil {
		return nil, generation.Usage{}
	}
	res := generation.GenerateStructured[worldRulesPayload](ctx, e.inv, req, e.policy)
	if !res.Success {
		logger.Warn(ctx, "world rule extraction degraded to empty set")
		return nil, res.Usage
	}
	return res.Data.WorldRules, res.Usage
}

// ExtractTimeline 仅提取时间轴。失败时返回空集合而非错误。
func (e *Extractor) ExtractTimeline(ctx context.Context, fullText string, opts generation.CallOptions) ([]entity.TimelineEvent, generation.Usage) {
	req, err := e.buildRequest(ctx, workflowprompt.PromptTimelineExtractV1, fullText, timelineContract(), opts)
	if err != nil {
		return nil, generation.Usage{}
	}
	res := generation.GenerateStructured[timelinePayload](ctx, e.inv, req, e.policy)
	if !res.Success {
		logger.Warn(ctx, "timeline extraction degraded to empty set")
		return nil, res.Usage
	}
	return res.Data.Timeline, res.Usage
}

func (e *Extractor) buildRequest(ctx context.Context, id workflowprompt.PromptID, fullText string, contract generation.Contract, opts generation.CallOptions) (*generation.Request, error) {
	tpl, err := defaultPromptRegistry.ChatTemplate(id)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"full_text":      fullText,
		"contract_block": generation.ContractBlock(contract),
	})
	if err != nil {
		return nil, err
	}
	req := generation.NewRequest(contract, opts)
	req.Messages = msgs
	return req, nil
}
