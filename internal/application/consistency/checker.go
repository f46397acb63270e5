// Package consistency 提供一致性检查：将待审正文与设定集比对，
// 从情节连贯、角色一致、世界观三个维度打分并列出问题。
package consistency

import (
	"context"
	"encoding/json"
	"math"

	"novel-review-api/internal/application/generation"
	"novel-review-api/internal/domain/entity"
	wfnode "novel-review-api/internal/workflow/node"
	workflowprompt "novel-review-api/internal/workflow/prompt"
	"novel-review-api/pkg/logger"
	"novel-review-api/pkg/retry"
)

var defaultPromptRegistry = workflowprompt.NewRegistry()

// 提示词中嵌入内容的长度上限（字符数）
const (
	maxSettingRunes = 20000
	maxExcerptRunes = 40000
)

// Checker 一致性检查器
type Checker struct {
	inv    generation.Invoker
	policy retry.Policy
}

// NewChecker 创建一致性检查器
func NewChecker(inv generation.Invoker, policy retry.Policy) *Checker {
	return &Checker{inv: inv, policy: policy}
}

// checkPayload 覆盖三个维度的生成响应。
// overall_score 即使模型给出也会被忽略，总分始终本地重算。
type checkPayload struct {
	Continuity   entity.DimensionCheck `json:"continuity"`
	Character    entity.DimensionCheck `json:"character"`
	WorldRules   entity.DimensionCheck `json:"world_rules"`
	OverallScore *int                  `json:"overall_score,omitempty"`
}

// CheckConsistency 对正文执行三维一致性检查，单次生成调用覆盖全部维度。
// 适配层失败时返回中性兜底结果并报告 fellBack=true。
func (c *Checker) CheckConsistency(ctx context.Context, excerpt string, model *entity.SettingModel, opts generation.CallOptions) (entity.ConsistencyCheck, generation.Usage, bool) {
	req, err := c.buildRequest(ctx, excerpt, model, opts)
	if err != nil {
		logger.Error(ctx, "consistency prompt build failed, using neutral fallback", err)
		return NeutralCheck(), generation.Usage{}, true
	}

	res := generation.GenerateStructured[checkPayload](ctx, c.inv, req, c.policy)
	if !res.Success {
		logger.Warn(ctx, "consistency check degraded to neutral fallback")
		return NeutralCheck(), res.Usage, true
	}

	check := entity.ConsistencyCheck{
		Continuity: res.Data.Continuity,
		Character:  res.Data.Character,
		WorldRules: res.Data.WorldRules,
	}
	normalizeIssueTypes(&check)
	// 各维度得分按模型输出采信，总分本地重算，防止模型自创权重
	check.OverallScore = ComputeOverallScore(check.Continuity.Score, check.Character.Score, check.WorldRules.Score)
	return check, res.Usage, false
}

// CheckContinuity 仅检查情节连贯维度
func (c *Checker) CheckContinuity(ctx context.Context, excerpt string, model *entity.SettingModel, opts generation.CallOptions) (entity.DimensionCheck, generation.Usage) {
	return c.checkDimension(ctx, excerpt, model, entity.IssueTypeContinuity, opts)
}

// CheckCharacterConsistency 仅检查角色一致维度
func (c *Checker) CheckCharacterConsistency(ctx context.Context, excerpt string, model *entity.SettingModel, opts generation.CallOptions) (entity.DimensionCheck, generation.Usage) {
	return c.checkDimension(ctx, excerpt, model, entity.IssueTypeCharacter, opts)
}

// CheckWorldRules 仅检查世界观维度
func (c *Checker) CheckWorldRules(ctx context.Context, excerpt string, model *entity.SettingModel, opts generation.CallOptions) (entity.DimensionCheck, generation.Usage) {
	return c.checkDimension(ctx, excerpt, model, entity.IssueTypeWorldRules, opts)
}

type dimensionPayload struct {
	Score  int            `json:"score" validate:"min=0,max=100"`
	Issues []entity.Issue `json:"issues" validate:"dive"`
}

// checkDimension 单维度检查。这是部分降级路径，失败时采用比组合检查
// 更乐观的兜底分
func (c *Checker) checkDimension(ctx context.Context, excerpt string, model *entity.SettingModel, dim entity.IssueType, opts generation.CallOptions) (entity.DimensionCheck, generation.Usage) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptDimensionCheckV1)
	if err != nil {
		return DimensionFallback(), generation.Usage{}
	}

	contract := dimensionContract(dim)
	msgs, err := tpl.Format(ctx, map[string]any{
		"dimension_name":         dimensionName(dim),
		"dimension_instructions": dimensionInstructions(dim),
		"setting_block":          serializeSetting(model),
		"excerpt":                wfnode.TruncateByRunes(excerpt, maxExcerptRunes),
		"contract_block":         generation.ContractBlock(contract),
	})
	if err != nil {
		return DimensionFallback(), generation.Usage{}
	}

	req := generation.NewRequest(contract, opts)
	req.Messages = msgs

	res := generation.GenerateStructured[dimensionPayload](ctx, c.inv, req, c.policy)
	if !res.Success {
		logger.Warn(ctx, "dimension check degraded to fallback", "dimension", string(dim))
		return DimensionFallback(), res.Usage
	}

	issues := res.Data.Issues
	for i := range issues {
		issues[i].Type = dim
	}
	return entity.DimensionCheck{Score: res.Data.Score, Issues: issues}, res.Usage
}

// ComputeOverallScore 按固定权重 0.40/0.35/0.25 计算总分
func ComputeOverallScore(continuity, character, worldRules int) int {
	total := float64(continuity)*entity.WeightContinuity +
		float64(character)*entity.WeightCharacter +
		float64(worldRules)*entity.WeightWorldRules
	return int(math.Round(total))
}

func (c *Checker) buildRequest(ctx context.Context, excerpt string, model *entity.SettingModel, opts generation.CallOptions) (*generation.Request, error) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptConsistencyCheckV1)
	if err != nil {
		return nil, err
	}

	contract := consistencyContract()
	msgs, err := tpl.Format(ctx, map[string]any{
		"setting_block":  serializeSetting(model),
		"excerpt":        wfnode.TruncateByRunes(excerpt, maxExcerptRunes),
		"contract_block": generation.ContractBlock(contract),
	})
	if err != nil {
		return nil, err
	}

	req := generation.NewRequest(contract, opts)
	req.Messages = msgs
	return req, nil
}

// normalizeIssueTypes 按问题所属维度强制其 type 字段，模型偶尔会填错
func normalizeIssueTypes(check *entity.ConsistencyCheck) {
	for i := range check.Continuity.Issues {
		check.Continuity.Issues[i].Type = entity.IssueTypeContinuity
	}
	for i := range check.Character.Issues {
		check.Character.Issues[i].Type = entity.IssueTypeCharacter
	}
	for i := range check.WorldRules.Issues {
		check.WorldRules.Issues[i].Type = entity.IssueTypeWorldRules
	}
}

func serializeSetting(model *entity.SettingModel) string {
	if model == nil {
		return "null"
	}
	b, err := json.Marshal(model)
	if err != nil {
		return "null"
	}
	return wfnode.TruncateByRunes(string(b), maxSettingRunes)
}

func dimensionName(dim entity.IssueType) string {
	switch dim {
	case entity.IssueTypeContinuity:
		return "continuity（情节连贯性）"
	case entity.IssueTypeCharacter:
		return "character（角色一致性）"
	default:
		return "world_rules（世界观一致性）"
	}
}

func dimensionInstructions(dim entity.IssueType) string {
	switch dim {
	case entity.IssueTypeContinuity:
		return "检查事件先后是否与既有时间轴冲突、是否遗忘或矛盾地复述既有情节。"
	case entity.IssueTypeCharacter:
		return "检查角色言行是否符合其定位、性格、说话方式与行为禁区，人物关系是否与设定一致。"
	default:
		return "检查正文是否违反已确立的世界观规则，重点关注 importance 为 critical/high 的规则。"
	}
}
