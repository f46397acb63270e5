package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	wfnode "novel-review-api/internal/workflow/node"
	workflowport "novel-review-api/internal/workflow/port"
	"novel-review-api/pkg/logger"
	"novel-review-api/pkg/metrics"
)

// EinoInvoker 基于 Eino ChatModel 的 Invoker 实现，
// 按 provider 名从工厂取客户端，优先使用 json_schema response_format，
// 后端不支持时降级为纯提示词约束。
type EinoInvoker struct {
	factory workflowport.ChatModelFactory
}

func NewEinoInvoker(factory workflowport.ChatModelFactory) *EinoInvoker {
	return &EinoInvoker{factory: factory}
}

func (iv *EinoInvoker) Invoke(ctx context.Context, req *Request) (*schema.Message, error) {
	if iv == nil || iv.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("request messages are empty")
	}

	provider := strings.TrimSpace(req.Provider)
	chatModel, err := iv.factory.Get(ctx, provider)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outMsg, err := chatModel.Generate(ctx, req.Messages, buildModelOptions(req, true)...)
	if err != nil && wfnode.IsResponseFormatUnsupportedError(err) {
		logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
			"provider", provider,
			"model", req.Model,
			"contract", req.Contract.Name,
			"error", err.Error(),
		)
		outMsg, err = chatModel.Generate(ctx, req.Messages, buildModelOptions(req, false)...)
	}

	modelLabel := strings.TrimSpace(req.Model)
	metrics.LLMCallDuration.WithLabelValues(provider, modelLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(provider, modelLabel, "error").Inc()
		return nil, err
	}
	metrics.LLMCallTotal.WithLabelValues(provider, modelLabel, "success").Inc()

	if outMsg != nil && outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		u := outMsg.ResponseMeta.Usage
		metrics.LLMTokensUsed.WithLabelValues(provider, modelLabel, "prompt").Add(float64(u.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(provider, modelLabel, "completion").Add(float64(u.CompletionTokens))
	}
	return outMsg, nil
}

func buildModelOptions(req *Request, enableSchema bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if req == nil {
		return opts
	}

	if req.Temperature != nil {
		opts = append(opts, model.WithTemperature(*req.Temperature))
	}
	if req.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*req.MaxTokens))
	}
	if strings.TrimSpace(req.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(req.Model)))
	}

	if enableSchema && req.Contract.Schema != nil {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   req.Contract.Name,
					"strict": false,
					"schema": req.Contract.Schema,
				},
			},
		}))
	}

	return opts
}
