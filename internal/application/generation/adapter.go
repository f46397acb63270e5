package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	wfnode "novel-review-api/internal/workflow/node"
	"novel-review-api/pkg/logger"
	"novel-review-api/pkg/metrics"
	"novel-review-api/pkg/retry"
)

// Usage 归一化后的 Token 用量，与具体后端无关
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Request 一次结构化生成请求
type Request struct {
	Messages []*schema.Message
	Contract Contract

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

// Result 结构化生成结果。Success 为 false 时 Data 为空、Err 记录最终失败原因；
// 该边界之后不再向外抛错。
type Result[T any] struct {
	Success  bool
	Data     *T
	Err      error
	Usage    Usage
	Attempts int
}

// Invoker 对底层 ChatModel 的最小抽象，便于按 provider 切换实现与测试替身
type Invoker interface {
	Invoke(ctx context.Context, req *Request) (*schema.Message, error)
}

// GenerateStructured 执行一次带契约的生成调用：
// 调用后端 -> 剥离围栏截取 JSON -> 解码 -> 契约校验；
// 解析/校验失败与传输失败走同一条退避重试路径，重试耗尽后返回失败结果而不抛错。
func GenerateStructured[T any](ctx context.Context, inv Invoker, req *Request, policy retry.Policy) Result[T] {
	type attemptOut struct {
		data  *T
		usage Usage
	}

	out, attempts, err := retry.Do(ctx, policy, func(ctx context.Context) (attemptOut, error) {
		msg, err := inv.Invoke(ctx, req)
		if err != nil {
			metrics.LLMRetryTotal.WithLabelValues(req.Contract.Name, "transport").Inc()
			logger.Warn(ctx, "llm call failed",
				"contract", req.Contract.Name,
				"error", err.Error(),
			)
			return attemptOut{}, err
		}
		if msg == nil {
			metrics.LLMRetryTotal.WithLabelValues(req.Contract.Name, "transport").Inc()
			return attemptOut{}, fmt.Errorf("empty llm response")
		}

		data, err := decodeAndValidate[T](msg.Content)
		if err != nil {
			metrics.LLMRetryTotal.WithLabelValues(req.Contract.Name, "contract").Inc()
			logger.Warn(ctx, "llm output rejected by contract",
				"contract", req.Contract.Name,
				"error", err.Error(),
			)
			return attemptOut{}, err
		}
		return attemptOut{data: data, usage: usageFromMessage(msg)}, nil
	})

	if err != nil {
		logger.Error(ctx, "structured generation exhausted retries", err,
			"contract", req.Contract.Name,
			"attempts", attempts,
		)
		return Result[T]{Success: false, Err: err, Attempts: attempts}
	}

	return Result[T]{
		Success:  true,
		Data:     out.data,
		Usage:    out.usage,
		Attempts: attempts,
	}
}

// decodeAndValidate 截取 JSON、解码为 T 并执行 validator 标签校验。
// 任何失败都包装为 contractError，与传输失败区分计数。
func decodeAndValidate[T any](content string) (*T, error) {
	raw := wfnode.ExtractJSONObject(content)
	if strings.TrimSpace(raw) == "" {
		return nil, &contractError{err: fmt.Errorf("empty output")}
	}

	var data T
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, &contractError{err: fmt.Errorf("unparseable output: %w", err)}
	}
	if err := validate.Struct(&data); err != nil {
		return nil, &contractError{err: err}
	}
	return &data, nil
}

func usageFromMessage(msg *schema.Message) Usage {
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return Usage{}
	}
	u := msg.ResponseMeta.Usage
	return Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

// Add 累加另一份用量
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
