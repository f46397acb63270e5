// Package entity 定义领域实体
package entity

import "time"

// AnalysisStatus 分析状态
type AnalysisStatus string

const (
	// AnalysisSuccess 全部阶段正常完成
	AnalysisSuccess AnalysisStatus = "success"
	// AnalysisPartial 部分阶段降级为兜底默认值
	AnalysisPartial AnalysisStatus = "partial"
	// AnalysisError 分析失败，无可用结果
	AnalysisError AnalysisStatus = "error"
)

// AnalysisMeta 分析过程元数据
type AnalysisMeta struct {
	DurationMs       int64     `json:"duration_ms"`
	LLMCalls         int       `json:"llm_calls"`
	PromptTokens     int       `json:"prompt_tokens,omitempty"`
	CompletionTokens int       `json:"completion_tokens,omitempty"`
	FallbackStages   []string  `json:"fallback_stages,omitempty"`
	StartedAt        time.Time `json:"started_at"`
}

// Analysis 一次分析调用的完整结果信封。
// 每次请求创建一次，不持久化，生命周期止于响应
type Analysis struct {
	ID             string           `json:"id"`
	ExcerptSnippet string           `json:"excerpt_snippet"`
	SettingModel   *SettingModel    `json:"setting_model,omitempty"`
	Consistency    ConsistencyCheck `json:"consistency"`
	Personas       []PersonaResult  `json:"personas,omitempty"`
	Report         AggregateReport  `json:"report"`
	Status         AnalysisStatus   `json:"status"`
	Meta           AnalysisMeta     `json:"meta"`
}
