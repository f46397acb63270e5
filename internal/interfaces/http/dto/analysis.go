package dto

// AnalyzeRequest 提交一次质量审校。
// 摘录长度边界由服务端配置校验，此处只做必填与基础结构校验
type AnalyzeRequest struct {
	Excerpt string          `json:"excerpt" binding:"required"`
	Options *AnalyzeOptions `json:"options,omitempty"`
}

// AnalyzeOptions 审校可选参数
type AnalyzeOptions struct {
	SkipPersonas    bool     `json:"skip_personas,omitempty"`
	SkipSettingNote bool     `json:"skip_setting_note,omitempty"`
	Temperature     *float32 `json:"temperature,omitempty" binding:"omitempty,min=0,max=2"`
	Provider        string   `json:"provider,omitempty" binding:"omitempty,max=32"`
	Model           string   `json:"model,omitempty" binding:"omitempty,max=64"`
}
