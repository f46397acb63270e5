// Package entity 定义领域实体
package entity

// PersonaType 读者画像类型，固定三种
type PersonaType string

const (
	PersonaSettingObsessed PersonaType = "setting_obsessed"
	PersonaRomanceSubFan   PersonaType = "romance_sub_focused"
	PersonaMartialArtsFan  PersonaType = "traditional_martial_arts_fan"
)

// OverallReaction 读者整体反应
type OverallReaction string

const (
	ReactionVeryPositive OverallReaction = "very_positive"
	ReactionPositive     OverallReaction = "positive"
	ReactionNeutral      OverallReaction = "neutral"
	ReactionNegative     OverallReaction = "negative"
	ReactionVeryNegative OverallReaction = "very_negative"
)

// IsPositive 反应是否为正向（positive / very_positive）
func (r OverallReaction) IsPositive() bool {
	return r == ReactionPositive || r == ReactionVeryPositive
}

// PersonaMetrics 读者评估指标，各项取值 0-100
type PersonaMetrics struct {
	Satisfaction int `json:"satisfaction" validate:"min=0,max=100"`
	Engagement   int `json:"engagement" validate:"min=0,max=100"`
	Frustration  int `json:"frustration" validate:"min=0,max=100"`
}

// PersonaResult 单个模拟读者的评估结果
type PersonaResult struct {
	PersonaType        PersonaType     `json:"persona_type"`
	PersonaName        string          `json:"persona_name"`
	PersonaDescription string          `json:"persona_description"`
	Metrics            PersonaMetrics  `json:"metrics"`
	Likes              []string        `json:"likes,omitempty"`
	Dislikes           []string        `json:"dislikes,omitempty"`
	Suggestions        []string        `json:"suggestions,omitempty"`
	OverallReaction    OverallReaction `json:"overall_reaction" validate:"required,oneof=very_positive positive neutral negative very_negative"`
	SampleComment      string          `json:"sample_comment,omitempty"`
}
