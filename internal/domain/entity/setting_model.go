// Package entity 定义领域实体
package entity

// CharacterRole 角色定位
type CharacterRole string

const (
	RoleProtagonist CharacterRole = "protagonist"
	RoleAntagonist  CharacterRole = "antagonist"
	RoleSupporting  CharacterRole = "supporting"
	RoleMinor       CharacterRole = "minor"
)

// WorldRuleCategory 世界观规则分类
type WorldRuleCategory string

const (
	RuleCategoryMagic      WorldRuleCategory = "magic"
	RuleCategorySociety    WorldRuleCategory = "society"
	RuleCategoryTechnology WorldRuleCategory = "technology"
	RuleCategoryCulture    WorldRuleCategory = "culture"
	RuleCategoryPhysics    WorldRuleCategory = "physics"
	RuleCategoryOther      WorldRuleCategory = "other"
)

// Importance 重要性等级（世界规则 / 时间轴事件共用）
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

// Relationship 角色间关系，Character 按名字引用同一设定集中的其他角色
type Relationship struct {
	Character   string `json:"character" validate:"required"`
	Kind        string `json:"kind" validate:"required"`
	Description string `json:"description,omitempty"`
}

// Character 设定集中的角色
type Character struct {
	Name             string         `json:"name" validate:"required"`
	Role             CharacterRole  `json:"role" validate:"required,oneof=protagonist antagonist supporting minor"`
	Traits           []string       `json:"traits,omitempty"`
	Goals            []string       `json:"goals,omitempty"`
	Relationships    []Relationship `json:"relationships,omitempty" validate:"dive"`
	SpeechPattern    string         `json:"speech_pattern,omitempty"`
	ForbiddenActions []string       `json:"forbidden_actions,omitempty"`
}

// WorldRule 世界观规则。critical 级规则经后处理后必须携带非空 evidence
type WorldRule struct {
	Category   WorldRuleCategory `json:"category" validate:"required,oneof=magic society technology culture physics other"`
	Rule       string            `json:"rule" validate:"required"`
	Importance Importance        `json:"importance" validate:"required,oneof=critical high medium low"`
	Evidence   string            `json:"evidence,omitempty"`
}

// TimelineEvent 时间轴事件。Timestamp 是不透明的排序键（如章节标签），
// 提取后按字典序排序，不保证与叙事时序一致
type TimelineEvent struct {
	Timestamp          string     `json:"timestamp" validate:"required"`
	Event              string     `json:"event" validate:"required"`
	InvolvedCharacters []string   `json:"involved_characters,omitempty"`
	Importance         Importance `json:"importance" validate:"required,oneof=critical high medium low"`
}

// SettingModel 设定集：从全文提取的结构化叙事档案，
// 每次分析生成一次，此后不可变，供一致性检查和读者画像评估共同消费
type SettingModel struct {
	Title      string          `json:"title" validate:"required"`
	Genres     []string        `json:"genres,omitempty"`
	Characters []Character     `json:"characters,omitempty" validate:"dive"`
	WorldRules []WorldRule     `json:"world_rules,omitempty" validate:"dive"`
	Timeline   []TimelineEvent `json:"timeline,omitempty" validate:"dive"`
	Summary    string          `json:"summary,omitempty"`
}

// CharacterNames 返回设定集中的全部角色名集合
func (m *SettingModel) CharacterNames() map[string]struct{} {
	names := make(map[string]struct{}, len(m.Characters))
	for i := range m.Characters {
		names[m.Characters[i].Name] = struct{}{}
	}
	return names
}
