package setting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novel-review-api/internal/domain/entity"
)

func TestPostprocessPrunesDanglingRelationships(t *testing.T) {
	m := &entity.SettingModel{
		Title: "测试作品",
		Characters: []entity.Character{
			{
				Name: "林风",
				Role: entity.RoleProtagonist,
				Relationships: []entity.Relationship{
					{Character: "苏瑶", Kind: "挚友"},
					{Character: "不存在的人", Kind: "师徒"},
				},
			},
			{Name: "苏瑶", Role: entity.RoleSupporting},
		},
	}

	Postprocess(m)

	require.Len(t, m.Characters[0].Relationships, 1)
	assert.Equal(t, "苏瑶", m.Characters[0].Relationships[0].Character)
}

func TestPostprocessProtagonistSpeechDefault(t *testing.T) {
	m := &entity.SettingModel{
		Title: "测试作品",
		Characters: []entity.Character{
			{Name: "林风", Role: entity.RoleProtagonist},
			{Name: "反派甲", Role: entity.RoleAntagonist},
			{Name: "话痨", Role: entity.RoleProtagonist, SpeechPattern: "句尾带「是吧」"},
		},
	}

	Postprocess(m)

	assert.Equal(t, DefaultPostprocess.ProtagonistSpeechPattern, m.Characters[0].SpeechPattern)
	// 非主角不填占位
	assert.Empty(t, m.Characters[1].SpeechPattern)
	// 已有口癖不覆盖
	assert.Equal(t, "句尾带「是吧」", m.Characters[2].SpeechPattern)
}

func TestPostprocessTimelineLexicalSort(t *testing.T) {
	m := &entity.SettingModel{
		Title: "测试作品",
		Timeline: []entity.TimelineEvent{
			{Timestamp: "第2章", Event: "拜师"},
			{Timestamp: "第10章", Event: "下山"},
			{Timestamp: "第1章", Event: "开篇"},
		},
	}

	Postprocess(m)

	// 字典序："第10章" 排在 "第2章" 之前，与叙事时序无关
	assert.Equal(t, "第1章", m.Timeline[0].Timestamp)
	assert.Equal(t, "第10章", m.Timeline[1].Timestamp)
	assert.Equal(t, "第2章", m.Timeline[2].Timestamp)
}

func TestPostprocessCriticalRuleEvidence(t *testing.T) {
	m := &entity.SettingModel{
		Title: "测试作品",
		WorldRules: []entity.WorldRule{
			{Category: entity.RuleCategoryMagic, Rule: "灵力不可凭空产生", Importance: entity.ImportanceCritical},
			{Category: entity.RuleCategoryMagic, Rule: "有依据的规则", Importance: entity.ImportanceCritical, Evidence: "第一章明示"},
			{Category: entity.RuleCategorySociety, Rule: "低重要度规则", Importance: entity.ImportanceLow},
		},
	}

	Postprocess(m)

	assert.Equal(t, DefaultPostprocess.CriticalRuleEvidence, m.WorldRules[0].Evidence)
	assert.Equal(t, "第一章明示", m.WorldRules[1].Evidence)
	assert.Empty(t, m.WorldRules[2].Evidence)
}

func TestPostprocessNilModel(t *testing.T) {
	assert.NotPanics(t, func() { Postprocess(nil) })
}
