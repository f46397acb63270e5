package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allPromptIDs = []PromptID{
	PromptSettingExtractV1,
	PromptCharactersExtractV1,
	PromptWorldRulesExtractV1,
	PromptTimelineExtractV1,
	PromptConsistencyCheckV1,
	PromptDimensionCheckV1,
	PromptPersonaEvalV1,
}

func TestAllTemplatesResolve(t *testing.T) {
	r := NewRegistry()

	for _, id := range allPromptIDs {
		tpl, err := r.ChatTemplate(id)
		require.NoError(t, err, "prompt %s", id)
		require.NotNil(t, tpl, "prompt %s", id)
	}
}

func TestUnknownPromptID(t *testing.T) {
	_, err := NewRegistry().ChatTemplate(PromptID("nope"))
	assert.Error(t, err)
}

func TestSettingExtractTemplateFormats(t *testing.T) {
	tpl, err := NewRegistry().ChatTemplate(PromptSettingExtractV1)
	require.NoError(t, err)

	msgs, err := tpl.Format(context.Background(), map[string]any{
		"full_text":      "第一章正文",
		"contract_block": "{\"type\": \"object\"}",
	})

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "第一章正文")
	// 契约文本原样注入，模板变量渲染不吞花括号
	assert.Contains(t, msgs[1].Content, "{\"type\": \"object\"}")
}

func TestPersonaEvalTemplateFormats(t *testing.T) {
	tpl, err := NewRegistry().ChatTemplate(PromptPersonaEvalV1)
	require.NoError(t, err)

	msgs, err := tpl.Format(context.Background(), map[string]any{
		"persona_name":        "设定控读者",
		"persona_description": "描述",
		"focus_block":         "- 设定",
		"criteria_block":      "标准",
		"setting_block":       "{}",
		"excerpt":             "正文",
		"contract_block":      "{}",
	})

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Content+msgs[1].Content, "设定控读者")
}
