package review

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novel-review-api/internal/application/generation"
	"novel-review-api/internal/config"
	"novel-review-api/internal/domain/entity"
	"novel-review-api/pkg/errors"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Analysis = config.AnalysisConfig{
		ExcerptMinChars:     10,
		ExcerptMaxChars:     50000,
		PersonaExcerptRunes: 4000,
		PersonaSettingRunes: 2000,
	}
	cfg.LLM.Retry = config.RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	return cfg
}

// stageInvoker 按契约名路由响应，模拟不同阶段的后端行为
type stageInvoker struct {
	failContracts map[string]bool
}

func (s *stageInvoker) Invoke(ctx context.Context, req *generation.Request) (*schema.Message, error) {
	name := req.Contract.Name
	if s.failContracts[name] {
		return nil, fmt.Errorf("backend down for %s", name)
	}

	var content string
	switch {
	case name == "setting_model":
		content = `{
			"title": "灵渊纪",
			"characters": [{"name": "林风", "role": "protagonist"}],
			"summary": "修行故事"
		}`
	case name == "consistency_check":
		content = `{
			"continuity": {"score": 90, "issues": []},
			"character": {"score": 85, "issues": []},
			"world_rules": {"score": 95, "issues": []}
		}`
	case strings.HasPrefix(name, "persona_eval_"):
		content = `{
			"metrics": {"satisfaction": 85, "engagement": 88, "frustration": 12},
			"overall_reaction": "positive"
		}`
	default:
		return nil, fmt.Errorf("unexpected contract %s", name)
	}
	return &schema.Message{Role: schema.Assistant, Content: content}, nil
}

const excerpt = "灵渊纪第十一章：林风踏出山门，身后是十年苦修。"

func TestAnalyzeSuccess(t *testing.T) {
	svc := NewService(&stageInvoker{}, testConfig())

	analysis, err := svc.Analyze(context.Background(), excerpt, Options{})

	require.NoError(t, err)
	assert.Equal(t, entity.AnalysisSuccess, analysis.Status)
	assert.Empty(t, analysis.Meta.FallbackStages)
	assert.NotEmpty(t, analysis.ID)

	require.NotNil(t, analysis.SettingModel)
	assert.Equal(t, "灵渊纪", analysis.SettingModel.Title)

	assert.Equal(t, 90, analysis.Consistency.OverallScore)
	assert.Equal(t, entity.VerdictPass, analysis.Report.Verdict)
	require.Len(t, analysis.Personas, 3)

	// 设定 1 次 + 一致性 1 次 + 画像 3 次
	assert.Equal(t, 5, analysis.Meta.LLMCalls)
}

func TestAnalyzeSettingFallbackMarksPartial(t *testing.T) {
	svc := NewService(&stageInvoker{failContracts: map[string]bool{"setting_model": true}}, testConfig())

	analysis, err := svc.Analyze(context.Background(), excerpt, Options{})

	require.NoError(t, err, "设定提取失败由编排层兜底，不向调用方抛错")
	assert.Equal(t, entity.AnalysisPartial, analysis.Status)
	assert.Contains(t, analysis.Meta.FallbackStages, StageSetting)

	// 兜底设定集的标题来自正文启发式
	require.NotNil(t, analysis.SettingModel)
	assert.NotEmpty(t, analysis.SettingModel.Title)

	// 其余阶段照常执行
	assert.Equal(t, entity.VerdictPass, analysis.Report.Verdict)
	require.Len(t, analysis.Personas, 3)
}

func TestAnalyzeConsistencyFallbackMarksPartial(t *testing.T) {
	svc := NewService(&stageInvoker{failContracts: map[string]bool{"consistency_check": true}}, testConfig())

	analysis, err := svc.Analyze(context.Background(), excerpt, Options{})

	require.NoError(t, err)
	assert.Equal(t, entity.AnalysisPartial, analysis.Status)
	assert.Contains(t, analysis.Meta.FallbackStages, StageConsistency)
	// 中性兜底 75 分落在 REVISE 区间
	assert.Equal(t, 75, analysis.Consistency.OverallScore)
	assert.Equal(t, entity.VerdictRevise, analysis.Report.Verdict)
}

func TestAnalyzeSkipOptions(t *testing.T) {
	svc := NewService(&stageInvoker{}, testConfig())

	analysis, err := svc.Analyze(context.Background(), excerpt, Options{
		SkipPersonas:    true,
		SkipSettingNote: true,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.AnalysisSuccess, analysis.Status)
	assert.Nil(t, analysis.SettingModel)
	assert.Empty(t, analysis.Personas)
	// 只剩一致性检查一次调用
	assert.Equal(t, 1, analysis.Meta.LLMCalls)
}

func TestAnalyzeExcerptBounds(t *testing.T) {
	svc := NewService(&stageInvoker{}, testConfig())

	_, err := svc.Analyze(context.Background(), "太短", Options{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExcerptOutOfRange, errors.AsAppError(err).Code)

	_, err = svc.Analyze(context.Background(), strings.Repeat("字", 50001), Options{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExcerptOutOfRange, errors.AsAppError(err).Code)
}

func TestDetectTitle(t *testing.T) {
	assert.Equal(t, "灵渊纪", DetectTitle("《灵渊纪》第一章\n林风睁开眼。"))
	assert.Equal(t, "斗破星河", DetectTitle("关于「斗破星河」的正文片段"))
	assert.Equal(t, "第一章 山门", DetectTitle("第一章 山门\n林风睁开眼。"))
	assert.Equal(t, "未命名作品", DetectTitle("   \n  "))
}

func TestFallbackSettingModel(t *testing.T) {
	m := FallbackSettingModel("《灵渊纪》正文……")

	assert.Equal(t, "灵渊纪", m.Title)
	assert.Empty(t, m.Characters)
	assert.NotEmpty(t, m.Summary)
}
