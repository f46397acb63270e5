package persona

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
	"novel-review-api/internal/domain/entity"
	"novel-review-api/pkg/retry"
)

var testPolicy = retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

// selectiveInvoker 按契约名决定成功或失败，用于模拟部分画像失败
type selectiveInvoker struct {
	failContracts map[string]bool
}

func (s *selectiveInvoker) Invoke(ctx context.Context, req *generation.Request) (*schema.Message, error) {
	if s.failContracts[req.Contract.Name] {
		return nil, fmt.Errorf("backend down for %s", req.Contract.Name)
	}
	return &schema.Message{Role: schema.Assistant, Content: `{
		"metrics": {"satisfaction": 88, "engagement": 90, "frustration": 10},
		"likes": ["设定扎实"],
		"overall_reaction": "positive"
	}`}, nil
}

func TestProfilesFixedOrder(t *testing.T) {
	ps := Profiles()

	require.Len(t, ps, 3)
	assert.Equal(t, entity.PersonaSettingObsessed, ps[0].Type)
	assert.Equal(t, entity.PersonaRomanceSubFan, ps[1].Type)
	assert.Equal(t, entity.PersonaMartialArtsFan, ps[2].Type)
}

func TestEvaluateAllSuccess(t *testing.T) {
	ev := NewEvaluator(&selectiveInvoker{}, testPolicy, DefaultLimits)

	results, _, fellBack := ev.EvaluateAll(context.Background(), "正文片段", nil, generation.CallOptions{})

	require.Len(t, results, 3)
	assert.False(t, fellBack)
	for i, p := range Profiles() {
		assert.Equal(t, p.Type, results[i].PersonaType)
		assert.Equal(t, 88, results[i].Metrics.Satisfaction)
		assert.Equal(t, entity.ReactionPositive, results[i].OverallReaction)
	}
}

func TestEvaluateAllPartialFailureKeepsOrder(t *testing.T) {
	// 第二个画像失败：结果仍为 3 个且顺序固定，只有该画像被替换为兜底
	inv := &selectiveInvoker{failContracts: map[string]bool{
		"persona_eval_" + string(entity.PersonaRomanceSubFan): true,
	}}
	ev := NewEvaluator(inv, testPolicy, DefaultLimits)

	results, _, fellBack := ev.EvaluateAll(context.Background(), "正文片段", nil, generation.CallOptions{})

	require.Len(t, results, 3)
	assert.True(t, fellBack)

	assert.Equal(t, entity.PersonaSettingObsessed, results[0].PersonaType)
	assert.Equal(t, 88, results[0].Metrics.Satisfaction)

	assert.Equal(t, entity.PersonaRomanceSubFan, results[1].PersonaType)
	assert.Equal(t, entity.PersonaMetrics{Satisfaction: 70, Engagement: 70, Frustration: 30}, results[1].Metrics)
	assert.Equal(t, entity.ReactionNeutral, results[1].OverallReaction)

	assert.Equal(t, entity.PersonaMartialArtsFan, results[2].PersonaType)
	assert.Equal(t, 88, results[2].Metrics.Satisfaction)
}

func TestEvaluateAllTotalFailure(t *testing.T) {
	inv := &selectiveInvoker{failContracts: map[string]bool{
		"persona_eval_" + string(entity.PersonaSettingObsessed): true,
		"persona_eval_" + string(entity.PersonaRomanceSubFan):   true,
		"persona_eval_" + string(entity.PersonaMartialArtsFan):  true,
	}}
	ev := NewEvaluator(inv, testPolicy, DefaultLimits)

	results, _, fellBack := ev.EvaluateAll(context.Background(), "正文片段", nil, generation.CallOptions{})

	require.Len(t, results, 3)
	assert.True(t, fellBack)
	for i, p := range Profiles() {
		assert.Equal(t, FallbackResult(p), results[i])
	}
}

func TestEvaluateUnknownPersona(t *testing.T) {
	ev := NewEvaluator(&selectiveInvoker{}, testPolicy, DefaultLimits)

	res := ev.Evaluate(context.Background(), entity.PersonaType("nonexistent"), "正文片段", nil, generation.CallOptions{})

	assert.Equal(t, entity.PersonaType("nonexistent"), res.PersonaType)
	assert.Equal(t, entity.ReactionNeutral, res.OverallReaction)
}

func TestAverageMetricsRounds(t *testing.T) {
	results := []entity.PersonaResult{
		{Metrics: entity.PersonaMetrics{Satisfaction: 70, Engagement: 80, Frustration: 10}},
		{Metrics: entity.PersonaMetrics{Satisfaction: 75, Engagement: 81, Frustration: 11}},
		{Metrics: entity.PersonaMetrics{Satisfaction: 76, Engagement: 82, Frustration: 11}},
	}

	avg := AverageMetrics(results)

	// (70+75+76)/3 = 73.67 -> 74
	assert.Equal(t, 74, avg.Satisfaction)
	assert.Equal(t, 81, avg.Engagement)
	assert.Equal(t, 11, avg.Frustration)
}

func TestAverageMetricsEmpty(t *testing.T) {
	assert.Equal(t, entity.PersonaMetrics{}, AverageMetrics(nil))
}

func TestSerializeSettingTruncates(t *testing.T) {
	ev := NewEvaluator(&selectiveInvoker{}, testPolicy, Limits{ExcerptRunes: 100, SettingRunes: 50})

	model := &entity.SettingModel{
		Title:   "测试作品",
		Summary: strings.Repeat("设", 500),
	}

	serialized := ev.serializeSetting(model)
	assert.LessOrEqual(t, len([]rune(serialized)), 50)

	assert.Equal(t, "null", ev.serializeSetting(nil))
}
