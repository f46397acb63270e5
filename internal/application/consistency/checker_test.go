package consistency

import (
	"context"
	"fmt"
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

// fixedInvoker 返回固定内容或固定错误
type fixedInvoker struct {
	content string
	err     error
}

func (f *fixedInvoker) Invoke(ctx context.Context, req *generation.Request) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.content}, nil
}

func testModel() *entity.SettingModel {
	return &entity.SettingModel{
		Title: "测试作品",
		Characters: []entity.Character{
			{Name: "林风", Role: entity.RoleProtagonist},
		},
	}
}

func TestComputeOverallScore(t *testing.T) {
	assert.Equal(t, 90, ComputeOverallScore(90, 85, 95))
	assert.Equal(t, 54, ComputeOverallScore(50, 55, 60))
	assert.Equal(t, 100, ComputeOverallScore(100, 100, 100))
	assert.Equal(t, 0, ComputeOverallScore(0, 0, 0))
}

func TestCheckConsistencyRecomputesOverallScore(t *testing.T) {
	// 后端擅自给出的 overall_score 必须被忽略，总分本地按固定权重重算
	inv := &fixedInvoker{content: `{
		"continuity": {"score": 90, "issues": []},
		"character": {"score": 85, "issues": []},
		"world_rules": {"score": 95, "issues": []},
		"overall_score": 11
	}`}

	check, _, fellBack := NewChecker(inv, testPolicy).CheckConsistency(context.Background(), "正文片段", testModel(), generation.CallOptions{})

	assert.False(t, fellBack)
	assert.Equal(t, 90, check.OverallScore)
	assert.Equal(t, 90, check.Continuity.Score)
	assert.Equal(t, 85, check.Character.Score)
	assert.Equal(t, 95, check.WorldRules.Score)
}

func TestCheckConsistencyNormalizesIssueTypes(t *testing.T) {
	inv := &fixedInvoker{content: `{
		"continuity": {"score": 80, "issues": [
			{"type": "character", "severity": "high", "description": "维度内问题类型以维度为准"}
		]},
		"character": {"score": 80, "issues": []},
		"world_rules": {"score": 80, "issues": []}
	}`}

	check, _, _ := NewChecker(inv, testPolicy).CheckConsistency(context.Background(), "正文片段", testModel(), generation.CallOptions{})

	require.Len(t, check.Continuity.Issues, 1)
	assert.Equal(t, entity.IssueTypeContinuity, check.Continuity.Issues[0].Type)
}

func TestCheckConsistencyFallsBackToNeutral(t *testing.T) {
	inv := &fixedInvoker{err: fmt.Errorf("backend down")}

	check, _, fellBack := NewChecker(inv, testPolicy).CheckConsistency(context.Background(), "正文片段", testModel(), generation.CallOptions{})

	assert.True(t, fellBack)
	assert.Equal(t, NeutralCheck(), check)
	assert.Equal(t, 75, check.OverallScore)
	assert.Empty(t, check.AllIssues())
}

func TestCheckDimensionFallsBackOptimistic(t *testing.T) {
	inv := &fixedInvoker{err: fmt.Errorf("backend down")}
	checker := NewChecker(inv, testPolicy)

	for _, check := range []func(context.Context, string, *entity.SettingModel, generation.CallOptions) (entity.DimensionCheck, generation.Usage){
		checker.CheckContinuity,
		checker.CheckCharacterConsistency,
		checker.CheckWorldRules,
	} {
		dim, _ := check(context.Background(), "正文片段", testModel(), generation.CallOptions{})
		assert.Equal(t, 85, dim.Score)
		assert.Empty(t, dim.Issues)
	}
}

func TestCheckDimensionOverridesIssueType(t *testing.T) {
	inv := &fixedInvoker{content: `{"score": 72, "issues": [
		{"type": "continuity", "severity": "medium", "description": "混入其它维度的标签"}
	]}`}

	dim, _ := NewChecker(inv, testPolicy).CheckWorldRules(context.Background(), "正文片段", testModel(), generation.CallOptions{})

	require.Len(t, dim.Issues, 1)
	assert.Equal(t, entity.IssueTypeWorldRules, dim.Issues[0].Type)
	assert.Equal(t, 72, dim.Score)
}

func TestFilterIssuesBySeverity(t *testing.T) {
	issues := []entity.Issue{
		{Severity: entity.SeverityLow, Description: "low"},
		{Severity: entity.SeverityCritical, Description: "critical"},
		{Severity: entity.SeverityMedium, Description: "medium"},
		{Severity: entity.SeverityHigh, Description: "high"},
	}

	got := FilterIssuesBySeverity(issues, entity.SeverityMedium)
	require.Len(t, got, 3)
	for _, issue := range got {
		assert.NotEqual(t, entity.SeverityLow, issue.Severity)
	}

	// 幂等：同阈值过滤两次结果不变
	assert.Equal(t, got, FilterIssuesBySeverity(got, entity.SeverityMedium))

	// 全量阈值
	assert.Len(t, FilterIssuesBySeverity(issues, entity.SeverityLow), 4)
	assert.Len(t, FilterIssuesBySeverity(issues, entity.SeverityCritical), 1)
}

func TestSeverityRankTotalOrder(t *testing.T) {
	assert.Greater(t, entity.SeverityRank(entity.SeverityCritical), entity.SeverityRank(entity.SeverityHigh))
	assert.Greater(t, entity.SeverityRank(entity.SeverityHigh), entity.SeverityRank(entity.SeverityMedium))
	assert.Greater(t, entity.SeverityRank(entity.SeverityMedium), entity.SeverityRank(entity.SeverityLow))
	assert.Greater(t, entity.SeverityRank(entity.SeverityLow), entity.SeverityRank(entity.IssueSeverity("unknown")))
}
