package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novel-review-api/internal/domain/entity"
)

func checkWithScores(continuity, character, worldRules int) entity.ConsistencyCheck {
	c := entity.ConsistencyCheck{
		Continuity: entity.DimensionCheck{Score: continuity},
		Character:  entity.DimensionCheck{Score: character},
		WorldRules: entity.DimensionCheck{Score: worldRules},
	}
	c.OverallScore = c.Continuity.Score // 占位，由各测试自行设置
	return c
}

func positivePersonas(reaction entity.OverallReaction) []entity.PersonaResult {
	return []entity.PersonaResult{
		{PersonaType: entity.PersonaSettingObsessed, PersonaName: "设定控读者", Metrics: entity.PersonaMetrics{Satisfaction: 80}, OverallReaction: reaction},
		{PersonaType: entity.PersonaRomanceSubFan, PersonaName: "感情线读者", Metrics: entity.PersonaMetrics{Satisfaction: 85}, OverallReaction: reaction},
		{PersonaType: entity.PersonaMartialArtsFan, PersonaName: "传统武侠读者", Metrics: entity.PersonaMetrics{Satisfaction: 90}, OverallReaction: reaction},
	}
}

func TestComputeWeightedScores(t *testing.T) {
	tests := []struct {
		continuity, character, worldRules int
		wantTotal                         int
	}{
		{90, 85, 95, 90},  // round(36+29.75+23.75)=round(89.5)=90
		{50, 55, 60, 54},  // round(20+19.25+15)=round(54.25)=54
		{100, 100, 100, 100},
		{0, 0, 0, 0},
		{80, 80, 80, 80},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.continuity, tt.character, tt.worldRules), func(t *testing.T) {
			scores := computeWeightedScores(checkWithScores(tt.continuity, tt.character, tt.worldRules))
			assert.Equal(t, tt.wantTotal, scores.Total)
			assert.Equal(t, tt.continuity, scores.Continuity)
			assert.Equal(t, tt.character, scores.Character)
			assert.Equal(t, tt.worldRules, scores.WorldRules)
		})
	}
}

func TestVerdictBoundaries(t *testing.T) {
	tests := []struct {
		total int
		want  entity.Verdict
	}{
		{100, entity.VerdictPass},
		{80, entity.VerdictPass},
		{79, entity.VerdictRevise},
		{60, entity.VerdictRevise},
		{59, entity.VerdictBlock},
		{0, entity.VerdictBlock},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, verdictOf(tt.total), "total=%d", tt.total)
	}
}

func TestGenerateScenarioPass(t *testing.T) {
	check := checkWithScores(90, 85, 95)
	check.OverallScore = 90

	rep := Generate(check, positivePersonas(entity.ReactionPositive))

	assert.Equal(t, entity.VerdictPass, rep.Verdict)
	assert.Equal(t, 90, rep.WeightedScores.Total)
	assert.NotEmpty(t, rep.ExecutiveSummary)
	assert.NotEmpty(t, rep.Recommendation)
}

func TestGenerateScenarioBlock(t *testing.T) {
	check := checkWithScores(50, 55, 60)
	check.OverallScore = 54

	rep := Generate(check, positivePersonas(entity.ReactionNegative))

	assert.Equal(t, entity.VerdictBlock, rep.Verdict)
	assert.Equal(t, 54, rep.WeightedScores.Total)
}

func TestConfidenceAllPositive(t *testing.T) {
	check := checkWithScores(80, 80, 80)
	check.OverallScore = 80

	got := computeConfidence(check, positivePersonas(entity.ReactionVeryPositive))
	assert.Equal(t, 90, got)
}

func TestConfidenceNonePositive(t *testing.T) {
	check := checkWithScores(80, 80, 80)
	check.OverallScore = 80

	got := computeConfidence(check, positivePersonas(entity.ReactionNeutral))
	assert.Equal(t, 70, got)
}

func TestConfidenceMixedReactionsNoAdjustment(t *testing.T) {
	check := checkWithScores(80, 80, 80)
	check.OverallScore = 80

	personas := positivePersonas(entity.ReactionNeutral)
	personas[0].OverallReaction = entity.ReactionPositive

	got := computeConfidence(check, personas)
	assert.Equal(t, 80, got)
}

func TestConfidenceCriticalPenaltyAndClamp(t *testing.T) {
	check := checkWithScores(30, 30, 30)
	check.OverallScore = 30
	// 10 个 critical 问题 + 无正向读者，必须夹取到 0 而不是负数
	for i := 0; i < 10; i++ {
		check.Continuity.Issues = append(check.Continuity.Issues, entity.Issue{
			Type:        entity.IssueTypeContinuity,
			Severity:    entity.SeverityCritical,
			Description: fmt.Sprintf("问题 %d", i),
		})
	}

	got := computeConfidence(check, positivePersonas(entity.ReactionVeryNegative))
	assert.Equal(t, 0, got)
}

func TestConfidenceClampUpper(t *testing.T) {
	check := checkWithScores(100, 100, 100)
	check.OverallScore = 100

	got := computeConfidence(check, positivePersonas(entity.ReactionVeryPositive))
	assert.Equal(t, 100, got)
}

func TestBuildActionItemsFromIssues(t *testing.T) {
	check := checkWithScores(70, 70, 70)
	check.Continuity.Issues = []entity.Issue{
		{Type: entity.IssueTypeContinuity, Severity: entity.SeverityCritical, Description: "时间线断裂", SuggestedFix: "补一段过渡"},
		{Type: entity.IssueTypeContinuity, Severity: entity.SeverityMedium, Description: "次要细节不一致"},
	}
	check.Character.Issues = []entity.Issue{
		{Type: entity.IssueTypeCharacter, Severity: entity.SeverityHigh, Description: "主角口癖走形", Location: "第三段"},
	}

	items := buildActionItems(check, nil)

	require.Len(t, items, 2, "medium 问题不应生成整改项")
	assert.Equal(t, entity.SeverityCritical, items[0].Priority)
	assert.Equal(t, entity.ActionFixRequired, items[0].Type)
	assert.Equal(t, "significant", items[0].EstimatedEffort)
	assert.Contains(t, items[0].Description, "补一段过渡")

	assert.Equal(t, entity.SeverityHigh, items[1].Priority)
	assert.Equal(t, "moderate", items[1].EstimatedEffort)
	assert.Contains(t, items[1].AffectedArea, "第三段")
}

func TestBuildActionItemsFromLowSatisfactionPersona(t *testing.T) {
	personas := []entity.PersonaResult{
		{
			PersonaType: entity.PersonaSettingObsessed,
			PersonaName: "设定控读者",
			Metrics:     entity.PersonaMetrics{Satisfaction: 40},
			Suggestions: []string{"补全力量体系说明", "修正等级称谓", "第三条不应出现"},
		},
		{
			PersonaType: entity.PersonaRomanceSubFan,
			PersonaName: "感情线读者",
			Metrics:     entity.PersonaMetrics{Satisfaction: 75},
			Suggestions: []string{"满意度达标，不应采纳"},
		},
	}

	items := buildActionItems(checkWithScores(70, 70, 70), personas)

	require.Len(t, items, 2, "只取低满意度读者的前两条建议")
	for _, item := range items {
		assert.Equal(t, entity.SeverityHigh, item.Priority)
		assert.Equal(t, entity.ActionImprovement, item.Type)
		assert.Contains(t, item.Description, "设定控读者")
	}
}

func TestBuildActionItemsCapAndOrder(t *testing.T) {
	check := checkWithScores(50, 50, 50)
	// 先插 8 个 high 再插 6 个 critical，验证稳定排序与截断
	for i := 0; i < 8; i++ {
		check.Continuity.Issues = append(check.Continuity.Issues, entity.Issue{
			Type: entity.IssueTypeContinuity, Severity: entity.SeverityHigh, Description: fmt.Sprintf("high-%d", i),
		})
	}
	for i := 0; i < 6; i++ {
		check.Character.Issues = append(check.Character.Issues, entity.Issue{
			Type: entity.IssueTypeCharacter, Severity: entity.SeverityCritical, Description: fmt.Sprintf("critical-%d", i),
		})
	}

	items := buildActionItems(check, nil)

	require.Len(t, items, MaxActionItems)
	// critical 全部在前且保持插入顺序
	for i := 0; i < 6; i++ {
		assert.Equal(t, entity.SeverityCritical, items[i].Priority)
		assert.Contains(t, items[i].Description, fmt.Sprintf("critical-%d", i))
	}
	for i := 6; i < MaxActionItems; i++ {
		assert.Equal(t, entity.SeverityHigh, items[i].Priority)
	}
	// 优先级非递增
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t,
			entity.SeverityRank(items[i-1].Priority),
			entity.SeverityRank(items[i].Priority),
		)
	}
}

func TestFilterActionItemsByPriorityIdempotent(t *testing.T) {
	items := []entity.ActionItem{
		{Priority: entity.SeverityCritical},
		{Priority: entity.SeverityHigh},
		{Priority: entity.SeverityMedium},
		{Priority: entity.SeverityLow},
	}

	once := FilterActionItemsByPriority(items, entity.SeverityHigh)
	twice := FilterActionItemsByPriority(once, entity.SeverityHigh)

	require.Len(t, once, 2)
	assert.Equal(t, once, twice)
}

func TestRecommendationMentionsLowestPersona(t *testing.T) {
	check := checkWithScores(65, 65, 65)
	check.OverallScore = 65
	personas := positivePersonas(entity.ReactionNeutral)
	personas[1].Metrics.Satisfaction = 30

	rep := Generate(check, personas)

	assert.Equal(t, entity.VerdictRevise, rep.Verdict)
	assert.Contains(t, rep.Recommendation, "感情线读者")
}
