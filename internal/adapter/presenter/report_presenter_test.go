package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canton09/aisales/internal/domain/entities"
)

func TestToReportResponse_DefaultsEverything(t *testing.T) {
	res := entities.NewAnalysisResult(entities.ProviderGemini, "store_visit", "gemini-test")
	res.Analysis = &entities.SalesVisitAnalysis{}

	r := ToReportResponse(res)
	require.NotNil(t, r)

	assert.Equal(t, DefaultTitle, r.Summary.Title)
	assert.Equal(t, DefaultPlaceholder, r.Summary.Time)
	assert.Equal(t, DefaultPlaceholder, r.Summary.Location)
	assert.Equal(t, DefaultSummaryMissing, r.Summary.Text)
	assert.NotNil(t, r.Summary.Participants)
	assert.NotNil(t, r.Highlights)
	assert.NotNil(t, r.Transcript)
	assert.NotNil(t, r.KeyMoments)

	in := r.Insights
	assert.Equal(t, "N/A", in.BattleEvaluation.Grade)
	assert.Equal(t, "rose", in.BattleEvaluation.Tone)
	assert.Equal(t, DefaultUnknown, in.CustomerPortrait.Type)
	assert.Equal(t, DefaultUnknown, in.CustomerPortrait.Urgency)
	assert.Equal(t, DefaultPros, in.SalesPerformance.Pros)
	assert.Equal(t, DefaultStyle, in.SalesPerformance.Style)
	assert.Equal(t, DefaultMethod, in.NextSteps.Method)
	assert.Equal(t, DefaultOwner, in.NextSteps.Owner)
	assert.Equal(t, DefaultGoal, in.NextSteps.Goal)
	assert.Equal(t, DefaultCompetitor, in.CompetitorDefense)
	assert.Empty(t, in.CoachingGuidance)
	assert.Equal(t, "Gemini", r.ProviderName)
}

func TestToReportResponse_PartialFields(t *testing.T) {
	res := entities.NewAnalysisResult(entities.ProviderDeepSeek, "telesales", "deepseek-chat")
	res.Duration = 1500 * time.Millisecond
	res.Analysis = &entities.SalesVisitAnalysis{
		Summary:    &entities.VisitSummary{Location: "展厅"},
		Transcript: []entities.TranscriptItem{{Text: "您好"}},
		KeyMoments: []entities.KeyMoment{{Speaker: "客户", Text: "太贵了", Insight: "价格锚点"}},
		Insights: &entities.SalesInsights{
			BattleEvaluation: "a-",
			CustomerIntent:   "Grade: s",
			CoachingGuidance: []entities.CoachingGuidance{{OriginalQuestion: "能便宜吗"}},
			NextSteps:        &entities.NextSteps{Goal: "到店"},
		},
	}

	r := ToReportResponse(res)

	assert.Equal(t, int64(1500), r.DurationMs)
	assert.Equal(t, DefaultUntitled, r.Summary.Title)
	assert.Equal(t, "展厅", r.Summary.Location)
	assert.Equal(t, DefaultSummaryEmpty, r.Summary.Text)

	require.Len(t, r.Transcript, 1)
	assert.Equal(t, DefaultUnknown, r.Transcript[0].Speaker)
	assert.Equal(t, DefaultLineTime, r.Transcript[0].Time)
	assert.Equal(t, "您好", r.Transcript[0].Text)

	require.Len(t, r.KeyMoments, 1)
	assert.Equal(t, "价格锚点", r.KeyMoments[0].Insight)

	assert.Equal(t, "A", r.Insights.BattleEvaluation.Grade)
	assert.Equal(t, "emerald", r.Insights.BattleEvaluation.Tone)
	assert.Equal(t, "S", r.Insights.CustomerIntent.Grade)
	assert.Equal(t, "purple", r.Insights.CustomerIntent.Tone)

	require.Len(t, r.Insights.CoachingGuidance, 1)
	g := r.Insights.CoachingGuidance[0]
	assert.Equal(t, "能便宜吗", g.OriginalQuestion)
	assert.Equal(t, DefaultSubtext, g.Subtext)
	assert.Equal(t, DefaultCoachComment, g.CoachComment)
	assert.Equal(t, DefaultCoachingScript, g.CoachingScript)

	assert.Equal(t, "到店", r.Insights.NextSteps.Goal)
	assert.Equal(t, DefaultMethod, r.Insights.NextSteps.Method)
}

func TestRenderMarkdown(t *testing.T) {
	res := entities.NewAnalysisResult(entities.ProviderDeepSeek, "store_visit", "deepseek-chat")
	res.Repaired = true
	res.Analysis = &entities.SalesVisitAnalysis{
		Summary:    &entities.VisitSummary{Title: "王先生到店", Participants: []string{"销售", "王先生"}},
		Highlights: []string{"主动邀约试驾"},
		Transcript: []entities.TranscriptItem{{Speaker: "客户", Time: "00:12", Text: "太贵了"}},
	}

	md := RenderMarkdown(ToReportResponse(res))

	assert.Contains(t, md, "# 王先生到店")
	assert.Contains(t, md, "销售, 王先生")
	assert.Contains(t, md, "- 主动邀约试驾")
	assert.Contains(t, md, "`00:12` **客户**：太贵了")
	assert.Contains(t, md, DefaultNoGuidance)
	assert.Contains(t, md, DefaultNoCons)
	assert.Contains(t, md, "输出已自动修复")
	assert.Contains(t, md, "DeepSeek")
}

func TestToPreferencesResponse_MasksKey(t *testing.T) {
	p := &entities.Preferences{Provider: entities.ProviderDeepSeek, DeepSeekAPIKey: "sk-1234567890abcd"}
	r := ToPreferencesResponse(p)

	assert.Equal(t, "deepseek", r.Provider)
	assert.True(t, r.HasDeepSeekKey)
	assert.True(t, r.StoredInPlaintext)
	assert.NotContains(t, r.DeepSeekAPIKey, "567890")
	assert.Equal(t, "sk-**********abcd", r.DeepSeekAPIKey)

	empty := ToPreferencesResponse(nil)
	assert.Equal(t, "gemini", empty.Provider)
	assert.False(t, empty.HasDeepSeekKey)
}
