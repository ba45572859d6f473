package presenter

import (
	"strings"

	dto "github.com/canton09/aisales/internal/adapter/dto/analysis"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/usecase/scenario"
)

// Display defaults for fields the model left out
const (
	DefaultTitle           = "分析报告"
	DefaultUntitled        = "销售复盘诊断"
	DefaultPlaceholder     = "-"
	DefaultSummaryMissing  = "未获取到摘要内容"
	DefaultSummaryEmpty    = "暂无详细总结内容"
	DefaultUnknown         = "未知"
	DefaultPros            = "未检测到明显优点"
	DefaultStyle           = "常规"
	DefaultMethod          = "待定"
	DefaultOwner           = "销售本人"
	DefaultGoal            = "进一步跟进"
	DefaultCompetitor      = "本次沟通未涉及核心竞品博弈"
	DefaultLineTime        = "--:--"
	DefaultEllipsis        = "..."
	DefaultSubtext         = "未识别"
	DefaultCoachComment    = "无"
	DefaultCoachingScript  = "暂无示范话术"
	DefaultNoCons          = "未发现明显致命错误"
	DefaultNoGuidance      = "暂无针对性话术建议"
	DefaultNoTranscript    = "暂无对话还原"
	DefaultNoPsychological = "暂无心态演变记录"
)

func or(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ToReportResponse converts an AnalysisResult into a fully defaulted report
func ToReportResponse(r *entities.AnalysisResult) *dto.ReportResponse {
	if r == nil {
		return nil
	}

	a := r.Analysis
	if a == nil {
		a = &entities.SalesVisitAnalysis{}
	}

	return &dto.ReportResponse{
		ID:           r.ID.String(),
		Provider:     string(r.Provider),
		ProviderName: r.Provider.DisplayName(),
		Scenario:     r.Scenario,
		Model:        r.Model,
		Repaired:     r.Repaired,
		DurationMs:   r.Duration.Milliseconds(),
		CreatedAt:    r.CreatedAt,
		Summary:      toSummary(a.Summary),
		Highlights:   nonNil(a.Highlights),
		Transcript:   toTranscript(a.Transcript),
		KeyMoments:   toKeyMoments(a.KeyMoments),
		Insights:     toInsights(a.Insights),
	}
}

func toSummary(s *entities.VisitSummary) dto.SummaryView {
	if s == nil {
		return dto.SummaryView{
			Title:        DefaultTitle,
			Time:         DefaultPlaceholder,
			Location:     DefaultPlaceholder,
			Participants: []string{},
			Text:         DefaultSummaryMissing,
		}
	}
	return dto.SummaryView{
		Title:        or(s.Title, DefaultUntitled),
		Time:         or(s.Time, DefaultPlaceholder),
		Location:     or(s.Location, DefaultPlaceholder),
		Participants: nonNil(s.Participants),
		Text:         or(s.Text, DefaultSummaryEmpty),
	}
}

func toTranscript(items []entities.TranscriptItem) []dto.LineView {
	out := make([]dto.LineView, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LineView{
			Speaker: or(it.Speaker, DefaultUnknown),
			Time:    or(it.Time, DefaultLineTime),
			Text:    or(it.Text, DefaultEllipsis),
		})
	}
	return out
}

func toKeyMoments(items []entities.KeyMoment) []dto.LineView {
	out := make([]dto.LineView, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LineView{
			Speaker: or(it.Speaker, DefaultUnknown),
			Time:    or(it.Time, DefaultLineTime),
			Text:    or(it.Text, DefaultEllipsis),
			Insight: it.Insight,
		})
	}
	return out
}

func toGrade(raw string) dto.GradeView {
	g := entities.NormalizeGrade(raw)
	return dto.GradeView{Grade: string(g), Tone: g.Tone()}
}

func toInsights(in *entities.SalesInsights) dto.InsightsView {
	if in == nil {
		in = &entities.SalesInsights{}
	}

	view := dto.InsightsView{
		BattleEvaluation:    toGrade(in.BattleEvaluation),
		CustomerIntent:      toGrade(in.CustomerIntent),
		PsychologicalChange: nonNil(in.PsychologicalChange),
		CompetitorDefense:   or(in.CompetitorDefense, DefaultCompetitor),
		CoachingGuidance:    make([]dto.GuidanceView, 0, len(in.CoachingGuidance)),
	}

	if p := in.CustomerPortrait; p != nil {
		view.CustomerPortrait = dto.PortraitView{
			Type:     or(p.Type, DefaultUnknown),
			Urgency:  or(p.Urgency, DefaultUnknown),
			Concerns: nonNil(p.Concerns),
		}
	} else {
		view.CustomerPortrait = dto.PortraitView{Type: DefaultUnknown, Urgency: DefaultUnknown, Concerns: []string{}}
	}

	if p := in.SalesPerformance; p != nil {
		view.SalesPerformance = dto.PerformanceView{
			Pros:  or(p.Pros, DefaultPros),
			Style: or(p.Style, DefaultStyle),
			Cons:  nonNil(p.Cons),
		}
	} else {
		view.SalesPerformance = dto.PerformanceView{Pros: DefaultPros, Style: DefaultStyle, Cons: []string{}}
	}

	for _, g := range in.CoachingGuidance {
		view.CoachingGuidance = append(view.CoachingGuidance, dto.GuidanceView{
			OriginalQuestion: or(g.OriginalQuestion, DefaultEllipsis),
			Subtext:          or(g.Subtext, DefaultSubtext),
			CoachComment:     or(g.CoachComment, DefaultCoachComment),
			CoachingScript:   or(g.CoachingScript, DefaultCoachingScript),
		})
	}

	if n := in.NextSteps; n != nil {
		view.NextSteps = dto.NextStepsView{
			Method: or(n.Method, DefaultMethod),
			Owner:  or(n.Owner, DefaultOwner),
			Goal:   or(n.Goal, DefaultGoal),
		}
	} else {
		view.NextSteps = dto.NextStepsView{Method: DefaultMethod, Owner: DefaultOwner, Goal: DefaultGoal}
	}

	return view
}

// ToScenarioResponses lists the catalog for the API and CLI
func ToScenarioResponses(list []*scenario.Scenario, defaultKey string) []dto.ScenarioResponse {
	out := make([]dto.ScenarioResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ScenarioResponse{
			Key:            s.Key,
			Title:          s.Title,
			Persona:        s.Persona,
			TranscriptMode: string(s.TranscriptMode),
			Default:        s.Key == defaultKey,
		})
	}
	return out
}

// ToPreferencesResponse masks the stored key
func ToPreferencesResponse(p *entities.Preferences) *dto.PreferencesResponse {
	if p == nil {
		p = entities.NewPreferences()
	}
	return &dto.PreferencesResponse{
		Provider:          string(p.Provider),
		DeepSeekAPIKey:    p.MaskedKey(),
		HasDeepSeekKey:    p.DeepSeekAPIKey != "",
		StoredInPlaintext: true,
	}
}
