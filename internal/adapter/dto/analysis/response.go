package analysis

import "time"

// ReportResponse is an analysis with every missing field defaulted for display
type ReportResponse struct {
	ID           string       `json:"id"`
	Provider     string       `json:"provider"`
	ProviderName string       `json:"provider_name"`
	Scenario     string       `json:"scenario"`
	Model        string       `json:"model"`
	Repaired     bool         `json:"repaired"`
	DurationMs   int64        `json:"duration_ms"`
	CreatedAt    time.Time    `json:"created_at"`
	Summary      SummaryView  `json:"summary"`
	Highlights   []string     `json:"highlights"`
	Transcript   []LineView   `json:"transcript"`
	KeyMoments   []LineView   `json:"key_moments"`
	Insights     InsightsView `json:"insights"`
}

type SummaryView struct {
	Title        string   `json:"title"`
	Time         string   `json:"time"`
	Location     string   `json:"location"`
	Participants []string `json:"participants"`
	Text         string   `json:"text"`
}

// LineView is a transcript line or key moment
type LineView struct {
	Speaker string `json:"speaker"`
	Time    string `json:"time"`
	Text    string `json:"text"`
	Insight string `json:"insight,omitempty"`
}

type GradeView struct {
	Grade string `json:"grade"`
	Tone  string `json:"tone"`
}

type InsightsView struct {
	BattleEvaluation    GradeView       `json:"battle_evaluation"`
	CustomerIntent      GradeView       `json:"customer_intent"`
	CustomerPortrait    PortraitView    `json:"customer_portrait"`
	SalesPerformance    PerformanceView `json:"sales_performance"`
	PsychologicalChange []string        `json:"psychological_change"`
	CoachingGuidance    []GuidanceView  `json:"coaching_guidance"`
	CompetitorDefense   string          `json:"competitor_defense"`
	NextSteps           NextStepsView   `json:"next_steps"`
}

type PortraitView struct {
	Type     string   `json:"type"`
	Urgency  string   `json:"urgency"`
	Concerns []string `json:"concerns"`
}

type PerformanceView struct {
	Pros  string   `json:"pros"`
	Style string   `json:"style"`
	Cons  []string `json:"cons"`
}

type GuidanceView struct {
	OriginalQuestion string `json:"original_q"`
	Subtext          string `json:"subtext"`
	CoachComment     string `json:"coach_comment"`
	CoachingScript   string `json:"coaching_script"`
}

type NextStepsView struct {
	Method string `json:"method"`
	Owner  string `json:"owner"`
	Goal   string `json:"goal"`
}

// ScenarioResponse describes one catalog entry
type ScenarioResponse struct {
	Key            string `json:"key"`
	Title          string `json:"title"`
	Persona        string `json:"persona,omitempty"`
	TranscriptMode string `json:"transcript_mode"`
	Default        bool   `json:"default"`
}

// PreferencesResponse never carries the full key
type PreferencesResponse struct {
	Provider          string `json:"provider"`
	DeepSeekAPIKey    string `json:"deepseek_api_key_masked,omitempty"`
	HasDeepSeekKey    bool   `json:"has_deepseek_key"`
	StoredInPlaintext bool   `json:"stored_in_plaintext"`
}
