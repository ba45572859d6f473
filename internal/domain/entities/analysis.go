package entities

import (
	"time"

	"github.com/google/uuid"
)

// SalesVisitAnalysis is the structured critique returned by the LLM.
//
// JSON shape:
//
//	{
//	  "summary": {"title", "time", "location", "participants": [], "text"},
//	  "highlights": ["string"],
//	  "transcript": [{"speaker", "time", "text"}],
//	  "key_moments": [{"speaker", "time", "text", "insight"}],
//	  "insights": {
//	    "battle_evaluation": "S|A|B|C|D",
//	    "customer_intent": "S|A|B|C|D",
//	    "customer_portrait": {"type", "urgency", "concerns": []},
//	    "sales_performance": {"pros", "style", "cons": []},
//	    "psychological_change": ["string"],
//	    "coaching_guidance": [{"original_q", "subtext", "coach_comment", "coaching_script"}],
//	    "competitor_defense": "string",
//	    "next_steps": {"method", "owner", "goal"}
//	  }
//	}
//
// Every field is optional. Consumers must default missing values.
type SalesVisitAnalysis struct {
	Summary    *VisitSummary    `json:"summary,omitempty"`
	Highlights []string         `json:"highlights,omitempty"`
	Transcript []TranscriptItem `json:"transcript,omitempty"`
	KeyMoments []KeyMoment      `json:"key_moments,omitempty"`
	Insights   *SalesInsights   `json:"insights,omitempty"`
}

// VisitSummary describes when, where and with whom the conversation happened
type VisitSummary struct {
	Title        string   `json:"title"`
	Time         string   `json:"time"`
	Location     string   `json:"location"`
	Participants []string `json:"participants"`
	Text         string   `json:"text"`
}

// TranscriptItem is one reconstructed line of the conversation
type TranscriptItem struct {
	Speaker string `json:"speaker"`
	Time    string `json:"time"`
	Text    string `json:"text"`
}

// KeyMoment is a condensed transcript line with the coach's reading of it
type KeyMoment struct {
	Speaker string `json:"speaker"`
	Time    string `json:"time"`
	Text    string `json:"text"`
	Insight string `json:"insight"`
}

// SalesInsights groups ratings and coaching output
type SalesInsights struct {
	BattleEvaluation    string             `json:"battle_evaluation"`
	CustomerIntent      string             `json:"customer_intent"`
	CustomerPortrait    *CustomerPortrait  `json:"customer_portrait,omitempty"`
	SalesPerformance    *SalesPerformance  `json:"sales_performance,omitempty"`
	PsychologicalChange []string           `json:"psychological_change,omitempty"`
	CoachingGuidance    []CoachingGuidance `json:"coaching_guidance,omitempty"`
	CompetitorDefense   string             `json:"competitor_defense"`
	NextSteps           *NextSteps         `json:"next_steps,omitempty"`
}

// CustomerPortrait describes the customer type and their concerns
type CustomerPortrait struct {
	Type     string   `json:"type"`
	Urgency  string   `json:"urgency"`
	Concerns []string `json:"concerns"`
}

// SalesPerformance summarises what the salesperson did well and badly
type SalesPerformance struct {
	Pros  string   `json:"pros"`
	Style string   `json:"style"`
	Cons  []string `json:"cons"`
}

// CoachingGuidance rewrites one weak moment of the conversation
type CoachingGuidance struct {
	OriginalQuestion string `json:"original_q"`
	Subtext          string `json:"subtext"`
	CoachComment     string `json:"coach_comment"`
	CoachingScript   string `json:"coaching_script"`
}

// NextSteps is the follow-up plan
type NextSteps struct {
	Method string `json:"method"`
	Owner  string `json:"owner"`
	Goal   string `json:"goal"`
}

// AnalysisResult wraps one analysis run. It is never persisted.
type AnalysisResult struct {
	ID        uuid.UUID           `json:"id"`
	Provider  Provider            `json:"provider"`
	Scenario  string              `json:"scenario"`
	Model     string              `json:"model"`
	Analysis  *SalesVisitAnalysis `json:"analysis"`
	Repaired  bool                `json:"repaired"`
	Duration  time.Duration       `json:"duration"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewAnalysisResult creates a new AnalysisResult entity
func NewAnalysisResult(provider Provider, scenario, model string) *AnalysisResult {
	return &AnalysisResult{
		ID:        uuid.New(),
		Provider:  provider,
		Scenario:  scenario,
		Model:     model,
		CreatedAt: time.Now(),
	}
}
