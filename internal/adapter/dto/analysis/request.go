package analysis

// AnalyzeRequest is the body of POST /v1/analyses
type AnalyzeRequest struct {
	Transcript string `json:"transcript" validate:"required"`
	Scenario   string `json:"scenario,omitempty"`
	Provider   string `json:"provider,omitempty" validate:"omitempty,provider"`
	APIKey     string `json:"api_key,omitempty"`
}

// UpdatePreferencesRequest is the body of PUT /v1/preferences.
// A nil key leaves the stored key untouched; an empty string clears it.
type UpdatePreferencesRequest struct {
	Provider       string  `json:"provider,omitempty" validate:"omitempty,provider"`
	DeepSeekAPIKey *string `json:"deepseek_api_key,omitempty"`
}
