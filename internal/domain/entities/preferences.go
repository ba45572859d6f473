package entities

import "strings"

// Preferences is the only state that survives between sessions: the preferred
// engine and the user's DeepSeek key. The key is stored as plaintext.
type Preferences struct {
	Provider       Provider `json:"provider" yaml:"provider"`
	DeepSeekAPIKey string   `json:"deepseek_api_key" yaml:"deepseek_api_key"`
}

// NewPreferences returns preferences with the default provider
func NewPreferences() *Preferences {
	return &Preferences{Provider: DefaultProvider}
}

// Normalize trims the key and falls back to the default provider
func (p *Preferences) Normalize() {
	p.DeepSeekAPIKey = strings.TrimSpace(p.DeepSeekAPIKey)
	if !p.Provider.Valid() {
		p.Provider = DefaultProvider
	}
}

// MaskedKey returns the key with everything but the prefix and last four characters hidden
func (p *Preferences) MaskedKey() string {
	key := p.DeepSeekAPIKey
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", len(key)-7) + key[len(key)-4:]
}
