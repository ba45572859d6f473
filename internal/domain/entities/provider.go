package entities

import "strings"

// Provider identifies the hosted LLM used for an analysis
type Provider string

const (
	ProviderDeepSeek Provider = "deepseek"
	ProviderGemini   Provider = "gemini"
)

// DefaultProvider is used when no preference has been stored yet
const DefaultProvider = ProviderGemini

// ParseProvider normalises user input into a Provider
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderDeepSeek:
		return ProviderDeepSeek, nil
	case ProviderGemini:
		return ProviderGemini, nil
	}
	return "", ErrUnknownProvider
}

// Valid reports whether p is a supported provider
func (p Provider) Valid() bool {
	return p == ProviderDeepSeek || p == ProviderGemini
}

// DisplayName is the engine label shown in the UI
func (p Provider) DisplayName() string {
	switch p {
	case ProviderDeepSeek:
		return "DeepSeek"
	case ProviderGemini:
		return "Gemini"
	}
	return string(p)
}

// RequiresUserKey reports whether the user must supply their own key
func (p Provider) RequiresUserKey() bool {
	return p == ProviderDeepSeek
}

// Grade is a single-letter rating returned by the model
type Grade string

const (
	GradeS       Grade = "S"
	GradeA       Grade = "A"
	GradeB       Grade = "B"
	GradeC       Grade = "C"
	GradeD       Grade = "D"
	GradeUnknown Grade = "N/A"
)

// NormalizeGrade extracts the first recognised letter from a free-form rating
// such as "A-", "b", "S级" or "Grade: C".
func NormalizeGrade(raw string) Grade {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if strings.HasPrefix(upper, "GRADE") {
		upper = strings.TrimLeft(strings.TrimPrefix(upper, "GRADE"), ": ")
	}
	for _, r := range upper {
		if r < 'A' || r > 'Z' {
			continue
		}
		switch g := Grade(r); g {
		case GradeS, GradeA, GradeB, GradeC, GradeD:
			return g
		}
		break
	}
	return GradeUnknown
}

// Tone maps a grade onto the badge colour family used by the report
func (g Grade) Tone() string {
	switch g {
	case GradeS:
		return "purple"
	case GradeA:
		return "emerald"
	case GradeB:
		return "blue"
	case GradeC:
		return "amber"
	}
	return "rose"
}
