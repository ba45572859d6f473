// Package ai holds the LLM provider clients used by the analysis service.
package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyContent is returned when a provider answers successfully but with no text
var ErrEmptyContent = errors.New("model returned empty content")

// Prompt is a single analysis request sent to a provider
type Prompt struct {
	System string
	User   string
	// KeyMoments selects the condensed key_moments schema instead of the full transcript
	KeyMoments bool
	// APIKey overrides the client's configured key when set
	APIKey string
}

// Completion is the raw text returned by a provider
type Completion struct {
	Text  string
	Model string
}

// StatusError is a non-2xx answer from a provider or from the proxy in front of it
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, msg)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}
