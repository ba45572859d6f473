package scenario

import (
	"bytes"
	"fmt"
	"strings"
)

// Prompt is a rendered system instruction and user message
type Prompt struct {
	System     string
	User       string
	KeyMoments bool
}

type structureData struct {
	KeyMoments bool
}

type systemData struct {
	Persona   string
	Structure string
}

type userData struct {
	Transcript string
}

// Render builds the prompt for s with the transcript interpolated
func (c *Catalog) Render(s *Scenario, transcript string) (Prompt, error) {
	c.mu.RLock()
	structure := c.structure
	c.mu.RUnlock()

	var buf bytes.Buffer
	if err := structure.Execute(&buf, structureData{KeyMoments: s.KeyMoments()}); err != nil {
		return Prompt{}, fmt.Errorf("render structure: %w", err)
	}
	structureText := strings.TrimSpace(buf.String())

	buf.Reset()
	if err := s.system.Execute(&buf, systemData{Persona: s.Persona, Structure: structureText}); err != nil {
		return Prompt{}, fmt.Errorf("render %s system instruction: %w", s.Key, err)
	}
	system := strings.TrimSpace(buf.String())

	buf.Reset()
	if err := s.user.Execute(&buf, userData{Transcript: strings.TrimSpace(transcript)}); err != nil {
		return Prompt{}, fmt.Errorf("render %s user prompt: %w", s.Key, err)
	}

	return Prompt{
		System:     system,
		User:       strings.TrimSpace(buf.String()),
		KeyMoments: s.KeyMoments(),
	}, nil
}
