package entities

import "errors"

// Domain errors
var (
	ErrUnknownProvider = errors.New("unknown model provider")
	ErrUnknownScenario = errors.New("unknown analysis scenario")
)
