// Package llm is the completion service used by the pipeline steps.
package llm

import (
	"context"
	"errors"
)

type Mode int

const (
	ModeText Mode = iota
	ModeJSON
)

func (m Mode) String() string {
	if m == ModeJSON {
		return "json"
	}
	return "text"
}

// ErrNoCredential is returned before any network call when no model is configured.
var ErrNoCredential = errors.New("llm: no API credential configured")

// ErrEmptyCompletion is returned when the model answers with no content.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Completer turns a prompt into text. In ModeJSON the result is a single
// JSON object as text; decoding is left to the caller.
type Completer interface {
	Complete(ctx context.Context, prompt string, mode Mode) (string, error)
}
