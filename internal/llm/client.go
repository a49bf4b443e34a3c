// Package llm defines the chat-completion client the pipeline depends on
// and its OpenAI-compatible implementation.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the model replied with no choices or
// an empty message. Callers treat it like any other AI failure and fall
// back to deterministic generation.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// Client is the minimal completion interface. Implementations must be safe
// for concurrent use.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
