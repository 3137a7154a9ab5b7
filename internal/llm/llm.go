package llm

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrEmptyResponse = errors.New("llm: empty response from model")

// LLMClient is the generation surface the scene pipeline depends on.
// GenerateJSON returns the model text as-is; it is expected to hold a JSON
// object but may still be wrapped in fences or prose (see CleanJSON).
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// PermanentError marks a failure that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

type ctxKeyDeterministic struct{}

// WithDeterministic asks the client to use its most repeatable sampling.
func WithDeterministic(ctx context.Context, on bool) context.Context {
	return context.WithValue(ctx, ctxKeyDeterministic{}, on)
}

// DeterministicFrom reports whether WithDeterministic(ctx, true) was applied.
func DeterministicFrom(ctx context.Context) bool {
	on, _ := ctx.Value(ctxKeyDeterministic{}).(bool)
	return on
}
