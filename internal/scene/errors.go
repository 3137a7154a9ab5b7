package scene

import (
	"errors"
	"fmt"

	"scenebuilder/internal/types"
)

// ErrGenerationUnavailable covers every way the model can fail to produce
// text: no client, transport error, timeout, empty output. Run recovers from
// it with the fallback document; it never reaches callers.
var ErrGenerationUnavailable = errors.New("scene: generation unavailable")

// ErrEmptyPrompt rejects blank prompts before any work starts.
var ErrEmptyPrompt = errors.New("scene: prompt is required")

// NormalizationError reports raw input that lacks the minimal storyboard shape.
type NormalizationError struct {
	Path string
	Msg  string
}

func (e *NormalizationError) Error() string {
	if e.Path == "" {
		return "scene: cannot normalize: " + e.Msg
	}
	return fmt.Sprintf("scene: cannot normalize: %s: %s", e.Path, e.Msg)
}

// Kind names the pipeline stage that failed.
type Kind string

const (
	KindParse     Kind = "parse"
	KindNormalize Kind = "normalize"
	KindValidate  Kind = "validate"
)

// Error is the single failure category Run surfaces. Use errors.As to reach
// the stage error (*jsonutil.ParseError, *NormalizationError,
// *types.SchemaValidationError).
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Details lists client-facing messages: one per schema violation, otherwise
// the error text.
func (e *Error) Details() []string {
	var verr *types.SchemaValidationError
	if errors.As(e.Err, &verr) {
		return verr.Messages()
	}
	return []string{e.Err.Error()}
}
