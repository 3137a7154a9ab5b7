package scene

import (
	"context"
	"fmt"
	"strings"

	"scenebuilder/internal/llm"
	"scenebuilder/internal/types"
)

// Generator asks the model for a raw storyboard. A nil client means the
// model is not configured.
type Generator struct {
	LLM llm.LLMClient
}

// Generate returns the raw model text, or an error wrapping
// ErrGenerationUnavailable for every failure mode.
func (g *Generator) Generate(ctx context.Context, prompt string, c types.Constraints) (string, error) {
	if g == nil || g.LLM == nil {
		return "", fmt.Errorf("%w: no model configured", ErrGenerationUnavailable)
	}
	ctx = llm.WithDeterministic(ctx, c.Deterministic)
	raw, err := g.LLM.GenerateJSON(ctx, BuildPrompt(prompt, c), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrGenerationUnavailable, g.LLM.Name(), err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("%w: %s returned empty text", ErrGenerationUnavailable, g.LLM.Name())
	}
	return text, nil
}
