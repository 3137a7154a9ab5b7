package scene

import (
	"fmt"

	"scenebuilder/internal/types"
)

// Summarize derives the plan record returned alongside a scene document.
func Summarize(doc *types.SceneDocument, prompt string) types.PlanSummary {
	n := 0
	if doc != nil {
		n = len(doc.Scenes)
	}
	return types.PlanSummary{
		ScenesCount: n,
		Notes:       fmt.Sprintf("Generated %d scene(s) from prompt", n),
		Prompt:      prompt,
	}
}
