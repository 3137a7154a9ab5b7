package scene

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"scenebuilder/internal/types"
)

// DefaultFallbackDurationSec is used when the caller sets no total duration.
const DefaultFallbackDurationSec = 10

// Fallback synthesizes a minimal single-scene raw document. Only the
// processId varies between calls with identical inputs.
func Fallback(prompt string, c types.Constraints) string {
	duration := DefaultFallbackDurationSec
	if c.TotalDurationSec != nil && *c.TotalDurationSec > 0 {
		duration = *c.TotalDurationSec
	}
	aspect := c.AspectRatio
	if aspect == "" {
		aspect = types.DefaultAspectRatio
	}
	fps := c.FPS
	if fps <= 0 {
		fps = types.DefaultFPS
	}
	width, height := frameSize(aspect)

	doc := map[string]any{
		"processId": NewProcessID(),
		"plan": map[string]any{
			"title":   "Fallback Plan",
			"summary": "Fallback plan used while the model is unavailable.",
			"themes":  []string{"fallback"},
		},
		"scenes": []any{
			map[string]any{
				"id":          "scene_1",
				"title":       "Intro",
				"description": prompt,
				"assets": []any{
					map[string]any{
						"type":    "video",
						"src":     "placeholder_intro.mp4",
						"width":   width,
						"height":  height,
						"license": placeholderLicense(),
					},
					map[string]any{
						"type":    "text",
						"src":     prompt,
						"license": placeholderLicense(),
					},
				},
				"effects":     []any{map[string]any{"type": "transition", "name": "fadeIn"}},
				"durationSec": duration,
			},
		},
		"meta": map[string]any{
			"totalDurationSec": duration,
			"aspectRatio":      aspect,
			"fps":              fps,
			"language":         types.DefaultLanguage,
		},
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

// NewProcessID returns an informational "proc-xxxxxxxx" id.
func NewProcessID() string {
	return "proc-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func placeholderLicense() map[string]any {
	return map[string]any{"source": "placeholder", "author": "", "url": "", "license": "free"}
}

// frameSize maps common aspect ratios onto a 1080-line frame.
func frameSize(aspect string) (int, int) {
	switch strings.TrimSpace(aspect) {
	case "9:16":
		return 1080, 1920
	case "1:1":
		return 1080, 1080
	case "4:3":
		return 1440, 1080
	default:
		return 1920, 1080
	}
}
