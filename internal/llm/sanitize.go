package llm

import (
	"encoding/base64"
	"regexp"
	"strings"
)

const fence = "```"

// CleanJSON isolates the JSON object in raw model text: it drops Markdown
// fences (with or without a "json" tag) and any prose around the outermost
// {...} span. Text without braces comes back trimmed. CleanJSON is idempotent.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	if strings.HasPrefix(text, fence) {
		text = strings.Trim(text, "`")
		if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
			text = text[4:]
		}
		for strings.Contains(text, fence) {
			text = strings.ReplaceAll(text, fence, "")
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && start < end {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

var (
	reDataURL = regexp.MustCompile(`(?is)\bdata:(image|video|audio)/[a-z0-9+.-]+;base64,[a-z0-9+/=\r\n]+`)
	reImgTag  = regexp.MustCompile(`(?is)<img[^>]*src=["']data:(image)/[^"']+["'][^>]*>`)
)

// RedactMedia walks any JSON-like value and replaces inline media payloads
// with a marker so model output can be logged.
func RedactMedia(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = RedactMedia(vv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = RedactMedia(vv)
		}
		return out
	case string:
		if reDataURL.MatchString(x) || reImgTag.MatchString(x) || looksLikeBase64(x) {
			return "[REDACTED media]"
		}
		return x
	default:
		return v
	}
}

// RedactText applies the same redaction to free text, keeping everything
// but the media payloads.
func RedactText(s string) string {
	s = reImgTag.ReplaceAllString(s, "[REDACTED media]")
	return reDataURL.ReplaceAllString(s, "[REDACTED media]")
}

func looksLikeBase64(s string) bool {
	if len(s) < 512 {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
