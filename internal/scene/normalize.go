package scene

import (
	"fmt"
	"maps"
	"strings"

	"scenebuilder/internal/types"
)

// DefaultSceneDurationSec applies to scenes without durationSec.
const DefaultSceneDurationSec = 3.0

// Normalized is the canonical-shape intermediate produced by Normalize.
// Document holds only "scenes" and "meta" and is ready for types.Validate.
type Normalized struct {
	Document  map[string]any
	ProcessID string
	// Plan carries the model's own plan block (summary/notes, prompt).
	Plan types.PlanSummary
}

// Normalize reshapes a parsed raw storyboard into the canonical document
// shape. It fills defaults, wraps singular effect/transition mappings into
// lists and flattens each scene's assets into the actions of a single video
// row. Values it does not own (meta, unknown action types) pass through for
// the schema to judge.
func Normalize(raw any) (*Normalized, error) {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, &NormalizationError{Msg: fmt.Sprintf("document must be an object, got %s", kindOf(raw))}
	}
	rawScenes, has := root["scenes"]
	if !has || rawScenes == nil {
		return nil, &NormalizationError{Path: "scenes", Msg: "missing scenes array"}
	}
	list, ok := rawScenes.([]any)
	if !ok {
		return nil, &NormalizationError{Path: "scenes", Msg: fmt.Sprintf("must be a list, got %s", kindOf(rawScenes))}
	}

	scenes := make([]any, 0, len(list))
	for i, sc := range list {
		s, err := normalizeScene(i+1, sc)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, s)
	}

	out := &Normalized{
		Document: map[string]any{
			"scenes": scenes,
			"meta":   root["meta"],
		},
		Plan: planBlock(root["plan"], len(scenes)),
	}
	out.ProcessID, _ = root["processId"].(string)
	return out, nil
}

func normalizeScene(idx int, v any) (map[string]any, error) {
	path := fmt.Sprintf("scenes[%d]", idx-1)
	sc, ok := v.(map[string]any)
	if !ok {
		return nil, &NormalizationError{Path: path, Msg: fmt.Sprintf("scene must be an object, got %s", kindOf(v))}
	}

	effects, err := recordList(path+".effects", sc["effects"])
	if err != nil {
		return nil, err
	}
	transitions, err := recordList(path+".transitions", sc["transitions"])
	if err != nil {
		return nil, err
	}
	for _, t := range transitions {
		if isFalsy(t["name"]) {
			if isFalsy(t["type"]) {
				t["name"] = "unknown"
			} else {
				t["name"] = t["type"]
			}
		}
	}

	duration := DefaultSceneDurationSec
	if d, has := sc["durationSec"]; has && d != nil {
		f, ok := types.ToFloat(d)
		if !ok {
			return nil, &NormalizationError{Path: path + ".durationSec", Msg: fmt.Sprintf("must be a number, got %s", kindOf(d))}
		}
		duration = f
	}

	assets, err := assetList(path+".assets", sc["assets"])
	if err != nil {
		return nil, err
	}
	actions := make([]any, 0, len(assets))
	for aidx, asset := range assets {
		a, err := normalizeAction(idx, aidx+1, fmt.Sprintf("%s.assets[%d]", path, aidx), asset, duration, effects)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}

	row := map[string]any{
		"id":          fmt.Sprintf("row-%d-1", idx),
		"kind":        types.KindVideo,
		"actions":     actions,
		"transitions": toAnySlice(transitions),
	}
	return map[string]any{
		"id":          withDefault(sc["id"], fmt.Sprintf("scene_%d", idx)),
		"title":       withDefault(sc["title"], fmt.Sprintf("Scene %d", idx)),
		"description": withDefault(sc["description"], ""),
		"rows":        []any{row},
		"durationSec": duration,
	}, nil
}

// normalizeAction turns one asset into an action. Asset-level values win;
// the scene duration and scene effects are fallbacks only.
func normalizeAction(idx, aidx int, path string, v any, sceneDuration float64, sceneEffects []map[string]any) (map[string]any, error) {
	asset, ok := v.(map[string]any)
	if !ok {
		return nil, &NormalizationError{Path: path, Msg: fmt.Sprintf("asset must be an object, got %s", kindOf(v))}
	}

	var effects []map[string]any
	if raw, has := asset["effects"]; has {
		list, err := recordList(path+".effects", raw)
		if err != nil {
			return nil, err
		}
		effects = list
	} else {
		effects = cloneRecords(sceneEffects)
	}

	start, err := number(path+".startSec", asset["startSec"], 0)
	if err != nil {
		return nil, err
	}
	duration, err := number(path+".durationSec", asset["durationSec"], sceneDuration)
	if err != nil {
		return nil, err
	}

	props, has := asset["props"]
	if !has || props == nil {
		synth := maps.Clone(asset)
		synth["src"] = withDefault(asset["src"], "")
		props = synth
	}

	return map[string]any{
		"id":          withDefault(asset["id"], fmt.Sprintf("action-%d-%d", idx, aidx)),
		"type":        actionType(asset["type"]),
		"startSec":    start,
		"durationSec": duration,
		"props":       props,
		"effects":     toAnySlice(effects),
	}, nil
}

// actionType lower-cases string types and maps "music" to "audio". Other
// values pass through unchanged.
func actionType(v any) any {
	if v == nil {
		return types.KindVideo
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.ToLower(s)
	if s == "music" {
		return types.KindAudio
	}
	return s
}

func planBlock(v any, scenesCount int) types.PlanSummary {
	plan, _ := v.(map[string]any)
	str := func(keys ...string) string {
		for _, k := range keys {
			if s, ok := plan[k].(string); ok {
				return s
			}
		}
		return ""
	}
	return types.PlanSummary{
		ScenesCount: scenesCount,
		Notes:       str("summary", "notes"),
		Prompt:      str("prompt"),
	}
}

// Value helpers -------------------------------------------------------------------

// recordList accepts a list of mappings or a single mapping; null/absent
// is empty. Every record is copied so the input is never mutated.
func recordList(path string, v any) ([]map[string]any, error) {
	switch x := v.(type) {
	case nil:
		return []map[string]any{}, nil
	case map[string]any:
		return []map[string]any{maps.Clone(x)}, nil
	case []any:
		out := make([]map[string]any, 0, len(x))
		for i, item := range x {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, &NormalizationError{Path: fmt.Sprintf("%s[%d]", path, i), Msg: fmt.Sprintf("must be an object, got %s", kindOf(item))}
			}
			out = append(out, maps.Clone(m))
		}
		return out, nil
	default:
		return nil, &NormalizationError{Path: path, Msg: fmt.Sprintf("must be a list or an object, got %s", kindOf(v))}
	}
}

// assetList accepts a list or a single mapping; null/absent is empty.
func assetList(path string, v any) ([]any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return x, nil
	case map[string]any:
		return []any{x}, nil
	default:
		return nil, &NormalizationError{Path: path, Msg: fmt.Sprintf("must be a list, got %s", kindOf(v))}
	}
}

func number(path string, v any, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	f, ok := types.ToFloat(v)
	if !ok {
		return 0, &NormalizationError{Path: path, Msg: fmt.Sprintf("must be a number, got %s", kindOf(v))}
	}
	return f, nil
}

func cloneRecords(in []map[string]any) []map[string]any {
	out := make([]map[string]any, len(in))
	for i, m := range in {
		out[i] = maps.Clone(m)
	}
	return out
}

func toAnySlice(in []map[string]any) []any {
	out := make([]any, len(in))
	for i, m := range in {
		out[i] = m
	}
	return out
}

func withDefault(v any, def any) any {
	if v == nil {
		return def
	}
	return v
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
