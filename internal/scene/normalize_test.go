package scene

import (
	"encoding/json"
	"testing"

	"scenebuilder/internal/tester"
	"scenebuilder/internal/types"
)

func parse(t *testing.T, s string) any {
	t.Helper()
	var v any
	tester.NoErr(t, json.Unmarshal([]byte(s), &v))
	return v
}

func firstScene(t *testing.T, n *Normalized) map[string]any {
	t.Helper()
	scenes := n.Document["scenes"].([]any)
	tester.True(t, len(scenes) > 0, "expected at least one scene")
	return scenes[0].(map[string]any)
}

func firstRow(t *testing.T, n *Normalized) map[string]any {
	t.Helper()
	return firstScene(t, n)["rows"].([]any)[0].(map[string]any)
}

func actionsOf(t *testing.T, n *Normalized) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, a := range firstRow(t, n)["actions"].([]any) {
		out = append(out, a.(map[string]any))
	}
	return out
}

func TestNormalize_SceneDefaults(t *testing.T) {
	n, err := Normalize(parse(t, `{"scenes": [{}, {"id": "custom", "title": "Given", "description": "d", "durationSec": 4.5}]}`))
	tester.NoErr(t, err)
	scenes := n.Document["scenes"].([]any)
	tester.Eq(t, len(scenes), 2)

	s1 := scenes[0].(map[string]any)
	tester.Eq(t, s1["id"], any("scene_1"))
	tester.Eq(t, s1["title"], any("Scene 1"))
	tester.Eq(t, s1["description"], any(""))
	tester.Eq(t, s1["durationSec"], any(DefaultSceneDurationSec))

	s2 := scenes[1].(map[string]any)
	tester.Eq(t, s2["id"], any("custom"))
	tester.Eq(t, s2["title"], any("Given"))
	tester.Eq(t, s2["durationSec"], any(4.5))

	row := s2["rows"].([]any)[0].(map[string]any)
	tester.Eq(t, row["id"], any("row-2-1"))
	tester.Eq(t, row["kind"], any("video"))
	tester.Eq(t, row["actions"], any([]any{}))
	tester.Eq(t, row["transitions"], any([]any{}))
}

func TestNormalize_ActionDefaults(t *testing.T) {
	n, err := Normalize(parse(t, `{"scenes": [{"durationSec": 6, "assets": [
		{"type": "Video", "src": "a.mp4", "description": "wide shot"},
		{"id": "given", "type": "text", "startSec": 1.5, "durationSec": 2, "props": {"src": "hi", "font": "mono"}}
	]}]}`))
	tester.NoErr(t, err)
	acts := actionsOf(t, n)
	tester.Eq(t, len(acts), 2)

	tester.Eq(t, acts[0]["id"], any("action-1-1"))
	tester.Eq(t, acts[0]["type"], any("video"))
	tester.Eq(t, acts[0]["startSec"], any(0.0))
	tester.Eq(t, acts[0]["durationSec"], any(6.0))
	tester.Eq(t, acts[0]["props"], any(map[string]any{"type": "Video", "src": "a.mp4", "description": "wide shot"}))
	tester.Eq(t, acts[0]["effects"], any([]any{}))

	tester.Eq(t, acts[1]["id"], any("given"))
	tester.Eq(t, acts[1]["startSec"], any(1.5))
	tester.Eq(t, acts[1]["durationSec"], any(2.0))
	tester.Eq(t, acts[1]["props"], any(map[string]any{"src": "hi", "font": "mono"}))
}

func TestNormalize_SynthesizedPropsGetSrc(t *testing.T) {
	n, err := Normalize(parse(t, `{"scenes": [{"assets": [{"type": "image", "width": 640}]}]}`))
	tester.NoErr(t, err)
	props := actionsOf(t, n)[0]["props"].(map[string]any)
	tester.Eq(t, props["src"], any(""))
	tester.Eq(t, props["width"], any(640.0))
}

func TestNormalize_MusicBecomesAudio(t *testing.T) {
	n, err := Normalize(parse(t, `{"scenes": [{"assets": [{"type": "music", "src": "x.mp3"}, {"type": "MUSIC"}, {"type": "hologram"}, {"src": "untyped"}]}]}`))
	tester.NoErr(t, err)
	acts := actionsOf(t, n)
	tester.Eq(t, acts[0]["type"], any("audio"))
	tester.Eq(t, acts[1]["type"], any("audio"))
	tester.Eq(t, acts[2]["type"], any("hologram"), "unknown types pass through for the schema")
	tester.Eq(t, acts[3]["type"], any("video"))
}

func TestNormalize_TransitionNames(t *testing.T) {
	n, err := Normalize(parse(t, `{"scenes": [{"transitions": [{"type": "fade"}, {}, {"type": "wipe", "name": "left_wipe"}, {"type": "cut", "name": ""}]}]}`))
	tester.NoErr(t, err)
	tr := firstRow(t, n)["transitions"].([]any)
	tester.Eq(t, tr[0], any(map[string]any{"type": "fade", "name": "fade"}))
	tester.Eq(t, tr[1], any(map[string]any{"name": "unknown"}))
	tester.Eq(t, tr[2].(map[string]any)["name"], any("left_wipe"))
	tester.Eq(t, tr[3].(map[string]any)["name"], any("cut"))
}

func TestNormalize_SingularMappingsWrapped(t *testing.T) {
	n, err := Normalize(parse(t, `{"scenes": [{
		"effects": {"type": "camera", "name": "zoom"},
		"transitions": {"type": "fade"},
		"assets": [{"type": "video", "src": "a.mp4"}, {"type": "text", "src": "t", "effects": {"name": "glow"}}, {"type": "audio", "effects": null}]
	}]}`))
	tester.NoErr(t, err)

	tester.Eq(t, firstRow(t, n)["transitions"], any([]any{map[string]any{"type": "fade", "name": "fade"}}))
	acts := actionsOf(t, n)
	tester.Eq(t, acts[0]["effects"], any([]any{map[string]any{"type": "camera", "name": "zoom"}}), "scene effects reach actions without their own")
	tester.Eq(t, acts[1]["effects"], any([]any{map[string]any{"name": "glow"}}), "asset effects win over scene effects")
	tester.Eq(t, acts[2]["effects"], any([]any{}), "explicit null means no effects")
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := parse(t, `{"scenes": [{"transitions": [{"type": "fade"}], "assets": [{"type": "music"}]}]}`)
	_, err := Normalize(raw)
	tester.NoErr(t, err)
	sc := raw.(map[string]any)["scenes"].([]any)[0].(map[string]any)
	_, named := sc["transitions"].([]any)[0].(map[string]any)["name"]
	tester.False(t, named, "input transition must not gain a name")
	tester.Eq(t, sc["assets"].([]any)[0].(map[string]any)["type"], any("music"))
}

func TestNormalize_PlanAndMeta(t *testing.T) {
	n, err := Normalize(parse(t, `{"processId": "proc-1", "plan": {"summary": "S", "notes": "N", "prompt": "P"}, "scenes": [{}], "meta": {"fps": 24, "tone": "calm"}}`))
	tester.NoErr(t, err)
	tester.Eq(t, n.ProcessID, "proc-1")
	tester.Eq(t, n.Plan, types.PlanSummary{ScenesCount: 1, Notes: "S", Prompt: "P"})
	tester.Eq(t, n.Document["meta"], any(map[string]any{"fps": 24.0, "tone": "calm"}), "meta passes through untouched")

	n, err = Normalize(parse(t, `{"plan": {"notes": "only notes"}, "scenes": []}`))
	tester.NoErr(t, err)
	tester.Eq(t, n.Plan.Notes, "only notes")
	tester.Eq(t, n.Plan.Prompt, "")
	tester.Eq(t, n.Document["meta"], any(nil))
}

func TestNormalize_EmptyScenes(t *testing.T) {
	n, err := Normalize(parse(t, `{"scenes": []}`))
	tester.NoErr(t, err)
	tester.Eq(t, n.Document["scenes"], any([]any{}))

	doc, err := types.Validate(map[string]any{"scenes": n.Document["scenes"], "meta": map[string]any{"totalDurationSec": 0.0}})
	tester.NoErr(t, err)
	tester.Eq(t, len(doc.Scenes), 0)
}

func TestNormalize_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"not an object", `[1]`, "scene: cannot normalize: document must be an object, got list"},
		{"missing scenes", `{}`, "scene: cannot normalize: scenes: missing scenes array"},
		{"null scenes", `{"scenes": null}`, "scene: cannot normalize: scenes: missing scenes array"},
		{"scenes not a list", `{"scenes": "three"}`, "scene: cannot normalize: scenes: must be a list, got string"},
		{"scene not an object", `{"scenes": [42]}`, "scene: cannot normalize: scenes[0]: scene must be an object, got number"},
		{"bad duration", `{"scenes": [{"durationSec": "long"}]}`, "scene: cannot normalize: scenes[0].durationSec: must be a number, got string"},
		{"asset not an object", `{"scenes": [{"assets": ["a.mp4"]}]}`, "scene: cannot normalize: scenes[0].assets[0]: asset must be an object, got string"},
		{"bad start", `{"scenes": [{"assets": [{"startSec": true}]}]}`, "scene: cannot normalize: scenes[0].assets[0].startSec: must be a number, got boolean"},
		{"transition not an object", `{"scenes": [{"transitions": ["fade"]}]}`, "scene: cannot normalize: scenes[0].transitions[0]: must be an object, got string"},
		{"effects wrong type", `{"scenes": [{"effects": "zoom"}]}`, "scene: cannot normalize: scenes[0].effects: must be a list or an object, got string"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Normalize(parse(t, tc.in))
			tester.True(t, n == nil)
			nerr := tester.ErrAs[*NormalizationError](t, err)
			tester.Eq(t, nerr.Error(), tc.want)
		})
	}
}

func TestNormalize_NumericStringsCoerced(t *testing.T) {
	n, err := Normalize(parse(t, `{"scenes": [{"durationSec": "5", "assets": [{"startSec": "1.25"}]}]}`))
	tester.NoErr(t, err)
	tester.Eq(t, firstScene(t, n)["durationSec"], any(5.0))
	a := actionsOf(t, n)[0]
	tester.Eq(t, a["startSec"], any(1.25))
	tester.Eq(t, a["durationSec"], any(5.0))
}
