package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"scenebuilder/internal/scene"
	"scenebuilder/internal/tester"
)

var quiet = log.New(io.Discard, "", 0)

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-prompt", "x", "-duration", "12", "-aspect", "9:16", "-deterministic"})
	tester.NoErr(t, err)
	c := o.constraints()
	tester.Eq(t, *c.TotalDurationSec, 12)
	tester.Eq(t, c.AspectRatio, "9:16")
	tester.True(t, c.Deterministic)

	o, err = parseFlags([]string{"-prompt", "x"})
	tester.NoErr(t, err)
	tester.True(t, o.constraints().TotalDurationSec == nil)

	for _, args := range [][]string{
		{},
		{"-prompt", "x", "-format", "xml"},
		{"-batch", "jobs.yaml"},
		{"-prompt", "x", "-duration", "-1"},
		{"-prompt", "x", "-attempts", "0"},
	} {
		_, err := parseFlags(args)
		tester.True(t, err != nil, "%v", args)
	}
}

func TestWrapClient_RetriesTransientErrors(t *testing.T) {
	o, err := parseFlags([]string{"-prompt", "x", "-attempts", "3"})
	tester.NoErr(t, err)
	tester.Eq(t, o.attempts, 3)

	inner := &flakyClient{failures: 2}
	cli := wrapClient(inner, o, quiet)
	raw, err := cli.GenerateJSON(context.Background(), "p", nil)
	tester.NoErr(t, err)
	tester.Eq(t, string(raw), `{"scenes": []}`)
	tester.Eq(t, inner.calls, 3)

	o.attempts = 1
	inner = &flakyClient{failures: 1}
	_, err = wrapClient(inner, o, quiet).GenerateJSON(context.Background(), "p", nil)
	tester.True(t, err != nil)
	tester.Eq(t, inner.calls, 1)
}

type flakyClient struct {
	failures int
	calls    int
}

func (f *flakyClient) Name() string { return "flaky" }
func (f *flakyClient) Close() error { return nil }
func (f *flakyClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("503 unavailable")
	}
	return json.RawMessage(`{"scenes": []}`), nil
}

func TestRunOne_JSONAndYAML(t *testing.T) {
	p := scene.New(nil, quiet)
	o := options{prompt: "Create a 10s motivational video", duration: 10, deterministic: true, format: "json"}

	var buf bytes.Buffer
	tester.NoErr(t, runOne(context.Background(), p, o, &buf))
	var out map[string]any
	tester.NoErr(t, json.Unmarshal(buf.Bytes(), &out))
	tester.Eq(t, out["plan"].(map[string]any)["scenesCount"], any(1.0))

	buf.Reset()
	o.format = "yaml"
	tester.NoErr(t, runOne(context.Background(), p, o, &buf))
	var y map[string]any
	tester.NoErr(t, yaml.Unmarshal(buf.Bytes(), &y))
	tester.Eq(t, y["plan"].(map[string]any)["scenesCount"], any(1))
	meta := y["scene"].(map[string]any)["meta"].(map[string]any)
	tester.Eq(t, meta["aspectRatio"], any("16:9"))
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	jobsFile := filepath.Join(dir, "jobs.yaml")
	tester.NoErr(t, os.WriteFile(jobsFile, []byte(`
- name: intro
  prompt: Create a 10s motivational video
  constraints:
    totalDurationSec: 10
    deterministic: true
- prompt: A calm ocean at dusk
  constraints:
    totalDurationSec: 6
    aspectRatio: "9:16"
- name: blank
  prompt: "   "
`), 0o644))

	var logs bytes.Buffer
	out := filepath.Join(dir, "out")
	o := options{batch: jobsFile, outDir: out, format: "json", concurrency: 2}
	err := runBatch(context.Background(), scene.New(nil, quiet), o, log.New(&logs, "", 0))
	tester.True(t, err != nil)
	tester.Eq(t, err.Error(), "1 of 3 job(s) failed: blank")

	b, err := os.ReadFile(filepath.Join(out, "intro.json"))
	tester.NoErr(t, err)
	tester.True(t, strings.Contains(string(b), `"totalDurationSec": 10`), string(b))

	b, err = os.ReadFile(filepath.Join(out, "job-002.json"))
	tester.NoErr(t, err)
	tester.True(t, strings.Contains(string(b), `"aspectRatio": "9:16"`), string(b))

	_, err = os.Stat(filepath.Join(out, "blank.json"))
	tester.True(t, os.IsNotExist(err))
}

func TestLoadJobs_DuplicateNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	tester.NoErr(t, os.WriteFile(path, []byte(`[{"name": "a", "prompt": "x"}, {"name": "a/", "prompt": "y"}]`), 0o644))
	_, err := loadJobs(path)
	tester.True(t, err != nil)
}

func TestSafe(t *testing.T) {
	tester.Eq(t, safe("promo/cut 1"), "promo_cut_1")
	tester.Eq(t, safe("../etc"), "etc")
	tester.Eq(t, safe(""), "")
}
