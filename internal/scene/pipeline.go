package scene

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"scenebuilder/internal/llm"
	"scenebuilder/internal/types"
	"scenebuilder/internal/util/jsonutil"
)

// Source tells where the raw storyboard text came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Result is what one pipeline run hands back to the caller.
type Result struct {
	Plan  types.PlanSummary    `json:"plan" yaml:"plan"`
	Scene *types.SceneDocument `json:"scene" yaml:"scene"`

	ProcessID string `json:"-" yaml:"-"`
	Source    Source `json:"-" yaml:"-"`
}

// Pipeline turns a prompt into a validated scene document. It keeps no
// per-request state and is safe for concurrent use.
type Pipeline struct {
	gen *Generator
	log *log.Logger
}

// New builds a pipeline around client; a nil client always uses the fallback.
// A nil logger means log.Default().
func New(client llm.LLMClient, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{gen: &Generator{LLM: client}, log: logger}
}

// Run executes generate -> (fallback) -> sanitize -> parse -> normalize ->
// validate -> summarize. Failures after generation come back as *Error. If
// ctx is canceled the run stops and returns ctx.Err() with no result.
func (p *Pipeline) Run(ctx context.Context, prompt string, c types.Constraints) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	c = c.WithDefaults()

	source := SourceModel
	raw, err := p.gen.Generate(ctx, prompt, c)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.log.Printf("scene pipeline: %v; using fallback", err)
		source = SourceFallback
		raw = Fallback(prompt, c)
	}

	cleaned := llm.CleanJSON(jsonutil.UnwrapString(raw))
	parsed, err := jsonutil.Parse(cleaned)
	if err != nil {
		var perr *jsonutil.ParseError
		if errors.As(err, &perr) {
			p.log.Printf("scene pipeline: unparseable %s output: %s", source, llm.RedactText(perr.Snippet))
		}
		return nil, &Error{Kind: KindParse, Err: fmt.Errorf("failed to parse %s output as JSON: %w", source, err)}
	}

	norm, err := Normalize(parsed)
	if err != nil {
		p.logRejected(source, parsed, err)
		return nil, &Error{Kind: KindNormalize, Err: err}
	}
	doc, err := types.Validate(norm.Document)
	if err != nil {
		p.logRejected(source, parsed, err)
		return nil, &Error{Kind: KindValidate, Err: err}
	}

	if sum := doc.SceneDurationSum(); round2(sum) != round2(doc.Meta.TotalDurationSec) {
		p.log.Printf("scene pipeline: scene durations sum to %.2fs but meta.totalDurationSec is %.2fs", sum, doc.Meta.TotalDurationSec)
	}

	res := &Result{
		Plan:      Summarize(doc, prompt),
		Scene:     doc,
		ProcessID: norm.ProcessID,
		Source:    source,
	}
	if res.ProcessID == "" {
		res.ProcessID = NewProcessID()
	}
	p.log.Printf("scene pipeline: process=%s source=%s scenes=%d duration=%.2fs notes=%q",
		res.ProcessID, source, len(doc.Scenes), doc.Meta.TotalDurationSec, norm.Plan.Notes)
	return res, nil
}

// logRejected records parsed output that failed later stages, with inline
// media payloads redacted.
func (p *Pipeline) logRejected(source Source, parsed any, err error) {
	body, merr := jsonutil.MarshalNoEscape(llm.RedactMedia(parsed))
	if merr != nil {
		return
	}
	p.log.Printf("scene pipeline: rejected %s output (%v): %s", source, err, body)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
