package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"scenebuilder/internal/llm"
	"scenebuilder/internal/scene"
	"scenebuilder/internal/types"
)

type options struct {
	prompt        string
	duration      int
	aspect        string
	fps           int
	lang          string
	deterministic bool
	batch         string
	format        string
	outDir        string
	concurrency   int
	attempts      int
	model         string
	offline       bool
	timeout       time.Duration
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("scenebuild", flag.ContinueOnError)
	fs.StringVar(&o.prompt, "prompt", "", "scene prompt")
	fs.IntVar(&o.duration, "duration", 0, "total duration in seconds (0 = unset)")
	fs.StringVar(&o.aspect, "aspect", "", "aspect ratio, e.g. 16:9")
	fs.IntVar(&o.fps, "fps", 0, "frames per second (0 = default)")
	fs.StringVar(&o.lang, "lang", "", "language code")
	fs.BoolVar(&o.deterministic, "deterministic", false, "request repeatable output")
	fs.StringVar(&o.batch, "batch", "", "YAML or JSON file with a list of jobs")
	fs.StringVar(&o.format, "format", "json", "output format: json or yaml")
	fs.StringVar(&o.outDir, "out", "", "output directory (batch mode requires it)")
	fs.IntVar(&o.concurrency, "concurrency", 4, "parallel jobs in batch mode")
	fs.IntVar(&o.attempts, "attempts", 1, "model calls per prompt; 1 means no retry")
	fs.StringVar(&o.model, "model", "gemini-2.5-flash", "Gemini model id")
	fs.BoolVar(&o.offline, "offline", false, "never call the model; always use the fallback")
	fs.DurationVar(&o.timeout, "timeout", 30*time.Second, "per-call model timeout")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.format != "json" && o.format != "yaml" {
		return o, fmt.Errorf("-format must be json or yaml, got %q", o.format)
	}
	if o.batch == "" && o.prompt == "" {
		return o, fmt.Errorf("-prompt or -batch is required")
	}
	if o.batch != "" && o.outDir == "" {
		return o, fmt.Errorf("-out is required with -batch")
	}
	if o.duration < 0 {
		return o, fmt.Errorf("-duration must be non-negative")
	}
	if o.fps < 0 {
		return o, fmt.Errorf("-fps must be positive")
	}
	if o.attempts < 1 {
		return o, fmt.Errorf("-attempts must be at least 1")
	}
	return o, nil
}

func (o options) constraints() types.Constraints {
	c := types.Constraints{
		AspectRatio:   o.aspect,
		FPS:           o.fps,
		Language:      o.lang,
		Deterministic: o.deterministic,
	}
	if o.duration > 0 {
		d := o.duration
		c.TotalDurationSec = &d
	}
	return c
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	client, err := newClient(ctx, opts, logger)
	if err != nil {
		log.Fatal(err)
	}
	if client != nil {
		defer client.Close()
	}
	pipeline := scene.New(client, logger)

	if opts.batch != "" {
		err = runBatch(ctx, pipeline, opts, logger)
	} else {
		err = runOne(ctx, pipeline, opts, os.Stdout)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func newClient(ctx context.Context, o options, logger *log.Logger) (llm.LLMClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if o.offline || apiKey == "" {
		logger.Printf("no model configured; using fallback scenes")
		return nil, nil
	}
	gemini, err := llm.NewGeminiClient(ctx, apiKey, o.model)
	if err != nil {
		return nil, err
	}
	return wrapClient(gemini, o, logger), nil
}

// wrapClient applies the same middleware order as the API service.
func wrapClient(inner llm.LLMClient, o options, logger *log.Logger) llm.LLMClient {
	return llm.Wrap(inner,
		llm.WithLogging(logger),
		llm.Retry(o.attempts, 0),
		llm.RateLimitFromEnv("LLM", "GEMINI"),
		llm.Timeout(o.timeout),
	)
}

func runOne(ctx context.Context, p *scene.Pipeline, o options, w io.Writer) error {
	res, err := p.Run(ctx, o.prompt, o.constraints())
	if err != nil {
		return err
	}
	b, err := render(res, o.format)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
