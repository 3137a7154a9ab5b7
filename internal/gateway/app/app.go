package app

import (
	"context"
	"fmt"
	"log"

	"scenebuilder/internal/gateway/config"
	"scenebuilder/internal/gateway/handler"
	"scenebuilder/internal/gateway/server"
	"scenebuilder/internal/llm"
	"scenebuilder/internal/scene"
)

type App struct {
	server *server.Server
	client llm.LLMClient
}

func New(ctx context.Context, args []string) (*App, error) {
	cfg, err := config.Load(args)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(ctx, cfg, log.Default())
}

// NewWithConfig wires the service from an already loaded config.
func NewWithConfig(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	client, err := newLLMClient(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	store, err := initArchive(cfg.Archive, logger)
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return nil, err
	}

	pipeline := scene.New(client, logger)
	sceneHandler := handler.NewSceneHandler(pipeline, store, logger)

	// Routing & Server
	mux := server.NewMux(sceneHandler, logger)
	srv := server.New(cfg.Port, mux)

	return &App{server: srv, client: client}, nil
}

// newLLMClient returns nil when no API key is configured; the pipeline then
// serves the fallback document.
func newLLMClient(ctx context.Context, cfg config.LLMConfig, logger *log.Logger) (llm.LLMClient, error) {
	if !cfg.Enabled() {
		logger.Printf("llm: GEMINI_API_KEY not set; serving fallback scenes only")
		return nil, nil
	}
	gemini, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to init gemini client: %w", err)
	}
	logger.Printf("llm: %s timeout=%s attempts=%d", gemini.Name(), cfg.Timeout, cfg.Attempts)
	return llm.Wrap(gemini,
		llm.WithLogging(logger),
		llm.Retry(cfg.Attempts, 0),
		llm.RateLimitFromEnv("LLM", "GEMINI"),
		llm.Timeout(cfg.Timeout),
	), nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if a.client != nil {
		if cerr := a.client.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
