package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"scenebuilder/internal/archive"
)

const (
	ArchiveMemory = "memory"
	ArchiveS3     = "s3"
	ArchiveOff    = "off"
)

type Config struct {
	Port    string
	Env     string
	LLM     LLMConfig
	Archive ArchiveConfig
}

type LLMConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// Attempts bounds calls per request; 1 means no retry.
	Attempts int
}

// Enabled reports whether a real model client should be built.
func (c LLMConfig) Enabled() bool { return c.APIKey != "" }

type ArchiveConfig struct {
	Mode string
	Size int
	TTL  time.Duration
	S3   archive.S3Config
}

// Load reads .env (if present), then the environment, then args. A flag
// given on the command line wins over PORT.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	port := fs.String("port", "", "server port (default :8000)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *port == "" {
		*port = firstNonEmpty(os.Getenv("PORT"), ":8000")
	}
	if !strings.HasPrefix(*port, ":") && !strings.Contains(*port, ":") {
		*port = ":" + *port
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	llmCfg, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}
	archiveCfg, err := loadArchiveConfig(env)
	if err != nil {
		return nil, err
	}
	return &Config{Port: *port, Env: env, LLM: llmCfg, Archive: archiveCfg}, nil
}

func loadLLMConfig() (LLMConfig, error) {
	timeout, err := durationEnv("LLM_TIMEOUT", 30*time.Second)
	if err != nil {
		return LLMConfig{}, err
	}
	attempts, err := intEnv("LLM_RETRIES", 1)
	if err != nil {
		return LLMConfig{}, err
	}
	return LLMConfig{
		APIKey:   strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:    firstNonEmpty(os.Getenv("GEMINI_MODEL"), "gemini-2.5-flash"),
		Timeout:  timeout,
		Attempts: attempts,
	}, nil
}

func loadArchiveConfig(env string) (ArchiveConfig, error) {
	mode := strings.ToLower(firstNonEmpty(os.Getenv("SCENE_ARCHIVE"), ArchiveMemory))
	switch mode {
	case ArchiveMemory, ArchiveS3, ArchiveOff:
	default:
		return ArchiveConfig{}, fmt.Errorf("config: SCENE_ARCHIVE must be memory, s3 or off, got %q", mode)
	}
	size, err := intEnv("SCENE_ARCHIVE_SIZE", archive.DefaultMemorySize)
	if err != nil {
		return ArchiveConfig{}, err
	}
	ttl, err := durationEnv("SCENE_ARCHIVE_TTL", archive.DefaultMemoryTTL)
	if err != nil {
		return ArchiveConfig{}, err
	}
	return ArchiveConfig{
		Mode: mode,
		Size: size,
		TTL:  ttl,
		S3: archive.S3Config{
			Endpoint:  resolveS3Endpoint(env),
			Region:    firstNonEmpty(os.Getenv("ARCHIVE_S3_REGION"), "us-east-1"),
			AccessKey: firstNonEmpty(os.Getenv("ARCHIVE_S3_ACCESS_KEY"), os.Getenv("MINIO_ROOT_USER")),
			SecretKey: firstNonEmpty(os.Getenv("ARCHIVE_S3_SECRET_KEY"), os.Getenv("MINIO_ROOT_PASSWORD")),
			Bucket:    firstNonEmpty(os.Getenv("ARCHIVE_S3_BUCKET"), "scene-archive"),
			UseSSL:    resolveS3UseSSL(env),
		},
	}, nil
}

func resolveS3Endpoint(env string) string {
	if strings.EqualFold(env, "local") {
		return firstNonEmpty(os.Getenv("ARCHIVE_S3_ENDPOINT"), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("ARCHIVE_S3_ENDPOINT"))
}

func resolveS3UseSSL(env string) bool {
	raw := strings.TrimSpace(os.Getenv("ARCHIVE_S3_USE_SSL"))
	if raw == "" {
		return !strings.EqualFold(env, "local")
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("config: %s must be a non-negative integer, got %q", key, raw)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
