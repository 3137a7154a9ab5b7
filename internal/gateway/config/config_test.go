package config

import (
	"testing"
	"time"

	"scenebuilder/internal/tester"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "APP_ENV", "GEMINI_API_KEY", "GEMINI_MODEL", "LLM_TIMEOUT", "LLM_RETRIES",
		"SCENE_ARCHIVE", "SCENE_ARCHIVE_SIZE", "SCENE_ARCHIVE_TTL",
		"ARCHIVE_S3_ENDPOINT", "ARCHIVE_S3_REGION", "ARCHIVE_S3_ACCESS_KEY", "ARCHIVE_S3_SECRET_KEY",
		"ARCHIVE_S3_BUCKET", "ARCHIVE_S3_USE_SSL", "MINIO_ROOT_USER", "MINIO_ROOT_PASSWORD",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(nil)
	tester.NoErr(t, err)
	tester.Eq(t, cfg.Port, ":8000")
	tester.Eq(t, cfg.Env, "local")
	tester.False(t, cfg.LLM.Enabled())
	tester.Eq(t, cfg.LLM.Model, "gemini-2.5-flash")
	tester.Eq(t, cfg.LLM.Timeout, 30*time.Second)
	tester.Eq(t, cfg.LLM.Attempts, 1)
	tester.Eq(t, cfg.Archive.Mode, ArchiveMemory)
	tester.Eq(t, cfg.Archive.Size, 256)
	tester.Eq(t, cfg.Archive.TTL, time.Hour)
	tester.Eq(t, cfg.Archive.S3.Endpoint, "minio:9000")
	tester.False(t, cfg.Archive.S3.UseSSL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("GEMINI_API_KEY", " key ")
	t.Setenv("LLM_TIMEOUT", "45")
	t.Setenv("LLM_RETRIES", "3")
	t.Setenv("SCENE_ARCHIVE", "S3")
	t.Setenv("SCENE_ARCHIVE_TTL", "10m")
	t.Setenv("ARCHIVE_S3_ENDPOINT", "s3.example.com")

	cfg, err := Load(nil)
	tester.NoErr(t, err)
	tester.Eq(t, cfg.Port, ":9090")
	tester.True(t, cfg.LLM.Enabled())
	tester.Eq(t, cfg.LLM.APIKey, "key")
	tester.Eq(t, cfg.LLM.Timeout, 45*time.Second)
	tester.Eq(t, cfg.LLM.Attempts, 3)
	tester.Eq(t, cfg.Archive.Mode, ArchiveS3)
	tester.Eq(t, cfg.Archive.TTL, 10*time.Minute)
	tester.Eq(t, cfg.Archive.S3.Endpoint, "s3.example.com")
	tester.True(t, cfg.Archive.S3.UseSSL)

	cfg, err = Load([]string{"-port", "127.0.0.1:7000"})
	tester.NoErr(t, err)
	tester.Eq(t, cfg.Port, "127.0.0.1:7000")
}

func TestLoad_Invalid(t *testing.T) {
	for key, val := range map[string]string{
		"SCENE_ARCHIVE":      "redis",
		"LLM_RETRIES":        "-1",
		"LLM_TIMEOUT":        "soon",
		"SCENE_ARCHIVE_SIZE": "big",
	} {
		clearEnv(t)
		t.Setenv(key, val)
		_, err := Load(nil)
		tester.True(t, err != nil, "%s=%s", key, val)
	}
}
