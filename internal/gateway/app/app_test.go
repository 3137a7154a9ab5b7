package app

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"scenebuilder/internal/archive"
	"scenebuilder/internal/gateway/config"
	"scenebuilder/internal/tester"
)

var quiet = log.New(io.Discard, "", 0)

func TestInitArchive(t *testing.T) {
	store, err := initArchive(config.ArchiveConfig{Mode: config.ArchiveOff}, quiet)
	tester.NoErr(t, err)
	tester.True(t, store == nil)

	store, err = initArchive(config.ArchiveConfig{Mode: config.ArchiveMemory, Size: 2, TTL: time.Minute}, quiet)
	tester.NoErr(t, err)
	_, ok := store.(*archive.MemoryStore)
	tester.True(t, ok)

	_, err = initArchive(config.ArchiveConfig{Mode: config.ArchiveS3}, quiet)
	tester.True(t, err != nil)
}

func TestNewWithConfig_NoModel(t *testing.T) {
	cfg := &config.Config{Port: ":0", Archive: config.ArchiveConfig{Mode: config.ArchiveMemory}}
	a, err := NewWithConfig(context.Background(), cfg, quiet)
	tester.NoErr(t, err)
	tester.True(t, a.client == nil)
	tester.NoErr(t, a.Shutdown(context.Background()))
}
