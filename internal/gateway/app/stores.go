package app

import (
	"fmt"
	"log"

	"scenebuilder/internal/archive"
	"scenebuilder/internal/gateway/config"
)

func initArchive(cfg config.ArchiveConfig, logger *log.Logger) (archive.Store, error) {
	switch cfg.Mode {
	case config.ArchiveOff:
		logger.Printf("scene archive: disabled")
		return nil, nil
	case config.ArchiveS3:
		store, err := archive.NewS3Store(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize scene archive: %w", err)
		}
		logger.Printf("scene archive: s3 bucket=%s endpoint=%s", cfg.S3.Bucket, cfg.S3.Endpoint)
		return store, nil
	default:
		logger.Printf("scene archive: memory size=%d ttl=%s", cfg.Size, cfg.TTL)
		return archive.NewMemoryStore(cfg.Size, cfg.TTL), nil
	}
}
