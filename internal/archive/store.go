package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store keeps rendered scene responses keyed by process id.
type Store interface {
	Put(ctx context.Context, processID string, body []byte) error
	Get(ctx context.Context, processID string) ([]byte, error)
}

var ErrNotFound = errors.New("archive: scene not found")

func checkID(processID string) (string, error) {
	id := strings.TrimSpace(processID)
	if id == "" {
		return "", fmt.Errorf("archive: process id is required")
	}
	if strings.ContainsAny(id, "/\\") {
		return "", fmt.Errorf("archive: invalid process id %q", processID)
	}
	return id, nil
}
