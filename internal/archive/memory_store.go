package archive

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMemorySize = 256
	DefaultMemoryTTL  = time.Hour
)

// MemoryStore is a bounded in-process archive. Old entries are evicted by
// recency and by age.
type MemoryStore struct {
	cache *expirable.LRU[string, []byte]
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}
	if ttl <= 0 {
		ttl = DefaultMemoryTTL
	}
	return &MemoryStore{cache: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (s *MemoryStore) Put(_ context.Context, processID string, body []byte) error {
	id, err := checkID(processID)
	if err != nil {
		return err
	}
	s.cache.Add(id, append([]byte(nil), body...))
	return nil
}

func (s *MemoryStore) Get(_ context.Context, processID string) ([]byte, error) {
	id, err := checkID(processID)
	if err != nil {
		return nil, err
	}
	raw, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

// Len reports how many entries are live.
func (s *MemoryStore) Len() int { return s.cache.Len() }
