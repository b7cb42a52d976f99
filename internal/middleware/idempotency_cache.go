package middleware

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// replay is a stored response for an Idempotency-Key.
type replay struct {
	status      int
	contentType string
	body        []byte
}

// idempotencyStore keeps replays for ttl, bounded by maxEntries.
type idempotencyStore struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func newIdempotencyStore(maxEntries int64, ttl time.Duration) (*idempotencyStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &idempotencyStore{cache: c, ttl: ttl}, nil
}

func (s *idempotencyStore) get(key string) (*replay, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	r, ok := v.(*replay)
	return r, ok
}

func (s *idempotencyStore) set(key string, r *replay) {
	s.cache.SetWithTTL(key, r, 1, s.ttl)
	s.cache.Wait()
}

func (s *idempotencyStore) close() {
	s.cache.Close()
}
