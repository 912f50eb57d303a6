package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// RistrettoLastCallStore keeps per-currency last-call timestamps with a TTL,
// so throttling state disappears on its own once the cooldown window passed.
type RistrettoLastCallStore struct {
	cache *ristretto.Cache
}

func NewLastCallStore(maxItems int64) (*RistrettoLastCallStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create last call cache failed: %w", err)
	}
	return &RistrettoLastCallStore{cache: c}, nil
}

func (s *RistrettoLastCallStore) Get(_ context.Context, code string) (time.Time, bool) {
	if v, ok := s.cache.Get(code); ok {
		at, ok := v.(time.Time)
		return at, ok
	}
	return time.Time{}, false
}

func (s *RistrettoLastCallStore) Set(_ context.Context, code string, at time.Time, ttl time.Duration) {
	s.cache.SetWithTTL(code, at, 1, ttl)
	// Ristretto applies writes asynchronously; the gate needs to read its
	// own write on the very next request.
	s.cache.Wait()
}

func (s *RistrettoLastCallStore) Close() { s.cache.Close() }
