package adapters

import (
	"context"
	"time"

	"cbrates/internal/domain"
)

// RateSource performs one upstream fetch for a currency code. No retries,
// the fetch must be bounded by the passed context.
type RateSource interface {
	Fetch(ctx context.Context, code string) (float64, error)
}

// ObservationStore persists rate observations and answers history queries.
type ObservationStore interface {
	Save(ctx context.Context, code string, rate float64) (domain.RateObservation, error)
	// Latest returns domain.ErrNoObservations when nothing was persisted yet.
	Latest(ctx context.Context, code string) (domain.RateObservation, error)
	// History returns observations ordered by observed_at descending,
	// at most limit entries. excludeLatest drops the single most recent
	// entry before truncating.
	History(ctx context.Context, code string, limit int, excludeLatest bool) ([]domain.RateObservation, error)
}

// LastCallStore keeps the per-currency timestamp of the last permitted
// upstream call. Entries expire on their own after the cooldown window,
// so a miss is indistinguishable from "never called".
type LastCallStore interface {
	Get(ctx context.Context, code string) (time.Time, bool)
	Set(ctx context.Context, code string, at time.Time, ttl time.Duration)
}
