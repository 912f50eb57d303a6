package exchange

import (
	"strconv"
	"time"

	"cbrates/internal/domain"
)

// displayTimeFormat matches the feed's day-first convention.
const displayTimeFormat = "02.01.2006 15:04:05"

type Outcome string

const (
	// OutcomeFresh: rate fetched from upstream and persisted.
	OutcomeFresh Outcome = "fresh"
	// OutcomeThrottled: cooldown still active, no fetch attempted.
	OutcomeThrottled Outcome = "throttled"
	// OutcomeDegraded: fetch or persist failed, serving the last stored rate.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeUnavailable: fetch failed and nothing was ever stored.
	OutcomeUnavailable Outcome = "unavailable"
	// OutcomeFailed: the fallback lookup itself failed.
	OutcomeFailed Outcome = "failed"
)

// View is the outcome of one pipeline run, ready for serialization.
// Failures never escape as errors: they are folded into the outcome.
type View struct {
	Outcome         Outcome
	Currency        string
	CurrentRate     *float64
	Timestamp       string
	Message         string
	FallbackMessage string
	DataSource      string
	WaitSeconds     int
	LastRates       []RateEntry
}

// RateEntry is one history line. Rate is serialized as a fixed 4-decimal
// string, matching the numeric(10,4) column, so no rounding drift appears
// between stored and reported values.
type RateEntry struct {
	Rate      string `json:"rate" example:"93.2500"`
	Currency  string `json:"currency" example:"USD"`
	Timestamp string `json:"timestamp" example:"28.08.2026 12:00:00"`
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 4, 64)
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(displayTimeFormat)
}

func toEntries(history []domain.RateObservation, loc *time.Location) []RateEntry {
	entries := make([]RateEntry, 0, len(history))
	for _, obs := range history {
		entries = append(entries, RateEntry{
			Rate:      formatRate(obs.Rate),
			Currency:  obs.Currency,
			Timestamp: formatTime(obs.ObservedAt, loc),
		})
	}
	return entries
}
