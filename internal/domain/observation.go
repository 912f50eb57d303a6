package domain

import (
	"strings"
	"time"
	"unicode"
)

// RateObservation is one persisted (currency, rate, time) record. It is
// created exactly once per successful upstream fetch and never mutated.
type RateObservation struct {
	ID         int64
	Currency   string
	Rate       float64
	ObservedAt time.Time
}

// NormalizeCode trims and uppercases a raw currency code.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidCode reports whether code looks like a 3-letter uppercase
// currency identifier.
func ValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if !unicode.IsUpper(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
