package exchange

import (
	"sort"
	"sync"

	"cbrates/internal/adapters"
	"cbrates/internal/domain"
)

// SourceFactory builds the RateSource serving a registered currency.
type SourceFactory func() adapters.RateSource

// CurrencyRegistry maps currency codes to configured rate sources.
// Registration is additive and idempotent: re-registering a code replaces
// its factory.
type CurrencyRegistry struct {
	mu        sync.RWMutex
	factories map[string]SourceFactory
}

func (r *CurrencyRegistry) Register(code string, factory SourceFactory) {
	code = domain.NormalizeCode(code)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[code] = factory
}

// Supported returns the registered codes in sorted order.
func (r *CurrencyRegistry) Supported() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.factories))
	for code := range r.factories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Resolve returns the source for code, or a NotSupportedError carrying the
// currently supported set.
func (r *CurrencyRegistry) Resolve(code string) (adapters.RateSource, error) {
	if !domain.ValidCode(code) {
		return nil, &domain.NotSupportedError{Code: code, Supported: r.Supported()}
	}

	r.mu.RLock()
	factory, ok := r.factories[code]
	r.mu.RUnlock()

	if !ok {
		return nil, &domain.NotSupportedError{Code: code, Supported: r.Supported()}
	}
	return factory(), nil
}

func NewCurrencyRegistry() *CurrencyRegistry {
	return &CurrencyRegistry{factories: make(map[string]SourceFactory)}
}
