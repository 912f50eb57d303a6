package exchange

import (
	"context"
	"sync"
	"time"

	"cbrates/internal/adapters"
)

// Decision is the outcome of a single gate check.
type Decision struct {
	Allowed bool
	// Wait is the remaining cooldown in whole seconds when denied.
	Wait int
}

// CooldownGate enforces the minimum elapsed time between two permitted
// upstream calls for the same currency. A passed check places an in-flight
// reservation, so two concurrent requests for one currency cannot both be
// allowed; the persisted last-call time is written only on Commit, after the
// fetched rate was durably stored.
type CooldownGate struct {
	store  adapters.LastCallStore
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func (g *CooldownGate) TryAcquire(ctx context.Context, code string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Clock read once per check, all duration arithmetic below uses it.
	now := g.now()

	if _, busy := g.inflight[code]; busy {
		return Decision{Wait: waitSeconds(g.window)}
	}

	if last, ok := g.store.Get(ctx, code); ok {
		if elapsed := now.Sub(last); elapsed < g.window {
			return Decision{Wait: waitSeconds(g.window - elapsed)}
		}
	}

	g.inflight[code] = struct{}{}
	return Decision{Allowed: true}
}

// Commit records the last-call time for code and drops its reservation.
// Called only once the fetched rate has been persisted.
func (g *CooldownGate) Commit(ctx context.Context, code string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inflight, code)
	g.store.Set(ctx, code, g.now(), g.window)
}

// Release drops the reservation without touching the last-call time, so a
// failed pipeline does not consume the cooldown window.
func (g *CooldownGate) Release(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inflight, code)
}

func (g *CooldownGate) Window() time.Duration { return g.window }

// waitSeconds floors the remaining duration to whole seconds, clamped to a
// minimum of 1 so a denied request never reads "wait 0 seconds".
func waitSeconds(remaining time.Duration) int {
	s := int(remaining / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}

func NewCooldownGate(store adapters.LastCallStore, window time.Duration) *CooldownGate {
	return &CooldownGate{
		store:    store,
		window:   window,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}
