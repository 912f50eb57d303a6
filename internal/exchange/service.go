package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cbrates/internal/adapters"
	"cbrates/internal/domain"
	"cbrates/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Orchestrator runs the per-currency acquisition pipeline: gate check,
// upstream fetch, persist, gate commit, respond; any failure after the gate
// falls back to the last persisted rate. The gate is committed strictly
// after a successful persist, so a store outage can never mark the cooldown
// as satisfied while no new observation exists.
type Orchestrator struct {
	registry     *CurrencyRegistry
	store        adapters.ObservationStore
	gate         *CooldownGate
	historyLimit int
	fetchTimeout time.Duration
	loc          *time.Location
	now          func() time.Time
}

type OrchestratorConfig struct {
	HistoryLimit int
	FetchTimeout time.Duration
	Location     *time.Location
}

// Execute runs one pipeline invocation for code. The only error it returns
// is *domain.NotSupportedError; every upstream or store failure is absorbed
// into the View outcome.
func (o *Orchestrator) Execute(ctx context.Context, code string) (View, error) {
	view, err := o.execute(ctx, code)
	if err == nil {
		metrics.PipelineRuns.WithLabelValues(code, string(view.Outcome)).Inc()
	}
	return view, err
}

func (o *Orchestrator) execute(ctx context.Context, code string) (View, error) {
	source, err := o.registry.Resolve(code)
	if err != nil {
		return View{}, err
	}

	if decision := o.gate.TryAcquire(ctx, code); !decision.Allowed {
		return o.throttled(ctx, code, decision), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.fetchTimeout)
	fetchStart := time.Now()
	rate, err := source.Fetch(fetchCtx, code)
	cancel()
	metrics.UpstreamFetchDuration.WithLabelValues(code).Observe(time.Since(fetchStart).Seconds())

	if err != nil {
		o.gate.Release(code)
		metrics.UpstreamFetchFailures.WithLabelValues(code).Inc()
		logrus.WithError(err).WithField("currency", code).Warn("upstream fetch failed, falling back to stored data")
		return o.fallback(ctx, code, err), nil
	}

	obs, err := o.store.Save(ctx, code, rate)
	if err != nil {
		// The rate was obtained but not durably recorded, it must not be
		// reported as the authoritative current rate.
		o.gate.Release(code)
		logrus.WithError(err).WithField("currency", code).Error("failed to persist fetched rate, falling back to stored data")
		return o.fallback(ctx, code, err), nil
	}

	o.gate.Commit(ctx, code)

	history, err := o.store.History(ctx, code, o.historyLimit, false)
	if err != nil {
		logrus.WithError(err).WithField("currency", code).Warn("history read failed after save")
		history = []domain.RateObservation{obs}
	}

	return View{
		Outcome:     OutcomeFresh,
		Currency:    code,
		CurrentRate: &obs.Rate,
		Timestamp:   formatTime(obs.ObservedAt, o.loc),
		LastRates:   toEntries(history, o.loc),
	}, nil
}

// throttled responds with the existing history unchanged. No fetch is
// attempted and no cooldown state is mutated.
func (o *Orchestrator) throttled(ctx context.Context, code string, decision Decision) View {
	history, err := o.store.History(ctx, code, o.historyLimit, false)
	if err != nil {
		logrus.WithError(err).WithField("currency", code).Warn("history read failed on throttled request")
		history = nil
	}

	return View{
		Outcome:     OutcomeThrottled,
		Currency:    code,
		Message:     fmt.Sprintf("wait %d seconds", decision.Wait),
		WaitSeconds: decision.Wait,
		LastRates:   toEntries(history, o.loc),
	}
}

// fallback serves the most recent persisted observation. Only a failure of
// this lookup itself is surfaced as a hard error outcome, carrying both the
// original and the fallback cause.
func (o *Orchestrator) fallback(ctx context.Context, code string, cause error) View {
	latest, err := o.store.Latest(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNoObservations) {
			return View{
				Outcome:   OutcomeUnavailable,
				Currency:  code,
				Message:   "could not fetch data",
				Timestamp: formatTime(o.now(), o.loc),
				LastRates: []RateEntry{},
			}
		}
		return o.failed(code, cause, err)
	}

	history, err := o.store.History(ctx, code, o.historyLimit, false)
	if err != nil {
		return o.failed(code, cause, err)
	}

	return View{
		Outcome:     OutcomeDegraded,
		Currency:    code,
		CurrentRate: &latest.Rate,
		Timestamp:   formatTime(latest.ObservedAt, o.loc),
		Message:     "serving stored data",
		DataSource:  "database",
		LastRates:   toEntries(history, o.loc),
	}
}

func (o *Orchestrator) failed(code string, cause, fallbackErr error) View {
	logrus.WithField("currency", code).
		WithField("cause", cause).
		WithField("fallback_error", fallbackErr).
		Error("fallback lookup failed")

	return View{
		Outcome:         OutcomeFailed,
		Currency:        code,
		Message:         cause.Error(),
		FallbackMessage: fallbackErr.Error(),
		Timestamp:       formatTime(o.now(), o.loc),
		LastRates:       []RateEntry{},
	}
}

func NewOrchestrator(registry *CurrencyRegistry, store adapters.ObservationStore, gate *CooldownGate, cfg OrchestratorConfig) *Orchestrator {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Orchestrator{
		registry:     registry,
		store:        store,
		gate:         gate,
		historyLimit: cfg.HistoryLimit,
		fetchTimeout: cfg.FetchTimeout,
		loc:          loc,
		now:          time.Now,
	}
}
