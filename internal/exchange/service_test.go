package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"cbrates/internal/adapters"
	"cbrates/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Testify mocks ---

type MockRateSource struct{ mock.Mock }

func (m *MockRateSource) Fetch(ctx context.Context, code string) (float64, error) {
	args := m.Called(ctx, code)
	rate, _ := args.Get(0).(float64)
	return rate, args.Error(1)
}

type MockObservationStore struct{ mock.Mock }

func (m *MockObservationStore) Save(ctx context.Context, code string, rate float64) (domain.RateObservation, error) {
	args := m.Called(ctx, code, rate)
	obs, _ := args.Get(0).(domain.RateObservation)
	return obs, args.Error(1)
}

func (m *MockObservationStore) Latest(ctx context.Context, code string) (domain.RateObservation, error) {
	args := m.Called(ctx, code)
	obs, _ := args.Get(0).(domain.RateObservation)
	return obs, args.Error(1)
}

func (m *MockObservationStore) History(ctx context.Context, code string, limit int, excludeLatest bool) ([]domain.RateObservation, error) {
	args := m.Called(ctx, code, limit, excludeLatest)
	history, _ := args.Get(0).([]domain.RateObservation)
	return history, args.Error(1)
}

func newTestOrchestrator(source adapters.RateSource, store adapters.ObservationStore, window time.Duration, historyLimit int) (*Orchestrator, *CooldownGate, *fakeClock) {
	registry := NewCurrencyRegistry()
	registry.Register("USD", func() adapters.RateSource { return source })

	clock := newFakeClock()
	gate := NewCooldownGate(newFakeLastCallStore(), window)
	gate.now = clock.Now

	o := NewOrchestrator(registry, store, gate, OrchestratorConfig{
		HistoryLimit: historyLimit,
		FetchTimeout: 5 * time.Second,
		Location:     time.UTC,
	})
	o.now = clock.Now
	return o, gate, clock
}

func observation(id int64, rate float64, at time.Time) domain.RateObservation {
	return domain.RateObservation{ID: id, Currency: "USD", Rate: rate, ObservedAt: at}
}

// --- Execute ---

func TestOrchestrator_Execute_NotSupported(t *testing.T) {
	mockSource := new(MockRateSource)
	mockStore := new(MockObservationStore)
	o, _, _ := newTestOrchestrator(mockSource, mockStore, 10*time.Second, 10)

	_, err := o.Execute(context.Background(), "GBP")
	require.Error(t, err)

	var notSupported *domain.NotSupportedError
	require.ErrorAs(t, err, &notSupported)
	require.Equal(t, []string{"USD"}, notSupported.Supported)

	mockSource.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	mockStore.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Execute_Fresh(t *testing.T) {
	mockSource := new(MockRateSource)
	mockStore := new(MockObservationStore)
	o, _, clock := newTestOrchestrator(mockSource, mockStore, 10*time.Second, 10)

	ctx := context.Background()
	saved := observation(2, 93.25, clock.Now())
	history := []domain.RateObservation{saved, observation(1, 93.1, clock.Now().Add(-time.Minute))}

	mockSource.On("Fetch", mock.Anything, "USD").Return(93.25, nil).Once()
	mockStore.On("Save", mock.Anything, "USD", 93.25).Return(saved, nil).Once()
	mockStore.On("History", mock.Anything, "USD", 10, false).Return(history, nil).Once()

	view, err := o.Execute(ctx, "USD")

	require.NoError(t, err)
	require.Equal(t, OutcomeFresh, view.Outcome)
	require.Equal(t, "USD", view.Currency)
	require.NotNil(t, view.CurrentRate)
	require.InDelta(t, 93.25, *view.CurrentRate, 1e-9)
	require.Equal(t, "28.08.2026 12:00:00", view.Timestamp)
	require.Len(t, view.LastRates, 2)
	require.Equal(t, "93.2500", view.LastRates[0].Rate)
	require.Equal(t, "93.1000", view.LastRates[1].Rate)

	mockSource.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestOrchestrator_Execute_ThrottledWithinWindow(t *testing.T) {
	mockSource := new(MockRateSource)
	mockStore := new(MockObservationStore)
	o, gate, clock := newTestOrchestrator(mockSource, mockStore, 10*time.Second, 10)

	ctx := context.Background()
	require.True(t, gate.TryAcquire(ctx, "USD").Allowed)
	gate.Commit(ctx, "USD")
	clock.Advance(3 * time.Second)

	existing := []domain.RateObservation{observation(1, 93.0, clock.Now().Add(-3*time.Second))}
	mockStore.On("History", mock.Anything, "USD", 10, false).Return(existing, nil).Once()

	view, err := o.Execute(ctx, "USD")

	require.NoError(t, err)
	require.Equal(t, OutcomeThrottled, view.Outcome)
	require.Nil(t, view.CurrentRate)
	require.Equal(t, 7, view.WaitSeconds)
	require.Equal(t, "wait 7 seconds", view.Message)
	require.Len(t, view.LastRates, 1)

	// No fetch attempted, no persistence.
	mockSource.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	mockStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	mockStore.AssertExpectations(t)
}

func TestOrchestrator_Execute_SourceFails_ServesStoredRate(t *testing.T) {
	mockSource := new(MockRateSource)
	mockStore := new(MockObservationStore)
	o, gate, clock := newTestOrchestrator(mockSource, mockStore, 10*time.Second, 10)

	ctx := context.Background()
	stored := observation(1, 93.0, clock.Now().Add(-time.Hour))

	mockSource.On("Fetch", mock.Anything, "USD").Return(0.0, errors.New("upstream down")).Once()
	mockStore.On("Latest", mock.Anything, "USD").Return(stored, nil).Once()
	mockStore.On("History", mock.Anything, "USD", 10, false).Return([]domain.RateObservation{stored}, nil).Once()

	view, err := o.Execute(ctx, "USD")

	require.NoError(t, err)
	require.Equal(t, OutcomeDegraded, view.Outcome)
	require.NotNil(t, view.CurrentRate)
	require.InDelta(t, 93.0, *view.CurrentRate, 0) // exact value, no drift
	require.Equal(t, "database", view.DataSource)
	require.Equal(t, "28.08.2026 11:00:00", view.Timestamp)

	// Failed pipeline must not consume the cooldown window.
	require.True(t, gate.TryAcquire(ctx, "USD").Allowed)
	mockSource.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestOrchestrator_Execute_SourceFails_NothingStored(t *testing.T) {
	mockSource := new(MockRateSource)
	mockStore := new(MockObservationStore)
	o, _, _ := newTestOrchestrator(mockSource, mockStore, 10*time.Second, 10)

	mockSource.On("Fetch", mock.Anything, "USD").Return(0.0, errors.New("upstream down")).Once()
	mockStore.On("Latest", mock.Anything, "USD").Return(domain.RateObservation{}, domain.ErrNoObservations).Once()

	view, err := o.Execute(context.Background(), "USD")

	require.NoError(t, err)
	require.Equal(t, OutcomeUnavailable, view.Outcome)
	require.Nil(t, view.CurrentRate)
	require.Empty(t, view.LastRates)
	require.NotEmpty(t, view.Message)

	mockStore.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockSource.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestOrchestrator_Execute_PersistFails_FallsBack(t *testing.T) {
	mockSource := new(MockRateSource)
	mockStore := new(MockObservationStore)
	o, gate, clock := newTestOrchestrator(mockSource, mockStore, 10*time.Second, 10)

	ctx := context.Background()
	stored := observation(1, 92.5, clock.Now().Add(-time.Hour))

	mockSource.On("Fetch", mock.Anything, "USD").Return(93.25, nil).Once()
	mockStore.On("Save", mock.Anything, "USD", 93.25).Return(domain.RateObservation{}, errors.New("db unreachable")).Once()
	mockStore.On("Latest", mock.Anything, "USD").Return(stored, nil).Once()
	mockStore.On("History", mock.Anything, "USD", 10, false).Return([]domain.RateObservation{stored}, nil).Once()

	view, err := o.Execute(ctx, "USD")

	require.NoError(t, err)
	require.Equal(t, OutcomeDegraded, view.Outcome)
	// The fetched but unpersisted rate must not be reported as current.
	require.InDelta(t, 92.5, *view.CurrentRate, 0)

	// A store outage must not mark the gate as satisfied.
	require.True(t, gate.TryAcquire(ctx, "USD").Allowed)
	mockSource.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestOrchestrator_Execute_DoubleFailure(t *testing.T) {
	mockSource := new(MockRateSource)
	mockStore := new(MockObservationStore)
	o, _, _ := newTestOrchestrator(mockSource, mockStore, 10*time.Second, 10)

	mockSource.On("Fetch", mock.Anything, "USD").Return(0.0, errors.New("upstream down")).Once()
	mockStore.On("Latest", mock.Anything, "USD").Return(domain.RateObservation{}, errors.New("db unreachable")).Once()

	view, err := o.Execute(context.Background(), "USD")

	require.NoError(t, err)
	require.Equal(t, OutcomeFailed, view.Outcome)
	require.Nil(t, view.CurrentRate)
	require.Empty(t, view.LastRates)
	require.Contains(t, view.Message, "upstream down")
	require.Contains(t, view.FallbackMessage, "db unreachable")

	mockSource.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestOrchestrator_Execute_HistoryReadFailsAfterSave(t *testing.T) {
	mockSource := new(MockRateSource)
	mockStore := new(MockObservationStore)
	o, _, clock := newTestOrchestrator(mockSource, mockStore, 10*time.Second, 10)

	saved := observation(1, 93.25, clock.Now())
	mockSource.On("Fetch", mock.Anything, "USD").Return(93.25, nil).Once()
	mockStore.On("Save", mock.Anything, "USD", 93.25).Return(saved, nil).Once()
	mockStore.On("History", mock.Anything, "USD", 10, false).Return(nil, errors.New("db hiccup")).Once()

	view, err := o.Execute(context.Background(), "USD")

	// The rate is durable, the response degrades to the saved entry only.
	require.NoError(t, err)
	require.Equal(t, OutcomeFresh, view.Outcome)
	require.Len(t, view.LastRates, 1)
	require.Equal(t, "93.2500", view.LastRates[0].Rate)
}

// Concrete walkthrough: cooldown 10s, history limit 2.
func TestOrchestrator_Scenario_FreshThrottledDegraded(t *testing.T) {
	mockSource := new(MockRateSource)
	mockStore := new(MockObservationStore)
	o, _, clock := newTestOrchestrator(mockSource, mockStore, 10*time.Second, 2)

	ctx := context.Background()
	saved := observation(1, 93.0, clock.Now())
	history := []domain.RateObservation{saved}

	// t=0: fetch succeeds and is persisted.
	mockSource.On("Fetch", mock.Anything, "USD").Return(93.0, nil).Once()
	mockStore.On("Save", mock.Anything, "USD", 93.0).Return(saved, nil).Once()
	mockStore.On("History", mock.Anything, "USD", 2, false).Return(history, nil)

	view, err := o.Execute(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, OutcomeFresh, view.Outcome)
	require.InDelta(t, 93.0, *view.CurrentRate, 0)
	require.Len(t, view.LastRates, 1)

	// t=3: inside the window, throttled with 7 seconds to wait.
	clock.Advance(3 * time.Second)
	view, err = o.Execute(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, OutcomeThrottled, view.Outcome)
	require.Equal(t, 7, view.WaitSeconds)
	require.Len(t, view.LastRates, 1)

	// t=11: window passed but the upstream is down, stored rate served.
	clock.Advance(8 * time.Second)
	mockSource.On("Fetch", mock.Anything, "USD").Return(0.0, errors.New("upstream down")).Once()
	mockStore.On("Latest", mock.Anything, "USD").Return(saved, nil).Once()

	view, err = o.Execute(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, OutcomeDegraded, view.Outcome)
	require.InDelta(t, 93.0, *view.CurrentRate, 0)
	require.Equal(t, "database", view.DataSource)

	mockSource.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}
