package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOrigin = errors.New("origin down")

// fakeClock lets tests move time without sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(settings Settings) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	b := New("origin", settings)
	b.now = clock.Now
	b.expiry = clock.Now().Add(b.settings.Interval)
	return b, clock
}

func run(b *Breaker, outcomes ...error) {
	for _, out := range outcomes {
		_ = b.Execute(func() error { return out })
	}
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		settings      Settings
		outcomes      []error
		expectedState State
	}{
		{
			name:          "stays closed on successes",
			settings:      Settings{},
			outcomes:      []error{nil, nil, nil},
			expectedState: StateClosed,
		},
		{
			name: "opens after consecutive failures",
			settings: Settings{
				ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 3 },
			},
			outcomes:      []error{errOrigin, errOrigin, errOrigin},
			expectedState: StateOpen,
		},
		{
			name: "success resets the failure streak",
			settings: Settings{
				ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 3 },
			},
			outcomes:      []error{errOrigin, errOrigin, nil, errOrigin, errOrigin},
			expectedState: StateClosed,
		},
		{
			name: "ignored errors do not trip",
			settings: Settings{
				ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
				IsFailure: func(err error) bool {
					return err != nil && !errors.Is(err, context.Canceled)
				},
			},
			outcomes:      []error{context.Canceled, context.Canceled},
			expectedState: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker, _ := newTestBreaker(tt.settings)
			run(breaker, tt.outcomes...)
			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	breaker, _ := newTestBreaker(Settings{
		Timeout:     time.Minute,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 2 },
	})
	run(breaker, errOrigin, errOrigin)
	require.Equal(t, StateOpen, breaker.State())

	called := false
	err := breaker.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	var transitions []string
	breaker, clock := newTestBreaker(Settings{
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
		OnStateChange: func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	run(breaker, errOrigin)
	require.Equal(t, StateOpen, breaker.State())

	clock.Advance(31 * time.Second)
	assert.Equal(t, StateHalfOpen, breaker.State())

	t.Run("probe quota is enforced", func(t *testing.T) {
		// Two probes admitted, a third concurrent one refused.
		gate := make(chan struct{})
		done := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				done <- breaker.Execute(func() error { <-gate; return nil })
			}()
		}
		require.Eventually(t, func() bool { return breaker.Counts().Requests == 2 }, time.Second, time.Millisecond)

		err := breaker.Execute(func() error { return nil })
		assert.ErrorIs(t, err, ErrTooManyRequests)

		close(gate)
		require.NoError(t, <-done)
		require.NoError(t, <-done)
	})

	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	breaker, clock := newTestBreaker(Settings{
		Timeout:     time.Second,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})
	run(breaker, errOrigin)
	clock.Advance(2 * time.Second)
	require.Equal(t, StateHalfOpen, breaker.State())

	run(breaker, errOrigin)
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerIntervalClearsCounts(t *testing.T) {
	breaker, clock := newTestBreaker(Settings{Interval: time.Minute})
	run(breaker, nil, errOrigin)
	assert.Equal(t, uint32(2), breaker.Counts().Requests)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, Counts{}, breaker.Counts())
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	breaker, _ := newTestBreaker(Settings{})

	assert.Panics(t, func() {
		_ = breaker.Execute(func() error { panic("boom") })
	})
	assert.Equal(t, uint32(1), breaker.Counts().TotalFailures)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
