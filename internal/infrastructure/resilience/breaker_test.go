package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFetch = errors.New("fetch failed")

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	breaker := New("challenge", Settings{FailureThreshold: 3})

	for i := 0; i < 10; i++ {
		require.NoError(t, breaker.Do(func() error { return nil }))
	}
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	breaker := New("challenge", Settings{FailureThreshold: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		assert.Equal(t, errFetch, breaker.Do(func() error { return errFetch }))
	}
	assert.Equal(t, StateOpen, breaker.State())

	// Rejected without invoking the call.
	called := false
	err := breaker.Do(func() error {
		called = true
		return nil
	})
	assert.Equal(t, ErrOpen, err)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailureStreak(t *testing.T) {
	breaker := New("challenge", Settings{FailureThreshold: 3, Cooldown: time.Minute})

	breaker.Do(func() error { return errFetch })
	breaker.Do(func() error { return errFetch })
	breaker.Do(func() error { return nil })
	breaker.Do(func() error { return errFetch })
	breaker.Do(func() error { return errFetch })

	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	breaker := New("challenge", Settings{
		FailureThreshold: 2,
		Probes:           2,
		Cooldown:         20 * time.Millisecond,
	})

	breaker.Do(func() error { return errFetch })
	breaker.Do(func() error { return errFetch })
	require.Equal(t, StateOpen, breaker.State())

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, StateHalfOpen, breaker.State())

	require.NoError(t, breaker.Do(func() error { return nil }))
	require.NoError(t, breaker.Do(func() error { return nil }))
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	breaker := New("challenge", Settings{
		FailureThreshold: 2,
		Cooldown:         20 * time.Millisecond,
	})

	breaker.Do(func() error { return errFetch })
	breaker.Do(func() error { return errFetch })
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, StateHalfOpen, breaker.State())

	assert.Equal(t, errFetch, breaker.Do(func() error { return errFetch }))
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerStateChangeCallback(t *testing.T) {
	var transitions []string
	breaker := New("challenge", Settings{
		FailureThreshold: 2,
		Cooldown:         10 * time.Millisecond,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	breaker.Do(func() error { return errFetch })
	breaker.Do(func() error { return errFetch })
	time.Sleep(20 * time.Millisecond)
	breaker.State()

	assert.Contains(t, transitions, "closed->open")
	assert.Contains(t, transitions, "open->half-open")
}
