// Package resilience provides a circuit breaker guarding calls to the remote
// challenge service. When the origin is down the breaker opens and content
// fetches fail fast instead of stacking timeouts behind every render.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned while the breaker rejects calls outright.
var ErrOpen = errors.New("circuit open")

// State is the breaker's position.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings tunes the breaker. Zero values get production defaults.
type Settings struct {
	// FailureThreshold is the consecutive failure count that opens the
	// breaker.
	FailureThreshold uint32
	// Probes is how many trial calls the half-open state admits.
	Probes uint32
	// Cooldown is how long the open state lasts before probing.
	Cooldown time.Duration
	// OnStateChange is invoked on every transition.
	OnStateChange func(name string, from, to State)
}

// Breaker is a three-state circuit breaker. Safe for concurrent use.
type Breaker struct {
	name     string
	settings Settings

	mu         sync.Mutex
	state      State
	generation uint64
	inFlight   uint32
	successes  uint32
	failures   uint32
	openedAt   time.Time
}

// New creates a breaker with the given settings.
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	if settings.Probes == 0 {
		settings.Probes = 1
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	return &Breaker{name: name, settings: settings}
}

// Name returns the breaker's name.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the breaker's current position, advancing open to half-open
// once the cooldown has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(time.Now())
	return b.state
}

// Do runs fn through the breaker. It returns ErrOpen without calling fn while
// the breaker is rejecting, and fn's error otherwise.
func (b *Breaker) Do(fn func() error) error {
	generation, err := b.admit()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			b.record(generation, false)
			panic(r)
		}
	}()

	err = fn()
	b.record(generation, err == nil)
	return err
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance(time.Now())

	switch b.state {
	case StateOpen:
		return b.generation, ErrOpen
	case StateHalfOpen:
		if b.inFlight >= b.settings.Probes {
			return b.generation, ErrOpen
		}
	}

	b.inFlight++
	return b.generation, nil
}

func (b *Breaker) record(generation uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.advance(now)
	if b.generation != generation {
		// The breaker moved on while this call was in flight.
		return
	}
	if b.inFlight > 0 {
		b.inFlight--
	}

	if success {
		b.failures = 0
		b.successes++
		if b.state == StateHalfOpen && b.successes >= b.settings.Probes {
			b.transition(StateClosed, now)
		}
		return
	}

	b.successes = 0
	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.settings.FailureThreshold {
		b.transition(StateOpen, now)
	}
}

// advance moves open to half-open after the cooldown. Callers hold b.mu.
func (b *Breaker) advance(now time.Time) {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.settings.Cooldown {
		b.transition(StateHalfOpen, now)
	}
}

// transition changes state and resets counters. Callers hold b.mu.
func (b *Breaker) transition(to State, now time.Time) {
	from := b.state
	if from == to {
		return
	}

	b.state = to
	b.generation++
	b.inFlight = 0
	b.successes = 0
	b.failures = 0
	if to == StateOpen {
		b.openedAt = now
	}

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
