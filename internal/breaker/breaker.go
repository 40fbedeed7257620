// Package breaker implements a small circuit breaker used in front of the
// upstream provider clients, so a flapping provider is skipped cheaply instead
// of burning its full timeout on every request.
package breaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the circuit rejects a call without running it.
var ErrOpen = errors.New("circuit breaker open")

// State is the circuit state (Closed, Open, HalfOpen).
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config holds breaker parameters. Zero values select the defaults.
type Config struct {
	FailureThreshold int           // consecutive failures before opening (default 5)
	SuccessThreshold int           // half-open successes before closing (default 2)
	Timeout          time.Duration // open duration before probing (default 30s)
	OnStateChange    func(from, to State)
}

// Breaker opens after repeated failures and allows probe calls in half-open
// state. Safe for concurrent use.
type Breaker struct {
	mu              sync.Mutex
	state           State
	failureCount    int
	successCount    int
	lastFailureTime time.Time
	cfg             Config
}

// New creates a Breaker with the given config.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Breaker{state: StateClosed, cfg: cfg}
}

// Call runs fn when the circuit allows it. When open and the timeout has not
// elapsed, returns ErrOpen without running fn; otherwise transitions to
// half-open and probes. fn's outcome drives the state machine.
func (b *Breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.state == StateOpen {
		if time.Since(b.lastFailureTime) < b.cfg.Timeout {
			b.mu.Unlock()
			return ErrOpen
		}
		b.transition(StateHalfOpen)
		b.successCount = 0
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failureCount++
		b.lastFailureTime = time.Now()
		if b.state == StateHalfOpen || b.failureCount >= b.cfg.FailureThreshold {
			b.transition(StateOpen)
			b.failureCount = 0
		}
		return err
	}

	b.successCount++
	b.failureCount = 0
	if b.state == StateHalfOpen && b.successCount >= b.cfg.SuccessThreshold {
		b.transition(StateClosed)
		b.successCount = 0
	}
	return nil
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// transition changes state and fires the callback. Caller holds the mutex.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
