package upstreamapi

import (
	"errors"
	"sync"
	"time"

	"github.com/abw750/ferryAPI3/internal/domain/shared"
)

// circuitState is the state of a per-feed circuit breaker.
type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// errCircuitOpen is returned when a feed's breaker is open; the caller
// treats this exactly like an exhausted-retries transient failure.
var errCircuitOpen = errors.New("upstreamapi: circuit breaker open")

// circuitBreaker trips after a run of consecutive failures on one feed so a
// persistently down upstream endpoint stops paying the full retry cost on
// every request and degrades immediately instead.
type circuitBreaker struct {
	maxFailures     int
	timeout         time.Duration
	mu              sync.Mutex
	state           circuitState
	failureCount    int
	lastFailureTime time.Time
	clock           shared.Clock
}

func newCircuitBreaker(maxFailures int, timeout time.Duration, clock shared.Clock) *circuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &circuitBreaker{maxFailures: maxFailures, timeout: timeout, clock: clock}
}

// call executes fn under circuit-breaker protection. The function runs
// without the lock held so long-running retry loops don't block other
// feeds' breaker state checks.
func (cb *circuitBreaker) call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == circuitOpen {
		if cb.clock.Now().Sub(cb.lastFailureTime) >= cb.timeout {
			cb.state = circuitHalfOpen
		} else {
			cb.mu.Unlock()
			return errCircuitOpen
		}
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

func (cb *circuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailureTime = cb.clock.Now()
	if cb.state == circuitHalfOpen {
		cb.state = circuitOpen
		return
	}
	if cb.failureCount >= cb.maxFailures {
		cb.state = circuitOpen
	}
}

func (cb *circuitBreaker) onSuccess() {
	cb.failureCount = 0
	if cb.state == circuitHalfOpen {
		cb.state = circuitClosed
	}
}

func (cb *circuitBreaker) State() circuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
