package httpclient

import (
	"sync"
	"time"
)

// CircuitState represents the state of one host's circuit.
type CircuitState int

const (
	// CircuitClosed is the normal state where requests are allowed.
	CircuitClosed CircuitState = iota
	// CircuitOpen is the state where requests fail fast.
	CircuitOpen
	// CircuitHalfOpen allows a single trial request through.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	defaultFailureThreshold = 5
	defaultRecoveryTimeout  = 30 * time.Second
)

// breaker tracks consecutive failures per host and fails fast once a host
// looks down, with a half-open trial after the recovery timeout.
type breaker struct {
	mu       sync.Mutex
	circuits map[string]*circuit

	failureThreshold int
	recoveryTimeout  time.Duration
}

type circuit struct {
	state        CircuitState
	failures     int
	openedAt     time.Time
	trialAllowed bool
}

func newBreaker(failureThreshold int, recoveryTimeout time.Duration) *breaker {
	if failureThreshold <= 0 {
		failureThreshold = defaultFailureThreshold
	}
	if recoveryTimeout <= 0 {
		recoveryTimeout = defaultRecoveryTimeout
	}
	return &breaker{
		circuits:         make(map[string]*circuit),
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
	}
}

// allow reports whether a request to host may proceed.
func (b *breaker) allow(host string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.circuits[host]
	if !ok {
		return nil
	}

	switch c.state {
	case CircuitClosed:
		return nil
	case CircuitOpen:
		if time.Since(c.openedAt) >= b.recoveryTimeout {
			c.state = CircuitHalfOpen
			c.trialAllowed = true
		} else {
			return ErrCircuitOpen
		}
		fallthrough
	case CircuitHalfOpen:
		if c.trialAllowed {
			c.trialAllowed = false
			return nil
		}
		return ErrCircuitOpen
	}
	return nil
}

// recordSuccess closes the circuit for host.
func (b *breaker) recordSuccess(host string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.circuits, host)
}

// recordFailure counts a failure and opens the circuit at the threshold.
func (b *breaker) recordFailure(host string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.circuits[host]
	if !ok {
		c = &circuit{state: CircuitClosed}
		b.circuits[host] = c
	}

	if c.state == CircuitHalfOpen {
		c.state = CircuitOpen
		c.openedAt = time.Now()
		return
	}

	c.failures++
	if c.failures >= b.failureThreshold {
		c.state = CircuitOpen
		c.openedAt = time.Now()
	}
}

// stateOf returns the current circuit state for host.
func (b *breaker) stateOf(host string) CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.circuits[host]; ok {
		return c.state
	}
	return CircuitClosed
}
