package httpclient

import (
	"errors"
	"fmt"
	"time"
)

// ErrCircuitOpen is returned when the circuit for a host is open and the
// request fails fast without being attempted.
var ErrCircuitOpen = errors.New("httpclient: circuit open")

// StatusError is a non-2xx response surfaced as an error. The body is kept
// for diagnostic pass-through.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpclient: status %d", e.StatusCode)
}

// RateLimitedError indicates the server throttled the request (429/503).
type RateLimitedError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("httpclient: rate limited (status %d), retry after %v", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("httpclient: rate limited (status %d)", e.StatusCode)
}
