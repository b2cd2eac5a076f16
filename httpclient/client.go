// Package httpclient provides the resilient HTTP client used for outbound
// provider calls (caption fetches, metadata lookups). It layers retry with
// backoff, per-host token-bucket rate limiting, and a per-host circuit
// breaker over a pooled net/http transport.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"ytbridge/retry"
)

// Config holds client configuration.
type Config struct {
	// Timeout for individual HTTP requests.
	Timeout time.Duration

	// Retry configuration for transient failures.
	Retry retry.Config

	// UserAgent sent with every request.
	UserAgent string

	// DefaultRPS is the per-host request rate when no explicit rate is set.
	// 0 disables rate limiting.
	DefaultRPS float64

	// HostRates overrides the rate for specific hosts.
	HostRates map[string]float64

	// FailureThreshold is the consecutive-failure count that opens a host's
	// circuit.
	FailureThreshold int

	// RecoveryTimeout is how long an open circuit waits before a trial.
	RecoveryTimeout time.Duration
}

// DefaultConfig returns the defaults used for YouTube-adjacent endpoints.
func DefaultConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		Retry:            retry.DefaultConfig(),
		UserAgent:        "ytbridge/1.0",
		DefaultRPS:       5.0,
		FailureThreshold: defaultFailureThreshold,
		RecoveryTimeout:  defaultRecoveryTimeout,
	}
}

// Client is a resilient HTTP client. Safe for concurrent use.
type Client struct {
	base    *http.Client
	config  *Config
	limiter *hostLimiter
	breaker *breaker
}

// New creates a client with the given configuration. A nil config uses
// DefaultConfig.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &Client{
		base: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config:  cfg,
		limiter: newHostLimiter(cfg.DefaultRPS, cfg.HostRates),
		breaker: newBreaker(cfg.FailureThreshold, cfg.RecoveryTimeout),
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Get performs a GET request with retry, rate limiting, and circuit breaking.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Do performs a request. Transient failures (network errors, 5xx, 429) are
// retried per the configured policy; 4xx responses other than 429 are
// returned immediately as *StatusError.
func (c *Client) Do(ctx context.Context, method, url string, headers map[string]string) (*Response, error) {
	host := hostOf(url)

	if err := c.breaker.allow(host); err != nil {
		return nil, err
	}
	if err := c.limiter.wait(ctx, url); err != nil {
		c.breaker.recordFailure(host)
		return nil, err
	}

	var out *Response
	err := retry.Do(ctx, c.config.Retry, isRetryable, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("request %s: %w", host, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode == http.StatusServiceUnavailable {
			return &RateLimitedError{
				StatusCode: resp.StatusCode,
				RetryAfter: parseRetryAfter(resp.Header),
			}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body from %s: %w", host, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &StatusError{StatusCode: resp.StatusCode, Body: body}
		}

		out = &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}
		return nil
	})

	if err != nil {
		c.breaker.recordFailure(host)
		return nil, err
	}

	c.breaker.recordSuccess(host)
	return out, nil
}

// CircuitState reports the circuit state for the host of url.
func (c *Client) CircuitState(url string) CircuitState {
	return c.breaker.stateOf(hostOf(url))
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.base.CloseIdleConnections()
	return nil
}

// isRetryable classifies errors for the retry loop: rate limiting and 5xx
// are transient, other status errors are permanent.
func isRetryable(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}
	if _, ok := err.(*RateLimitedError); ok {
		return true
	}
	if statusErr, ok := err.(*StatusError); ok {
		return statusErr.StatusCode >= 500
	}
	return true
}

// parseRetryAfter reads the Retry-After header as seconds or an HTTP date.
func parseRetryAfter(header http.Header) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t)
	}
	return 0
}
