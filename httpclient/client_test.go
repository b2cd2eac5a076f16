package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ytbridge/retry"
)

func testConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Retry: retry.Config{
			MaxRetries:     2,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
			Multiplier:     2.0,
		},
		UserAgent:        "ytbridge-test",
		DefaultRPS:       0, // no rate limiting in tests
		FailureThreshold: 3,
		RecoveryTimeout:  50 * time.Millisecond,
	}
}

func TestGetSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "ytbridge-test" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte("hello"))
	}))
	defer ts.Close()

	c := New(testConfig())
	defer c.Close()

	resp, err := c.Get(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(resp.Body) != "hello" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestGetRetriesOn5xx(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer ts.Close()

	c := New(testConfig())
	defer c.Close()

	resp, err := c.Get(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Get failed after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if string(resp.Body) != "recovered" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestGetDoesNotRetry4xx(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := New(testConfig())
	defer c.Close()

	_, err := c.Get(context.Background(), ts.URL)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want StatusError 404", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (4xx is permanent)", attempts)
	}
}

func TestCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound) // permanent: one failure per Do
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.FailureThreshold = 2
	c := New(cfg)
	defer c.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := c.Get(ctx, ts.URL); err == nil {
			t.Fatal("expected failure")
		}
	}

	if got := c.CircuitState(ts.URL); got != CircuitOpen {
		t.Fatalf("circuit state = %v, want open", got)
	}
	if _, err := c.Get(ctx, ts.URL); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitHalfOpenRecovery(t *testing.T) {
	healthy := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy {
			w.Write([]byte("ok"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.FailureThreshold = 1
	cfg.RecoveryTimeout = 10 * time.Millisecond
	c := New(cfg)
	defer c.Close()

	ctx := context.Background()
	if _, err := c.Get(ctx, ts.URL); err == nil {
		t.Fatal("expected initial failure")
	}
	if got := c.CircuitState(ts.URL); got != CircuitOpen {
		t.Fatalf("circuit state = %v, want open", got)
	}

	healthy = true
	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, ts.URL); err != nil {
		t.Fatalf("trial request failed: %v", err)
	}
	if got := c.CircuitState(ts.URL); got != CircuitClosed {
		t.Errorf("circuit state = %v, want closed after recovery", got)
	}
}

func TestParseRetryAfterSeconds(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "7")
	if got := parseRetryAfter(h); got != 7*time.Second {
		t.Errorf("parseRetryAfter = %v, want 7s", got)
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/api/timedtext?v=x", "www.youtube.com"},
		{"http://localhost:8080/path", "localhost"},
		{"://bad", "unknown"},
	}
	for _, tt := range tests {
		if got := hostOf(tt.url); got != tt.want {
			t.Errorf("hostOf(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
