package httpclient

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// hostLimiter applies a token-bucket rate limit per destination host. One
// limiter is created lazily per host; hosts without a configured rate share
// the default.
type hostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	defaultRPS float64
	rates      map[string]float64
}

// newHostLimiter creates a limiter set. rates maps hostnames to requests per
// second; defaultRPS applies to everything else. A rate of 0 disables
// limiting for that host.
func newHostLimiter(defaultRPS float64, rates map[string]float64) *hostLimiter {
	if rates == nil {
		rates = make(map[string]float64)
	}
	return &hostLimiter{
		limiters:   make(map[string]*rate.Limiter),
		defaultRPS: defaultRPS,
		rates:      rates,
	}
}

// wait blocks until the host's bucket grants a token or ctx is done.
func (hl *hostLimiter) wait(ctx context.Context, urlStr string) error {
	limiter := hl.limiterFor(hostOf(urlStr))
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

func (hl *hostLimiter) limiterFor(host string) *rate.Limiter {
	rps, ok := hl.rates[host]
	if !ok {
		rps = hl.defaultRPS
	}
	if rps <= 0 {
		return nil
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()
	if l, ok := hl.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(rps), 1)
	hl.limiters[host] = l
	return l
}

// hostOf extracts the hostname from a URL string, without port.
func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Hostname()
}
