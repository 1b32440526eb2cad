package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"medinfo-go-app/internal/helpers"
)

// Limiter gates outgoing requests for one upstream source. *rate.Limiter
// satisfies it; tests substitute NopLimiter instead of touching global
// state.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NopLimiter never waits.
type NopLimiter struct{}

func (NopLimiter) Wait(context.Context) error { return nil }

// NewLimiter builds a token-bucket limiter for a sustained requests-per-
// second rate.
func NewLimiter(requestsPerSecond float64, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Fetcher retrieves raw documents from one upstream source, rate limited
// and cached. It returns bytes only; interpreting them is the extractors'
// job.
type Fetcher struct {
	name    string
	client  *http.Client
	limiter Limiter
	cache   helpers.Cache
	ttl     time.Duration
}

func New(name string, limiter Limiter, cache helpers.Cache, ttl time.Duration) *Fetcher {
	return &Fetcher{
		name:    name,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		cache:   cache,
		ttl:     ttl,
	}
}

// Get fetches one URL, serving from cache when a fresh copy exists. The
// cache key is "<source>:<url>" so independent sources never collide.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	cacheKey := f.name + ":" + url
	if cached, ok := f.cache.Get(cacheKey); ok {
		return []byte(cached), nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("Error fetching from %s: %v\n", f.name, err)
		return nil, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Printf("Error closing %s response body: %v\n", f.name, err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned non-OK status: %v", f.name, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(cacheKey, string(body), f.ttl); err != nil {
		log.Printf("Error caching %s response: %v\n", f.name, err)
	}
	return body, nil
}
