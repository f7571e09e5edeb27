// Package source fetches manifest feeds and resolves them into one history.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/time/rate"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
)

// Well-known feed ids.
const (
	Archive   = "archive"
	Live      = "live"
	Patchline = "patchline"
)

// Fetcher returns the raw bytes of a feed.
type Fetcher interface {
	Fetch(ctx context.Context, sourceID string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, sourceID string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, sourceID string) ([]byte, error) {
	return f(ctx, sourceID)
}

// HTTPOptions tunes HTTPFetcher.
type HTTPOptions struct {
	Timeout   time.Duration
	Retries   int
	RateLimit float64
	UserAgent string

	// Backoff overrides the retry backoff. nil means exponential with jitter.
	Backoff pester.BackoffStrategy
}

// HTTPFetcher fetches feeds over HTTP with retries and a shared rate limit.
type HTTPFetcher struct {
	endpoints map[string]string
	client    *pester.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewHTTPFetcher creates a fetcher serving the given feed id to URL table.
func NewHTTPFetcher(endpoints map[string]string, opts HTTPOptions) *HTTPFetcher {
	client := pester.NewExtendedClient(&http.Client{Timeout: opts.Timeout})
	client.MaxRetries = opts.Retries
	if client.MaxRetries < 1 {
		client.MaxRetries = 1
	}
	client.Backoff = pester.ExponentialJitterBackoff
	if opts.Backoff != nil {
		client.Backoff = opts.Backoff
	}
	client.Timeout = opts.Timeout

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	eps := make(map[string]string, len(endpoints))
	for id, url := range endpoints {
		if url != "" {
			eps[id] = url
		}
	}

	return &HTTPFetcher{
		endpoints: eps,
		client:    client,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: opts.UserAgent,
	}
}

// Has reports whether a URL is configured for sourceID.
func (f *HTTPFetcher) Has(sourceID string) bool {
	_, ok := f.endpoints[sourceID]
	return ok
}

// Fetch performs a GET against the feed's URL. Transport failures and non-2xx
// responses become SourceUnavailableError.
func (f *HTTPFetcher) Fetch(ctx context.Context, sourceID string) ([]byte, error) {
	url, ok := f.endpoints[sourceID]
	if !ok {
		return nil, fmt.Errorf("%w: no URL configured for source %q", oerrors.ErrNotFound, sourceID)
	}

	unavailable := func(err error) error {
		return &oerrors.SourceUnavailableError{Source: sourceID, Timeout: isTimeout(err), Cause: err}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, unavailable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", sourceID, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unavailable(fmt.Errorf("GET %s: %s", url, resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable(fmt.Errorf("reading body: %w", err))
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
