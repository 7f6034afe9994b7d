package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alorle/hls-sorter/cache"
	"github.com/alorle/hls-sorter/circuitbreaker"
	"github.com/alorle/hls-sorter/metrics"
)

const (
	// DefaultTimeout bounds a whole upstream request, redirects included
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is sent when Options.UserAgent is empty
	DefaultUserAgent = "hlsort/1.0"
	// DefaultMaxBytes caps the size of a fetched playlist
	DefaultMaxBytes = 16 << 20
)

var (
	// ErrUnexpectedStatus is wrapped by a TransportError for any status other than 200
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrTooLarge is wrapped by a TransportError when the body exceeds the size cap
	ErrTooLarge = errors.New("response body too large")
)

// TransportError describes a failed upstream fetch. StatusCode is zero
// when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v %d", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Options configures a Fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64

	// Storage may be nil, which disables caching
	Storage  cache.Storage
	CacheTTL time.Duration

	Breaker circuitbreaker.Config
	Logger  *slog.Logger
}

// Result is the content of a playlist and where it came from.
type Result struct {
	Content   []byte
	FromCache bool
	Stale     bool
}

// Fetcher retrieves master playlists over HTTP, guarded by one circuit
// breaker per upstream host and backed by an optional cache.
type Fetcher struct {
	client    *http.Client
	transport *http.Transport
	userAgent string
	maxBytes  int64
	storage   cache.Storage
	cacheTTL  time.Duration
	breakers  *circuitbreaker.Group
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Fetcher with its own connection pool. Call Close when done.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	breaker := opts.Breaker
	if breaker.Logger == nil {
		breaker.Logger = logger
	}
	next := breaker.OnStateChange
	breaker.OnStateChange = func(host string, from, to circuitbreaker.State) {
		metrics.SetCircuitBreakerState(host, to.String())
		if to == circuitbreaker.StateOpen {
			metrics.RecordCircuitBreakerTrip(host)
		}
		if next != nil {
			next(host, from, to)
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &Fetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		transport: transport,
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
		storage:   opts.Storage,
		cacheTTL:  opts.CacheTTL,
		breakers:  circuitbreaker.NewGroup(breaker),
		logger:    logger,
		now:       time.Now,
	}
}

// Close releases idle upstream connections.
func (f *Fetcher) Close() {
	f.transport.CloseIdleConnections()
}

// Fetch performs a GET and returns the body of a 200 response. Only
// transport failures and 5xx responses count against the host's breaker.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &TransportError{URL: rawURL, Err: errors.New("invalid http(s) URL")}
	}

	start := time.Now()
	var (
		content  []byte
		fetchErr error
	)
	err = f.breakers.Get(u.Host).Execute(func() error {
		content, fetchErr = f.get(ctx, rawURL)
		if countsAsFailure(fetchErr) {
			return fetchErr
		}
		return nil
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, circuitbreaker.ErrHalfOpenLimitReached):
		metrics.RecordFetch("circuit_open", time.Since(start))
		f.logger.Warn("upstream rejected by circuit breaker", "url", rawURL, "host", u.Host)
		return nil, &TransportError{URL: rawURL, Err: err}
	case fetchErr != nil:
		metrics.RecordFetch("error", time.Since(start))
		f.logger.Warn("upstream fetch failed", "url", rawURL, "error", fetchErr)
		return nil, fetchErr
	}

	metrics.RecordFetch("success", time.Since(start))
	f.logger.Debug("fetched playlist", "url", rawURL, "bytes", len(content), "duration", time.Since(start))
	return content, nil
}

func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	var te *TransportError
	if errors.As(err, &te) && te.StatusCode != 0 {
		return te.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/vnd.apple.mpegurl, application/x-mpegurl, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			f.logger.Warn("failed to close response body", "url", rawURL, "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: rawURL, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if int64(len(content)) > f.maxBytes {
		return nil, &TransportError{URL: rawURL, Err: ErrTooLarge}
	}
	return content, nil
}

// FetchWithCache serves a fresh cache entry when there is one. Otherwise it
// fetches, writes the result through to the cache, and falls back to a
// stale entry when the fetch fails.
func (f *Fetcher) FetchWithCache(ctx context.Context, rawURL string) (Result, error) {
	if f.storage == nil {
		content, err := f.Fetch(ctx, rawURL)
		if err != nil {
			return Result{}, err
		}
		return Result{Content: content}, nil
	}

	key := cache.KeyFromURL(rawURL)
	entry, cacheErr := f.storage.Get(key)
	if cacheErr == nil {
		expired, expErr := f.storage.IsExpired(key, f.cacheTTL)
		switch {
		case expErr != nil:
			f.logger.Warn("cache expiration check failed", "url", rawURL, "error", expErr)
		case !expired:
			metrics.RecordCacheResult("hit")
			f.logger.Debug("serving fresh cache", "url", rawURL, "cached_at", entry.Timestamp, "age", f.now().Sub(entry.Timestamp))
			return Result{Content: entry.Content, FromCache: true}, nil
		}
	} else if !errors.Is(cacheErr, cache.ErrNotFound) {
		f.logger.Warn("cache read failed", "url", rawURL, "error", cacheErr)
	}

	content, fetchErr := f.Fetch(ctx, rawURL)
	if fetchErr == nil {
		metrics.RecordCacheResult("miss")
		if setErr := f.storage.Set(key, content); setErr != nil {
			f.logger.Warn("failed to update cache", "url", rawURL, "error", setErr)
		}
		return Result{Content: content}, nil
	}

	if cacheErr != nil || ctx.Err() != nil {
		return Result{}, fetchErr
	}

	metrics.RecordCacheResult("stale")
	f.logger.Warn("serving stale cache", "url", rawURL, "cached_at", entry.Timestamp, "error", fetchErr)
	return Result{Content: entry.Content, FromCache: true, Stale: true}, nil
}

// Load reads a playlist from an http(s) URL, a file:// URL or a local path.
// Remote sources go through FetchWithCache.
func (f *Fetcher) Load(ctx context.Context, source string) (Result, error) {
	if IsRemote(source) {
		return f.FetchWithCache(ctx, source)
	}

	path := source
	if strings.HasPrefix(source, "file://") {
		u, err := url.Parse(source)
		if err != nil {
			return Result{}, fmt.Errorf("invalid file URL %q: %w", source, err)
		}
		path = u.Path
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read playlist: %w", err)
	}
	return Result{Content: content}, nil
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
