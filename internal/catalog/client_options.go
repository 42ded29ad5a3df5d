package catalog

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultCacheTTL is how long a cached search result is served before a
	// fresh outbound call is issued.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheMaxEntries bounds the in-memory search cache.
	DefaultCacheMaxEntries = 256

	// DefaultRequestTimeout bounds every outbound catalog call.
	DefaultRequestTimeout = 15 * time.Second
)

// Option defines a functional option for configuring the catalog Client.
type Option func(*Options) error

// Options contains optional configuration for the catalog Client.
type Options struct {
	// token is the bearer token sent with catalog requests when configured.
	token string

	// httpClient issues outbound requests; replaceable in tests.
	httpClient *http.Client

	// ttl is the time-to-live for cached search results.
	ttl time.Duration

	// maxEntries bounds the search cache.
	maxEntries int
}

func NewOptions(opts ...Option) (Options, error) {
	// Default options.
	o := Options{
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
		ttl:        DefaultCacheTTL,
		maxEntries: DefaultCacheMaxEntries,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}

	return o, nil
}

// WithToken sets the bearer token for catalog requests.
func WithToken(token string) Option {
	return func(o *Options) error {
		o.token = strings.TrimSpace(token)
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for outbound requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) error {
		if client == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		o.httpClient = client
		return nil
	}
}

// WithCacheTTL sets the search cache entry time-to-live.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *Options) error {
		if ttl <= 0 {
			return fmt.Errorf("TTL must be positive, got %v", ttl)
		}
		o.ttl = ttl
		return nil
	}
}

// WithCacheMaxEntries sets the maximum number of cached search results.
func WithCacheMaxEntries(n int) Option {
	return func(o *Options) error {
		if n <= 0 {
			return fmt.Errorf("max cache entries must be positive, got %d", n)
		}
		o.maxEntries = n
		return nil
	}
}
