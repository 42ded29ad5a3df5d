// Package catalog implements the client for the remote MCP server catalog:
// keyword search with an in-memory TTL cache, single-server lookup, and
// derivation of credential requirements from declared connection schemas.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scoutmcp/scout/internal/filter"
)

const clientName = "catalog"

// SearchOptions control pagination and filtering for catalog searches.
type SearchOptions struct {
	Page     int
	PageSize int

	// Owner restricts results to servers published by the given owner.
	Owner string
}

// applyDefaults fills zero values with the catalog's documented defaults.
func (o SearchOptions) applyDefaults() SearchOptions {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.PageSize <= 0 {
		o.PageSize = 10
	}
	o.Owner = strings.TrimSpace(o.Owner)
	return o
}

// Client queries the remote catalog of known MCP servers.
// NewClient should be used to create instances of Client.
//
// Transport and parse failures never surface to callers of Search: they
// degrade to an empty result and are logged. Results are cached in memory for
// a fixed TTL window keyed by the normalized query parameters.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      *searchCache
	logger     hclog.Logger
}

// NewClient creates a catalog client for the given base URL.
func NewClient(logger hclog.Logger, baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("catalog base URL cannot be empty")
	}

	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    baseURL,
		token:      options.token,
		httpClient: options.httpClient,
		cache:      newSearchCache(options.ttl, options.maxEntries),
		logger:     logger.Named(clientName),
	}, nil
}

// Search queries the catalog for servers matching the query.
//
// A live cache entry for the normalized (query, page, pageSize, owner) tuple
// is returned without any outbound call. Any transport outcome other than
// success (non-2xx, transport error, malformed body) degrades to an empty
// SearchResult rather than an error: discovery is best-effort and the
// recommendation pipeline treats "no results" and "catalog unreachable"
// identically downstream.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) SearchResult {
	query = filter.NormalizeString(query)
	opts = opts.applyDefaults()

	empty := SearchResult{Servers: []Server{}, Page: opts.Page, PageSize: opts.PageSize}
	if query == "" {
		return empty
	}

	key := searchCacheKey(query, opts)
	if cached, ok := c.cache.get(key); ok {
		c.logger.Debug("Serving search from cache", "query", query, "page", opts.Page)
		return cached
	}

	payload, err := c.fetchSearch(ctx, query, opts)
	if err != nil {
		c.logger.Warn("Catalog search failed, returning empty result", "query", query, "error", err)
		return empty
	}

	servers := make([]Server, 0, len(payload.Servers))
	for _, raw := range payload.Servers {
		if strings.TrimSpace(raw.QualifiedName) == "" {
			c.logger.Debug("Skipping catalog entry without qualified name")
			continue
		}
		servers = append(servers, raw.normalize())
	}

	result := SearchResult{
		Servers:    servers,
		TotalCount: payload.Pagination.TotalCount,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
	}
	if result.TotalCount == 0 {
		result.TotalCount = len(servers)
	}

	c.cache.set(key, result)

	return result
}

// GetServerDetails retrieves a single server by qualified name.
//
// A 404 from the catalog maps to absent, not an error; any other failure also
// degrades to absent (logged). Single-key fetches are not cached: they are
// cheap and freshness matters more here.
func (c *Client) GetServerDetails(ctx context.Context, qualifiedName string) (Server, bool) {
	qualifiedName = strings.TrimSpace(qualifiedName)
	if qualifiedName == "" {
		return Server{}, false
	}

	endpoint := fmt.Sprintf("%s/servers/%s", c.baseURL, url.PathEscape(qualifiedName))
	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		c.logger.Warn("Catalog detail fetch failed", "qualifiedName", qualifiedName, "error", err)
		return Server{}, false
	}
	if status == http.StatusNotFound {
		c.logger.Debug("Server not present in catalog", "qualifiedName", qualifiedName)
		return Server{}, false
	}
	if status != http.StatusOK {
		c.logger.Warn("Catalog detail fetch returned non-OK status", "qualifiedName", qualifiedName, "status", status)
		return Server{}, false
	}

	var raw serverPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.Warn("Failed to decode catalog detail response", "qualifiedName", qualifiedName, "error", err)
		return Server{}, false
	}
	if strings.TrimSpace(raw.QualifiedName) == "" {
		raw.QualifiedName = qualifiedName
	}

	return raw.normalize(), true
}

// fetchSearch issues one outbound search request and decodes the response.
func (c *Client) fetchSearch(ctx context.Context, query string, opts SearchOptions) (searchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("pageSize", strconv.Itoa(opts.PageSize))
	if opts.Owner != "" {
		params.Set("owner", opts.Owner)
	}

	endpoint := fmt.Sprintf("%s/servers?%s", c.baseURL, params.Encode())
	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return searchResponse{}, err
	}
	if status != http.StatusOK {
		return searchResponse{}, fmt.Errorf("received non-OK HTTP status from catalog: %d", status)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return searchResponse{}, fmt.Errorf("failed to decode catalog search response: %w", err)
	}

	return payload, nil
}

// get performs an authenticated GET against the catalog.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to reach catalog: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read catalog response body: %w", err)
	}

	return body, resp.StatusCode, nil
}
