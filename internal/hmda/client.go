// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package hmda

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	cleanhttp "github.com/hashicorp/go-cleanhttp"

	"github.com/srbutler1/hmdactl/internal/cacheutil"
)

// DefaultBaseURL is the public HMDA Data Browser API endpoint.
const DefaultBaseURL = "https://ffiec.cfpb.gov/v2/data-browser-api"

// Client fetches tabular HMDA data with a filesystem-backed memoization
// layer. A Client is safe for concurrent use; fetches for the same cache key
// are coalesced behind a per-key mutex.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cacheDir   string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithBaseURL overrides the Data Browser endpoint (HMDACTL_HOST, tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient injects the transport. The default is a pooled cleanhttp
// client with no retry layer; failures propagate.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCacheDir pins the cache root instead of resolving it from the
// environment.
func WithCacheDir(dir string) Option {
	return func(c *Client) { c.cacheDir = dir }
}

// NewClient constructs a Client and ensures its cache directory exists.
// Creation is idempotent and a no-op if the directory is already present.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		locks:   map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = cleanhttp.DefaultPooledClient()
	}

	if c.cacheDir == "" {
		dir, ok := cacheutil.Dir()
		if !ok {
			return nil, fmt.Errorf("failed to resolve cache directory")
		}
		c.cacheDir = dir
	}

	if err := cacheutil.EnsureDir(c.cacheDir); err != nil {
		return nil, err
	}

	return c, nil
}

// CacheDir returns the cache root this client writes under.
func (c *Client) CacheDir() string {
	return c.cacheDir
}

// keyLock returns the mutex guarding one cache key, so concurrent callers
// for the same key collapse into a single upstream fetch.
func (c *Client) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// get issues a GET against path with the given query parameters and returns
// the response. Any non-200 status is converted to *RequestFailedError with
// the body text; the caller owns closing the body on success.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	u := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &RequestFailedError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return resp, nil
}
