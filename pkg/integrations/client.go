package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/gemstar/pkg/cache"
	"github.com/matzehuels/gemstar/pkg/observability"
)

// maxBodySize caps a single response body.
const maxBodySize = 16 << 20

// Client provides shared HTTP functionality for the registry and GitHub
// clients. It handles fetch-through caching, per-request timeouts and
// status mapping.
type Client struct {
	http    *http.Client
	memo    *cache.Memo
	headers map[string]string
	hooks   observability.HTTPHooks
	timeout time.Duration
}

// NewClient creates a Client. memo may be nil to disable caching, headers
// may be nil, and hooks may be nil. Each request is bounded by timeout.
func NewClient(memo *cache.Memo, timeout time.Duration, headers map[string]string, hooks observability.HTTPHooks) *Client {
	if memo == nil {
		memo = cache.NewMemo(nil, nil)
	}
	if hooks == nil {
		hooks = observability.NoopHTTPHooks{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    NewHTTPClient(),
		memo:    memo,
		headers: headers,
		hooks:   hooks,
		timeout: timeout,
	}
}

// WithHTTPClient replaces the underlying HTTP client and returns c.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// Cached returns the blob stored under key, calling fetch on a miss. See
// [cache.Memo.Fetch] for how fetch errors are recorded.
func (c *Client) Cached(ctx context.Context, key string, fetch cache.Producer) ([]byte, bool) {
	return c.memo.Fetch(ctx, key, fetch)
}

// GetBytes performs an HTTP GET with the client's timeout and returns the
// body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	return c.GetBytesTimeout(ctx, url, c.timeout)
}

// GetBytesTimeout performs an HTTP GET bounded by timeout.
func (c *Client) GetBytesTimeout(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	c.hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.hooks.OnError(ctx, req.Method, host, path, err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	c.hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
