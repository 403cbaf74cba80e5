package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oshokin/crlset-mirror/internal/config"
	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
)

// DefaultMaxBodySize caps how much of a response body is read into memory.
const DefaultMaxBodySize int64 = 64 << 20

var (
	errBadHTTPStatus = errors.New("unexpected http status")
	errBodyTooLarge  = errors.New("response body exceeds size limit")
)

// Client issues GET requests with a fixed timeout.
type Client struct {
	// http is the underlying client; its Timeout bounds each request.
	http *http.Client
	// userAgent is sent with every request when non-empty.
	userAgent string
	// maxBodySize is the largest body Get will return.
	maxBodySize int64
}

// Option configures client behaviour.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithMaxBodySize sets the largest accepted response body.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client, keeping its own timeout
// unless WithTimeout is applied afterwards.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// New creates a client that does not share connections with other clients.
func New(opts ...Option) *Client {
	client := &Client{
		//nolint:exhaustruct // Zero values are the documented defaults.
		http: &http.Client{
			Timeout:   config.DefaultTimeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Get fetches url and returns the whole response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w: %w", url, crlset.ErrTransport, err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	response, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", url, crlset.ErrTransport, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s, %s: %w: %w", url, response.Status, crlset.ErrTransport, errBadHTTPStatus)
	}

	// Read one byte past the limit to tell "exactly at the limit" from "too large".
	data, err := io.ReadAll(io.LimitReader(response.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w: %w", url, crlset.ErrTransport, err)
	}

	if int64(len(data)) > c.maxBodySize {
		return nil, fmt.Errorf("%s: %w: %w", url, crlset.ErrTransport, errBodyTooLarge)
	}

	return data, nil
}
