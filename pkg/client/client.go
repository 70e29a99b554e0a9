// Package client talks to the to-do list REST API under ./api/v1/.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	apiPrefix    = "api/v1/"
	maxErrorBody = 256
)

// Client is a to-do API client. Every request carries the configured query
// string, which the backend uses for session and tenant routing.
type Client struct {
	base    *url.URL
	query   string
	http    *http.Client
	limiter *rate.Limiter
	metrics *Metrics
	log     zerolog.Logger

	timeout *time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithQuery sets the raw query string appended to every request.
func WithQuery(rawQuery string) Option {
	return func(c *Client) { c.query = strings.TrimPrefix(rawQuery, "?") }
}

// WithHTTPClient replaces the default http.Client. The given client is
// never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = &d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRateLimit caps outgoing requests. A non-positive perSecond disables the cap.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a Client for the application rooted at baseURL, e.g.
// "http://localhost:8080/todolist/". Endpoints resolve under baseURL + "api/v1/".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	c := &Client{
		base: u.ResolveReference(&url.URL{Path: apiPrefix}),
		http: &http.Client{},
		log:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout != nil {
		hc := *c.http
		hc.Timeout = *c.timeout
		c.http = &hc
	}
	return c, nil
}

// URL returns the absolute URL of an endpoint, including the query string.
func (c *Client) URL(path string) string {
	return c.base.ResolveReference(&url.URL{Path: path, RawQuery: c.query}).String()
}

// do sends a request and decodes a JSON answer into out when out is not nil
// and the body is not empty.
func (c *Client) do(ctx context.Context, method, endpoint, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: %w", endpoint, err)
		}
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal body: %w", endpoint, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(endpoint, 0, err)
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api call")
	if err != nil {
		c.metrics.observe(endpoint, resp.StatusCode, err)
		return fmt.Errorf("%s: read body: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Op: endpoint, StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(data)), maxErrorBody)}
		c.metrics.observe(endpoint, resp.StatusCode, se)
		return se
	}
	c.metrics.observe(endpoint, resp.StatusCode, nil)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode: %w", endpoint, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
