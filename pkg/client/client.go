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

	"github.com/rs/zerolog"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// Client is the stockroom backend API client. A Client without a token can
// only reach the login endpoints; use WithToken to get an authorized copy.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a new API client against baseURL, e.g. http://localhost:5000/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Token returns the bearer token the client sends, if any.
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs one call and returns the raw body of a 2xx response.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+withQuery(path, query), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")
	if err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
		}
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseHTTPError(resp.StatusCode, respBody)
	}
	if len(bytes.TrimSpace(respBody)) > 0 && !json.Valid(respBody) {
		return nil, fmt.Errorf("decode response: invalid JSON body")
	}
	return respBody, nil
}

// resource is a backend collection rooted at base. Every resource module is a
// thin typed wrapper around one.
type resource struct {
	c    *Client
	base string
}

func (r resource) get(ctx context.Context, sub string, q url.Values) ([]byte, error) {
	return r.c.doRequest(ctx, http.MethodGet, r.base+sub, q, nil)
}

func (r resource) post(ctx context.Context, sub string, body any) ([]byte, error) {
	return r.c.doRequest(ctx, http.MethodPost, r.base+sub, nil, body)
}

func (r resource) put(ctx context.Context, sub string, body any) ([]byte, error) {
	return r.c.doRequest(ctx, http.MethodPut, r.base+sub, nil, body)
}

func (r resource) patch(ctx context.Context, sub string, body any) ([]byte, error) {
	return r.c.doRequest(ctx, http.MethodPatch, r.base+sub, nil, body)
}

func (r resource) delete(ctx context.Context, sub string) ([]byte, error) {
	return r.c.doRequest(ctx, http.MethodDelete, r.base+sub, nil, nil)
}

// id renders a path segment for an identifier.
func id(s string) string {
	return "/" + url.PathEscape(s)
}
