// Package api is the REST client for the PenDen backend. It owns everything
// wire-related: attaching the auth token to outgoing requests, the global
// 401 hook, decoding responses, and normalizing the backend's heterogeneous
// cart-line shapes into the canonical domain types. Nothing above this
// package sees raw response JSON.
package api

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for outgoing requests. An empty
// string means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

type Client struct {
	base           *url.URL
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	log            *zap.Logger
}

type Option func(*Client)

// WithTokenSource wires the session so every request carries
// "Authorization: Token <value>" when logged in.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook installs the handler invoked on any 401 response,
// before the error is returned to the caller.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	c := &Client{
		base: base,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do issues one request and decodes the JSON response into out (when out is
// non-nil). Paths are relative to the API base, query may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.doHeaders(ctx, method, path, query, nil, body, out)
}

func (c *Client) doHeaders(ctx context.Context, method, path string, query url.Values, headers http.Header, body, out any) error {
	var reqBody io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, query, headers, contentType, reqBody, out)
}

// send is the common request path: token attachment, the 401 hook, error
// body parsing, and response decoding. reqBody is sent as-is with the given
// content type.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, headers http.Header, contentType string, reqBody io.Reader, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse path %q: %w", path, err)
	}
	u := c.base.ResolveReference(ref)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Token "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Debug("unauthorized response, clearing session", zap.String("path", path))
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return parseError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
