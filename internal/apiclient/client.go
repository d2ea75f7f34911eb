package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// maxBodySize bounds how much of an upstream response is read
const maxBodySize = 8 << 20

// Observer receives one observation per upstream call
type Observer interface {
	ObserveUpstream(method, path, outcome string, duration time.Duration)
}

// TokenSource returns the bearer token for the request context, or "" for none
type TokenSource func(ctx context.Context) string

// Client is a thin JSON wrapper around the school administration REST API.
// It holds configuration only, never session data.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	observer   Observer
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource attaches an Authorization header when the source yields a token
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.token = ts
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a client for baseURL. timeout bounds each request end to end.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the wrapper every API endpoint returns its payload in
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Get issues a GET and decodes the envelope's data into out
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, params, nil, out)
}

// Post issues a POST with a JSON body and decodes the envelope's data into out
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Do performs the request and decodes the envelope's data into out.
// out may be nil. A null or missing data field leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	raw, err := c.DoRaw(ctx, method, path, params, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s %s data: %w", method, path, err)
	}
	return nil
}

// DoRaw performs the request and returns the unmodified response body on any 2xx
func (c *Client) DoRaw(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, "transport_error", start)
		log.Warn().
			Err(err).
			Str("method", method).
			Str("path", path).
			Msg("Upstream request failed")
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.observe(method, path, "transport_error", start)
		return nil, &TransportError{Method: method, URL: target, Err: fmt.Errorf("reading body: %w", err)}
	}

	c.observe(method, path, strconv.Itoa(resp.StatusCode), start)
	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Upstream request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Method: method, URL: target, Status: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}

func (c *Client) observe(method, path, outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(method, path, outcome, time.Since(start))
	}
}

// errorDetail extracts "detail" (FastAPI) or "message" from an error body
func errorDetail(body []byte) string {
	var payload struct {
		Detail  any    `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Detail.(string); ok && s != "" {
		return s
	}
	return payload.Message
}
