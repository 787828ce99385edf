// Package api is the client for the booking backend's REST endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"booking-client/internal/log"
	"booking-client/internal/metrics"
	"booking-client/internal/tokenstore"
)

const fallbackMessage = "Request failed"

// Error is the one failure kind the backend produces: a non-2xx response
// carrying the server's message, or the generic fallback.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  tokenstore.Store
	Metrics *metrics.Metrics

	// auth endpoint throttle; zero rps disables it
	AuthRPS   float64
	AuthBurst int

	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
}

type Client struct {
	base    string
	http    *http.Client
	tokens  tokenstore.Store
	metrics *metrics.Metrics
	limiter *Limiter
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = tokenstore.NewMemory("")
	}
	return &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		tokens:  tokens,
		metrics: opts.Metrics,
		limiter: NewLimiter(opts.AuthRPS, opts.AuthBurst),
	}
}

// Tokens is the store the client reads the bearer token from.
func (c *Client) Tokens() tokenstore.Store { return c.tokens }

// Request sends one JSON request. body may be nil; out may be nil to
// discard the response, or a *json.RawMessage to decode it later. endpoint
// labels logs and metrics and must not contain ids.
func (c *Client) Request(ctx context.Context, method, path, endpoint string, body, out any, headers http.Header) error {
	if c.limiter.Limited(path) && !c.limiter.Allow(path) {
		c.metrics.ObserveThrottle()
		log.Warn("throttled", map[string]any{"endpoint": endpoint})
		return &Error{Status: http.StatusTooManyRequests, Message: "too many requests"}
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	tok, err := c.tokens.Get(ctx)
	switch {
	case err == nil:
		req.Header.Set("Authorization", "Bearer "+tok)
	case errors.Is(err, tokenstore.ErrNoToken):
	default:
		return fmt.Errorf("load token: %w", err)
	}

	rid := uuid.New().String()
	req.Header.Set("X-Request-ID", rid)
	// caller headers win
	for k, vs := range headers {
		req.Header[http.CanonicalHeaderKey(k)] = vs
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(endpoint, 0, time.Since(start))
		log.Request(rid, endpoint, err, nil)
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(endpoint, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Request(rid, endpoint, err, map[string]any{"status": resp.StatusCode})
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Message: errorMessage(raw)}
		log.Request(rid, endpoint, apiErr, map[string]any{"status": resp.StatusCode})
		return apiErr
	}
	log.Request(rid, endpoint, nil, map[string]any{"status": resp.StatusCode, "bytes": len(raw)})

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	// raw destinations take the body as is, valid JSON or not
	if rm, ok := out.(*json.RawMessage); ok {
		*rm = append((*rm)[:0], raw...)
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls detail out of an error body. FastAPI-style validation
// errors carry a list of {msg}; those are joined.
func errorMessage(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return fallbackMessage
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		if s == "" {
			return fallbackMessage
		}
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		var msgs []string
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return fallbackMessage
}

func (c *Client) get(ctx context.Context, path, endpoint string, out any) error {
	return c.Request(ctx, http.MethodGet, path, endpoint, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPost, path, endpoint, body, out, nil)
}

func (c *Client) del(ctx context.Context, path, endpoint string) error {
	return c.Request(ctx, http.MethodDelete, path, endpoint, nil, nil, nil)
}
