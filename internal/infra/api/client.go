// Package api is the REST client for the remote order service. It
// carries the stored credential on every request and retries idempotent
// reads; mutations are always a single round trip.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vietddude/storefront/internal/metrics"
)

// Config holds remote order-service connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// TokenSource supplies the credential attached to outgoing requests.
// An empty token means anonymous.
type TokenSource interface {
	Token() string
}

// Error is an HTTP-level rejection from the order service.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client is the shared HTTP transport for all order-service calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	retry      RetryConfig
	log        *slog.Logger
}

// NewClient creates a client for the order service at cfg.BaseURL.
// tokens may be nil for an always-anonymous client.
func NewClient(cfg Config, tokens TokenSource) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens: tokens,
		retry:  DefaultRetryConfig,
		log:    slog.Default(),
	}
}

// get performs a GET with retry on transient failures. route is the
// path template used as the metric label; path is the concrete path.
func (c *Client) get(ctx context.Context, route, path string, query url.Values, out any) error {
	return c.withRetry(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, route, path, query, nil, out)
	})
}

// post performs a single-attempt POST. Mutations never retry; a failed
// commit is reported to the caller for rollback handling.
func (c *Client) post(ctx context.Context, route, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, route, path, nil, body, out)
}

// patch performs a single-attempt PATCH.
func (c *Client) patch(ctx context.Context, route, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, route, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, route, path string, query url.Values, body, out any) error {
	start := time.Now()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("x-auth-token", token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIErrors.WithLabelValues(method, route).Inc()
		return fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	metrics.APILatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.APIErrors.WithLabelValues(method, route).Inc()
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		metrics.APIErrors.WithLabelValues(method, route).Inc()
		return &Error{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage extracts the service's {"message": ...} detail, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
