package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"go-debate-client/pkg/apierror"
)

// TokenSource yields the current bearer token, or "" when no session exists.
// The session store satisfies this without the transport importing it.
type TokenSource func() string

// Client is the single HTTP pipe to the debate API: JSON in and out, bearer
// injection, 401 side effect, error-body extraction. No retries and no
// caching; callers own re-fetch discipline.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	token          TokenSource
	onUnauthorized func()
	limiter        *rate.Limiter
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Requests per second allowed against the API; zero disables throttling.
	RequestRate  float64
	RequestBurst int
}

func New(cfg Config, token TokenSource) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestRate > 0 {
		burst := cfg.RequestBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestRate), burst)
	}

	if token == nil {
		token = func() string { return "" }
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
		limiter:    limiter,
	}
}

// SetUnauthorizedHook registers the forced session clear fired on any 401
// from an authenticated call, independent of how the caller handles the
// returned error.
func (c *Client) SetUnauthorizedHook(hook func()) {
	c.onUnauthorized = hook
}

type callOptions struct {
	noAuth bool
}

type Option func(*callOptions)

// WithoutAuth marks a call as part of the login flow: no bearer header is
// attached and a 401 means rejected credentials, not an expired session.
func WithoutAuth() Option {
	return func(o *callOptions) { o.noAuth = true }
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...Option) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any, opts ...Option) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any, opts ...Option) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts...)
}

func (c *Client) do(ctx context.Context, method string, path string, body any, out any, opts ...Option) error {
	options := callOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apierror.New(apierror.KindTransport, err.Error(), 0)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	authenticated := false
	if !options.noAuth {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			authenticated = true
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierror.New(apierror.KindTransport, err.Error(), 0)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierror.New(apierror.KindTransport, err.Error(), resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := extractMessage(resp.Header.Get("Content-Type"), raw, resp.StatusCode)
		return apierror.FromStatus(resp.StatusCode, message, options.noAuth)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apierror.New(apierror.KindTransport, fmt.Sprintf("decode response: %v", err), resp.StatusCode)
	}

	return nil
}

// Error message field naming drifted across server versions; take the first
// present of the known candidates, fall back to a plain status string.
var messageKeys = []string{"message", "error", "title"}

func extractMessage(contentType string, raw []byte, status int) string {
	fallback := fmt.Sprintf("HTTP %d", status)

	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return fallback
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fallback
	}

	for _, key := range messageKeys {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}

	return fallback
}
