// Package quantnote is a typed client for the QuantNote market data API.
package quantnote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL    = "https://api.helixir.io/"
	apiVersion        = "v1"
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 5
	retryBaseDelay    = 500 * time.Millisecond
	userAgent         = "QuantNoteClient"
)

// retryableStatus lists the reply codes worth another attempt.
var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client talks to the QuantNote HTTP API. Construct it with NewClient; the
// zero value is not usable. Methods are safe for concurrent use.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	split      bool
	logger     *log.Logger
	now        func() time.Time

	assetsMu     sync.RWMutex
	assets       []Asset
	bySymbol     map[string][]Asset
	assetsLoaded bool
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient supplies a custom HTTP client, e.g. with a proxy or
// instrumented transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each HTTP attempt. Ignored when WithHTTPClient is
// also given.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMaxRetries sets how many times a failed request is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithLogger directs client diagnostics to the given logger. Without it the
// client stays silent.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock overrides the time source used to bound open-ended ranges.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithoutSplitting disables transparent range splitting. Series requests
// then fail instead of fanning out when the range needs several calls.
func WithoutSplitting() Option {
	return func(c *Client) {
		c.split = false
	}
}

// WithAssetDirectory seeds the symbol directory so symbol resolution never
// calls the assets endpoint.
func WithAssetDirectory(assets []Asset) Option {
	return func(c *Client) {
		c.storeAssets(assets)
	}
}

// NewClient builds a Client authenticated by token. An empty token is
// allowed; requests are then sent unauthenticated.
func NewClient(authToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		authToken:  authToken,
		timeout:    defaultTimeout,
		maxRetries: defaultMaxRetries,
		split:      true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + apiVersion + "/" + path
}

// get fetches path and decodes the reply into out. An empty or null body
// leaves out untouched.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}
	return c.decode(path, body, out)
}

// doRequest performs one GET with retries. Transport errors and retryable
// status codes back off exponentially; other status codes fail at once.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	q := url.Values{}
	for key, vals := range query {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	if c.authToken != "" {
		q.Set("token", c.authToken)
	}
	endpoint := c.endpoint(path)
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var lastErr error
	backoff := retryBaseDelay
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logf("quantnote: retrying %s (attempt %d/%d) after error: %v", path, attempt, c.maxRetries, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("quantnote: build request for %s: %w", path, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response for %s: %w", path, err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			apiErr := decodeAPIError(resp.StatusCode, body)
			if !retryableStatus[resp.StatusCode] {
				return nil, apiErr
			}
			lastErr = apiErr
			continue
		}
		return body, nil
	}

	var apiErr *APIError
	if errors.As(lastErr, &apiErr) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrTransport, c.maxRetries+1, lastErr)
}

// decode unmarshals a reply body. The service answers empty or literal null
// when a query matches nothing; that decodes to the zero result.
func (c *Client) decode(path string, body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		c.logf("quantnote: empty response for %s", path)
		return nil
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

// decodeAPIError reads the service's error envelope, falling back to the
// raw body when the envelope shape is absent.
func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
		apiErr.Reasons = payload.Errors
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
