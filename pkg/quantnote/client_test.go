package quantnote

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client with the canned symbol directory at a local
// test server. Retries are off so failure paths stay fast; tests that want
// them pass WithMaxRetries again.
func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	base := []Option{WithBaseURL(srv.URL), WithAssetDirectory(testDirectory()), WithMaxRetries(0)}
	return NewClient("test-token", append(base, opts...)...)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("tok")
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, "tok", c.authToken)
	assert.Equal(t, defaultMaxRetries, c.maxRetries)
	assert.True(t, c.split)
	require.NotNil(t, c.httpClient)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
}

func TestNewClientOptions(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	logger := log.New(&strings.Builder{}, "", 0)
	c := NewClient("tok",
		WithBaseURL("http://localhost:9000"),
		WithHTTPClient(hc),
		WithMaxRetries(2),
		WithLogger(logger),
		WithoutSplitting(),
	)
	assert.Equal(t, "http://localhost:9000", c.baseURL)
	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, 2, c.maxRetries)
	assert.Same(t, logger, c.logger)
	assert.False(t, c.split)
}

func TestEndpointJoining(t *testing.T) {
	withSlash := NewClient("", WithBaseURL("http://host:9000/"))
	bare := NewClient("", WithBaseURL("http://host:9000"))
	assert.Equal(t, "http://host:9000/v1/assets", withSlash.endpoint("assets"))
	assert.Equal(t, withSlash.endpoint("assets"), bare.endpoint("assets"))
}

func TestRequestShape(t *testing.T) {
	var (
		gotPath   string
		gotQuery  url.Values
		gotHeader http.Header
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotHeader = r.Header.Clone()
		_, _ = w.Write([]byte(`12845`))
	}))

	count, err := c.GetTokenCount(context.Background(), ChainParams{Chain: ChainETH})
	require.NoError(t, err)
	assert.Equal(t, int64(12845), count)
	assert.Equal(t, "/v1/chain/1/tokens/number", gotPath)
	assert.Equal(t, "test-token", gotQuery.Get("token"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, userAgent, gotHeader.Get("User-Agent"))
}

func TestRetryOnServiceError(t *testing.T) {
	var hits int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, `{"message":"briefly down"}`, http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`7`))
	}), WithMaxRetries(1))

	count, err := c.GetTokenCount(context.Background(), ChainParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestClientErrorNotRetried(t *testing.T) {
	var hits int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Input should be a valid integer","errors":["limit must be positive."]}`))
	}), WithMaxRetries(3))

	_, err := c.GetTokenCount(context.Background(), ChainParams{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Input should be a valid integer", apiErr.Message)
	assert.Equal(t, []string{"limit must be positive."}, apiErr.Reasons)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestRetriesExhaustedKeepAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"still down"}`, http.StatusServiceUnavailable)
	}))

	_, err := c.GetTokenCount(context.Background(), ChainParams{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL), WithMaxRetries(0))
	_, err := c.GetAssets(context.Background(), "")
	require.ErrorIs(t, err, ErrTransport)
}

func TestEmptyBodiesDecodeToZero(t *testing.T) {
	for _, body := range []string{"", "null", `""`} {
		body := body
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		assets, err := c.GetAssets(context.Background(), "")
		require.NoErrorf(t, err, "body %q", body)
		assert.Emptyf(t, assets, "body %q", body)
	}
}

func TestMalformedBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	_, err := c.GetAssets(context.Background(), "")
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestErrorEnvelopeFallsBackToRawBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("token expired\n"))
	}))
	_, err := c.GetAssets(context.Background(), "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "token expired", apiErr.Message)
	assert.Empty(t, apiErr.Reasons)
}
