package census

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/market-scout/internal/domain"
	"github.com/couchcryptid/market-scout/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey           = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchStates_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "NAME,B01001_001E,B19013_001E,B23025_003E,B25077_001E,B15003_001E", q.Get("get"))
		assert.Equal(t, "state:*", q.Get("for"))
		assert.Equal(t, testKey, q.Get("key"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`[["NAME","B01001_001E","B19013_001E","B23025_003E","B25077_001E","B15003_001E","state"],
			["Connecticut","3600000","79000","1800000","275000","3200000","09"]]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	table, err := c.FetchStates(context.Background())
	require.NoError(t, err)

	require.Len(t, table, 2)
	assert.Equal(t, "NAME", table[0][0])
	assert.Equal(t, "Connecticut", table[1][0])
	assert.Equal(t, "3600000", table[1][1])
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeSuccess)))
}

func TestClient_FetchStates_EmptyArray(t *testing.T) {
	c := testClient(serveBody(t, http.StatusOK, `[]`).URL)

	table, err := c.FetchStates(context.Background())
	require.ErrorIs(t, err, domain.ErrNoData)
	assert.Nil(t, table)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeEmpty)))
}

func TestClient_FetchStates_HeaderOnly(t *testing.T) {
	c := testClient(serveBody(t, http.StatusOK, `[["NAME","state"]]`).URL)

	_, err := c.FetchStates(context.Background())
	require.ErrorIs(t, err, domain.ErrNoData)
}

func TestClient_FetchStates_EmptyBody(t *testing.T) {
	c := testClient(serveBody(t, http.StatusOK, "").URL)

	_, err := c.FetchStates(context.Background())
	require.ErrorIs(t, err, domain.ErrNoData)
}

func TestClient_FetchStates_APIError(t *testing.T) {
	var logs bytes.Buffer
	c := testClient(serveBody(t, http.StatusBadRequest, `error: unknown variable 'B99999_001E'`).URL)
	c.logger = slog.New(slog.NewTextHandler(&logs, nil))

	table, err := c.FetchStates(context.Background())
	require.Error(t, err)
	assert.Nil(t, table)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "unknown variable")
	assert.Contains(t, logs.String(), "status=400")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeError)))
}

func TestClient_FetchStates_InvalidJSON(t *testing.T) {
	c := testClient(serveBody(t, http.StatusOK, `<html>maintenance</html>`).URL)

	_, err := c.FetchStates(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoData)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_FetchStates_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := c.FetchStates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "census request")
}

func TestNewClient(t *testing.T) {
	c := NewClient("https://example.test/acs5", testKey, 3*time.Second, observability.NewMetrics(), slog.Default())
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
	assert.Contains(t, c.requestURL(), "https://example.test/acs5?")
	assert.Contains(t, c.requestURL(), "for=state%3A%2A")
}
