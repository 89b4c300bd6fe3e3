package overpass

import (
	"bytes"
	"context"
	"encoding/json"
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
	testCity          = "Hartford"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 5 * time.Second},
		baseURL:      baseURL,
		queryTimeout: 25,
		metrics:      observability.NewMetrics(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func f64(v float64) *float64 { return &v }

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(testCity, 25)

	assert.Contains(t, q, "[out:json][timeout:25];")
	assert.Contains(t, q, `area["name"="Hartford"]->.searchArea;`)
	for _, kind := range []string{"school", "hospital", "clinic", "restaurant"} {
		assert.Contains(t, q, `node["amenity"="`+kind+`"](area.searchArea);`)
	}
	assert.Contains(t, q, "out body;")
}

func TestBuildQuery_EscapesCity(t *testing.T) {
	q := BuildQuery(`Coeur "d" Alene\`, 10)
	assert.Contains(t, q, `area["name"="Coeur \"d\" Alene\\"]`)
	assert.Contains(t, q, "[timeout:10]")
}

func TestClient_FetchAmenities_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, BuildQuery(testCity, 25), r.URL.Query().Get("data"))

		resp := domain.OverpassResponse{
			Elements: []domain.OverpassElement{
				{Type: "node", ID: 1, Lat: f64(41.76), Lon: f64(-72.68), Tags: map[string]string{"amenity": "school"}},
				{Type: "node", ID: 2, Lat: f64(41.77)},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	elements, err := c.FetchAmenities(context.Background(), testCity)
	require.NoError(t, err)

	require.Len(t, elements, 2)
	assert.Equal(t, int64(1), elements[0].ID)
	assert.Equal(t, "school", elements[0].Tags["amenity"])
	assert.Nil(t, elements[1].Lon)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeSuccess)))
}

func TestClient_FetchAmenities_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"version":0.6,"elements":[]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	elements, err := c.FetchAmenities(context.Background(), "Atlantis")
	require.ErrorIs(t, err, domain.ErrNoData)
	assert.Nil(t, elements)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeEmpty)))
}

func TestClient_FetchAmenities_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate_limited`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	c := testClient(srv.URL)
	c.logger = slog.New(slog.NewTextHandler(&logs, nil))

	elements, err := c.FetchAmenities(context.Background(), testCity)
	require.Error(t, err)
	assert.Nil(t, elements)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, logs.String(), "status=429")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeError)))
}

func TestClient_FetchAmenities_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := c.FetchAmenities(context.Background(), testCity)
	require.Error(t, err)
}

func TestClient_FetchAmenities_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).FetchAmenities(ctx, testCity)
	require.ErrorIs(t, err, context.Canceled)
}
