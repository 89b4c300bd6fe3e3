package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/market-scout/internal/domain"
	"github.com/couchcryptid/market-scout/internal/observability"
)

const source = "overpass"

// Client queries the Overpass API for amenities inside a named area.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	queryTimeout int
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates an Overpass client. queryTimeout is the server-side
// timeout in seconds written into the query header.
func NewClient(baseURL string, queryTimeout int, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:      baseURL,
		queryTimeout: queryTimeout,
		metrics:      metrics,
		logger:       logger,
	}
}

// BuildQuery renders the Overpass QL selecting every domain.AmenityKinds node
// inside the area whose name equals city.
func BuildQuery(city string, timeout int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n", timeout)
	fmt.Fprintf(&b, "area[\"name\"=\"%s\"]->.searchArea;\n", escapeQL(city))
	b.WriteString("(\n")
	for _, kind := range domain.AmenityKinds {
		fmt.Fprintf(&b, "  node[\"amenity\"=\"%s\"](area.searchArea);\n", kind)
	}
	b.WriteString(");\nout body;\n")
	return b.String()
}

// escapeQL escapes a value for use inside a double-quoted Overpass QL string.
func escapeQL(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// FetchAmenities runs the amenity query for city and returns the raw
// elements. It returns domain.ErrNoData when no elements match.
func (c *Client) FetchAmenities(ctx context.Context, city string) ([]domain.OverpassElement, error) {
	c.logger.Info("sending overpass request", "city", city)

	start := time.Now()
	elements, err := c.fetch(ctx, BuildQuery(city, c.queryTimeout))
	c.metrics.FetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeSuccess).Inc()
		c.logger.Info("overpass request successful", "city", city, "results", len(elements))
	case errors.Is(err, domain.ErrNoData):
		c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeEmpty).Inc()
	default:
		c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeError).Inc()
	}
	return elements, err
}

func (c *Client) fetch(ctx context.Context, query string) ([]domain.OverpassElement, error) {
	fullURL := c.baseURL + "?" + url.Values{"data": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("overpass request failed", "status", resp.StatusCode)
		return nil, fmt.Errorf("overpass API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var overpassResp domain.OverpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&overpassResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(overpassResp.Elements) == 0 {
		return nil, domain.ErrNoData
	}
	return overpassResp.Elements, nil
}
