package census

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

const source = "census"

// Client fetches ACS state-level estimates from the Census Data API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Census Data API client for the dataset at baseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchStates requests NAME plus every domain metric for all states.
// It returns domain.ErrNoData when the response has no data rows.
func (c *Client) FetchStates(ctx context.Context) (domain.CensusTable, error) {
	start := time.Now()
	table, err := c.fetchStates(ctx)
	c.metrics.FetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeSuccess).Inc()
	case errors.Is(err, domain.ErrNoData):
		c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeEmpty).Inc()
	default:
		c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeError).Inc()
	}
	return table, err
}

func (c *Client) fetchStates(ctx context.Context) (domain.CensusTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("census request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Info("census response received", "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("census API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("census response body", "body", string(body))

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, domain.ErrNoData
	}

	var table domain.CensusTable
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// A header row alone carries no states.
	if len(table) < 2 {
		return nil, domain.ErrNoData
	}
	return table, nil
}

func (c *Client) requestURL() string {
	fields := make([]string, 0, len(domain.Metrics)+1)
	fields = append(fields, domain.ColumnName)
	for _, m := range domain.Metrics {
		fields = append(fields, string(m))
	}

	params := url.Values{
		"get": {strings.Join(fields, ",")},
		"for": {"state:*"},
		"key": {c.apiKey},
	}
	return c.baseURL + "?" + params.Encode()
}
