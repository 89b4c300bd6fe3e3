package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/market-scout/internal/domain"
	"github.com/couchcryptid/market-scout/internal/observability"
	"github.com/couchcryptid/market-scout/internal/render"
)

// CensusFetcher retrieves the raw ACS table.
type CensusFetcher interface {
	FetchStates(ctx context.Context) (domain.CensusTable, error)
}

// StatePublisher ships transformed state records to an external sink.
type StatePublisher interface {
	Topic() string
	PublishStates(ctx context.Context, records []domain.StateRecord) error
}

// CensusOptions configures a census run.
type CensusOptions struct {
	Regions   domain.RegionIndex
	Out       io.Writer
	ChartDir  string
	Viewer    render.Opener
	Publisher StatePublisher // optional
}

// Census runs fetch → transform → report/charts once.
type Census struct {
	fetcher CensusFetcher
	opts    CensusOptions
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCensus creates a census run. A nil Viewer disables opening charts.
func NewCensus(f CensusFetcher, opts CensusOptions, logger *slog.Logger, metrics *observability.Metrics) *Census {
	if opts.Viewer == nil {
		opts.Viewer = render.NopViewer{}
	}
	if opts.Regions == nil {
		opts.Regions = domain.DefaultRegions.Index()
	}
	return &Census{fetcher: f, opts: opts, logger: logger, metrics: metrics}
}

// Run executes the pipeline. A failed or empty fetch is logged and Run
// returns nil without producing output; rendering and publishing errors are
// returned.
func (c *Census) Run(ctx context.Context) error {
	table, err := c.fetcher.FetchStates(ctx)
	if err != nil {
		logFetchFailure(c.logger, err)
		return nil
	}
	c.logger.Info("data fetched successfully", "rows", len(table)-1)

	records, err := domain.BuildStateRecords(table, c.opts.Regions)
	if err != nil {
		logFetchFailure(c.logger, err)
		return nil
	}
	c.metrics.RecordsParsed.WithLabelValues("census").Add(float64(len(records)))

	report := render.CensusReport{
		Records:     records,
		Correlation: domain.Correlate(records, domain.Metrics),
		Regions:     domain.AverageByRegion(records),
	}

	if err := render.WriteCensusReport(c.opts.Out, report); err != nil {
		return fmt.Errorf("write census report: %w", err)
	}

	charts, err := render.WriteCensusCharts(c.opts.ChartDir, report)
	c.metrics.ArtifactsWritten.WithLabelValues("chart").Add(float64(len(charts)))
	if err != nil {
		return fmt.Errorf("write census charts: %w", err)
	}
	for _, path := range charts {
		c.logger.Info("chart saved", "path", path)
		if err := c.opts.Viewer.Open(path); err != nil {
			return err
		}
	}

	if c.opts.Publisher != nil {
		if err := c.opts.Publisher.PublishStates(ctx, records); err != nil {
			return fmt.Errorf("publish states: %w", err)
		}
		c.metrics.RecordsPublished.WithLabelValues(c.opts.Publisher.Topic()).Add(float64(len(records)))
	}

	c.metrics.LastSuccess.Set(float64(domain.Now().Unix()))
	return nil
}
