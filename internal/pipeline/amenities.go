package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/market-scout/internal/domain"
	"github.com/couchcryptid/market-scout/internal/observability"
	"github.com/couchcryptid/market-scout/internal/render"
)

// AmenityFetcher retrieves raw Overpass elements for a city.
type AmenityFetcher interface {
	FetchAmenities(ctx context.Context, city string) ([]domain.OverpassElement, error)
}

// AmenityPublisher ships amenity points to an external sink.
type AmenityPublisher interface {
	Topic() string
	PublishAmenities(ctx context.Context, points []domain.AmenityPoint) error
}

// AmenitiesOptions configures an amenities run.
type AmenitiesOptions struct {
	City      string
	Center    [2]float64 // lat, lon; used for every city
	Zoom      int
	MapDir    string
	Viewer    render.Opener
	Publisher AmenityPublisher // optional
}

// Amenities runs fetch → points → map once.
type Amenities struct {
	fetcher AmenityFetcher
	opts    AmenitiesOptions
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAmenities creates an amenities run. A nil Viewer disables opening the map.
func NewAmenities(f AmenityFetcher, opts AmenitiesOptions, logger *slog.Logger, metrics *observability.Metrics) *Amenities {
	if opts.Viewer == nil {
		opts.Viewer = render.NopViewer{}
	}
	return &Amenities{fetcher: f, opts: opts, logger: logger, metrics: metrics}
}

// Run executes the pipeline. A failed or empty fetch is logged and Run
// returns nil without writing a map; write, open and publish errors are
// returned.
func (a *Amenities) Run(ctx context.Context) error {
	elements, err := a.fetcher.FetchAmenities(ctx, a.opts.City)
	if err != nil {
		logFetchFailure(a.logger, err)
		return nil
	}

	points, dropped := domain.ToAmenityPoints(elements)
	a.metrics.RecordsParsed.WithLabelValues("overpass").Add(float64(len(points)))
	a.metrics.PointsDropped.Add(float64(dropped))
	a.logger.Info("amenities processed",
		"city", a.opts.City,
		"results", len(elements),
		"points", len(points),
		"dropped", dropped,
	)
	for kind, n := range domain.CountByKind(points) {
		a.logger.Debug("amenity count", "kind", kind, "count", n)
	}

	path, err := render.WriteAmenityMap(a.opts.MapDir, render.MapView{
		City:   a.opts.City,
		Center: a.opts.Center,
		Zoom:   a.opts.Zoom,
		Points: points,
	})
	if err != nil {
		return err
	}
	a.metrics.ArtifactsWritten.WithLabelValues("map").Inc()
	a.logger.Info("map saved", "path", path)

	if err := a.opts.Viewer.Open(path); err != nil {
		return err
	}

	if a.opts.Publisher != nil {
		if err := a.opts.Publisher.PublishAmenities(ctx, points); err != nil {
			return fmt.Errorf("publish amenities: %w", err)
		}
		a.metrics.RecordsPublished.WithLabelValues(a.opts.Publisher.Topic()).Add(float64(len(points)))
	}

	a.metrics.LastSuccess.Set(float64(domain.Now().Unix()))
	return nil
}
