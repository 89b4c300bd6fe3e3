// Command amenities queries OpenStreetMap for schools, hospitals, clinics and
// restaurants in a city and writes a clustered marker map.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	kafkaadapter "github.com/couchcryptid/market-scout/internal/adapter/kafka"
	"github.com/couchcryptid/market-scout/internal/adapter/overpass"
	"github.com/couchcryptid/market-scout/internal/config"
	"github.com/couchcryptid/market-scout/internal/observability"
	"github.com/couchcryptid/market-scout/internal/pipeline"
	"github.com/couchcryptid/market-scout/internal/render"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.LoadOverpass()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger := observability.NewLogger(&cfg.Config).With("command", "amenities", "run_id", runID)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := pipeline.AmenitiesOptions{
		City:   cfg.City,
		Center: [2]float64{cfg.MapCenterLat, cfg.MapCenterLon},
		Zoom:   cfg.MapZoom,
		MapDir: cfg.OutputDir,
		Viewer: render.NopViewer{},
	}
	if cfg.OpenOutput {
		opts.Viewer = render.SystemViewer{}
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, runID, logger)
		opts.Publisher = writer
		logger.Info("kafka sink enabled", "topic", cfg.KafkaTopic)
	}

	client := overpass.NewClient(cfg.OverpassURL, cfg.OverpassQueryTimeout, cfg.HTTPTimeout, metrics, logger)
	runErr := pipeline.NewAmenities(client, opts, logger, metrics).Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := observability.Export(shutdownCtx, metrics, observability.ExportOptions{
		PushgatewayURL: cfg.PushgatewayURL,
		Job:            "market_scout_amenities",
		Textfile:       cfg.MetricsTextfile,
	}); err != nil {
		logger.Error("metrics export failed", "error", err)
	}

	if runErr != nil {
		logger.Error("amenities run failed", "error", runErr)
		cancel()
		stop()
		os.Exit(1)
	}
	logger.Info("amenities run complete")
}
