// Command census fetches ACS state data once, prints the side-gig market
// reports and saves the census charts.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/market-scout/internal/adapter/census"
	kafkaadapter "github.com/couchcryptid/market-scout/internal/adapter/kafka"
	"github.com/couchcryptid/market-scout/internal/config"
	"github.com/couchcryptid/market-scout/internal/observability"
	"github.com/couchcryptid/market-scout/internal/pipeline"
	"github.com/couchcryptid/market-scout/internal/render"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.LoadCensus()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger := observability.NewLogger(&cfg.Config).With("command", "census", "run_id", runID)
	metrics := observability.NewMetrics()

	regions, err := config.LoadRegions(cfg.RegionMapFile)
	if err != nil {
		logger.Error("failed to load region map", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := pipeline.CensusOptions{
		Regions:  regions.Index(),
		Out:      os.Stdout,
		ChartDir: cfg.OutputDir,
		Viewer:   render.NopViewer{},
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

	client := census.NewClient(cfg.CensusAPIURL, cfg.CensusAPIKey, cfg.HTTPTimeout, metrics, logger)
	runErr := pipeline.NewCensus(client, opts, logger, metrics).Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := observability.Export(shutdownCtx, metrics, observability.ExportOptions{
		PushgatewayURL: cfg.PushgatewayURL,
		Job:            "market_scout_census",
		Textfile:       cfg.MetricsTextfile,
	}); err != nil {
		logger.Error("metrics export failed", "error", err)
	}

	if runErr != nil {
		logger.Error("census run failed", "error", runErr)
		cancel()
		stop()
		os.Exit(1)
	}
	logger.Info("census run complete")
}
