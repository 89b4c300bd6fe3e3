// Package pipeline wires a fetcher, the domain transforms and the renderers
// into the two single-shot runs: census and amenities.
package pipeline

import (
	"errors"
	"log/slog"

	"github.com/couchcryptid/market-scout/internal/domain"
)

// logFetchFailure reports why a run is being skipped. Empty results and
// transport/HTTP errors are both logged, never propagated.
func logFetchFailure(logger *slog.Logger, err error) {
	if errors.Is(err, domain.ErrNoData) {
		logger.Warn("no data available, skipping remaining stages")
		return
	}
	logger.Error("data fetch failed, skipping remaining stages", "error", err)
}
