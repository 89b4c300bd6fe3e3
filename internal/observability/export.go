package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// ExportOptions selects where run metrics go. Both targets are optional.
type ExportOptions struct {
	PushgatewayURL string
	Job            string
	Textfile       string
}

// Export pushes the run's metrics to a Pushgateway and/or writes them in the
// node_exporter textfile format. Errors from both targets are joined.
func Export(ctx context.Context, m *Metrics, opts ExportOptions) error {
	var errs []error

	if opts.PushgatewayURL != "" {
		pusher := push.New(opts.PushgatewayURL, opts.Job).Gatherer(m.Registry)
		if err := pusher.PushContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("push metrics: %w", err))
		}
	}

	if opts.Textfile != "" {
		if err := prometheus.WriteToTextfile(opts.Textfile, m.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		}
	}

	return errors.Join(errs...)
}
