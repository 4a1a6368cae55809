package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/archlens/scan-api/config"
	"github.com/archlens/scan-api/internal/adapters/reconciler"
	"github.com/archlens/scan-api/internal/observability/statsd"
)

// ReconcilerRunConfig contains configuration for the queue reconciler.
type ReconcilerRunConfig struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Config  config.ReconcilerConfig
	Metrics statsd.Sink
}

// RunReconciler starts the scan queue reconciler service.
func RunReconciler(ctx context.Context, cfg ReconcilerRunConfig) error {
	runner, err := reconciler.NewRunner(reconciler.RunnerOptions{
		DB:      cfg.DB,
		Config:  cfg.Config,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create reconciler runner: %w", err)
	}

	return runner.Run(ctx)
}
