// Package reconciler provides the adapter for running the queue reconciler.
package reconciler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/archlens/scan-api/config"
	"github.com/archlens/scan-api/internal/core"
	"github.com/archlens/scan-api/internal/data"
	"github.com/archlens/scan-api/internal/observability/statsd"
	"github.com/archlens/scan-api/internal/service"
)

// Runner wires the scan repository into the reconciler loop.
type Runner struct {
	reconciler *service.ReconcilerService
	logger     *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.ReconcilerConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	Repo    core.ScanRepository
	Metrics statsd.Sink
}

// NewRunner creates a new reconciler runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.DB == nil && opts.Repo == nil {
		return nil, errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	repo := opts.Repo
	if repo == nil {
		repo = data.NewScanRepo(opts.DB)
	}

	svc, err := service.NewReconcilerService(service.ReconcilerServiceOptions{
		Repo:    repo,
		Config:  opts.Config,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire reconciler service: %w", err)
	}

	return &Runner{reconciler: svc, logger: opts.Logger}, nil
}

// Run starts the reconcile loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting reconciler runner")
	return r.reconciler.Run(ctx)
}
