package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/archlens/scan-api/config"
	"github.com/archlens/scan-api/internal/core"
	"github.com/archlens/scan-api/internal/observability/metrics"
	"github.com/archlens/scan-api/internal/observability/statsd"
)

// ReconcilerServiceOptions groups dependencies for ReconcilerService.
type ReconcilerServiceOptions struct {
	Repo    core.ScanRepository     // Required: scan repository
	Config  config.ReconcilerConfig // Required: reconciler configuration
	Logger  *slog.Logger            // Optional: structured logger
	Metrics statsd.Sink             // Optional: metrics sink (StatsD-compatible)
}

// ReconcilerService periodically restores queue entries for scans that are
// still queued but have lost their entry, which can happen when the entry
// insert is observed but a worker crashes after popping it, or after manual
// queue surgery. Freshly created scans are left alone for a grace window so
// the sweep never races an in-flight transaction.
type ReconcilerService struct {
	repo    core.ScanRepository
	config  config.ReconcilerConfig
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewReconcilerService constructs a new ReconcilerService.
func NewReconcilerService(opts ReconcilerServiceOptions) (*ReconcilerService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ScanRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "reconciler_service")
		logger.Debug("ReconcilerService initialized",
			"interval", opts.Config.Interval,
			"grace", opts.Config.Grace,
			"batch_size", opts.Config.BatchSize,
		)
	}

	return &ReconcilerService{
		repo:    opts.Repo,
		config:  opts.Config,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// Run starts the reconcile loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ReconcilerService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting queue reconciler", "interval", s.config.Interval)
	}

	// Jitter prevents a thundering herd when multiple instances start together.
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if err := s.sweep(ctx); err != nil {
		s.logSweepError(err, "initial sweep")
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "queue reconciler stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.sweep(ctx); err != nil {
				s.logSweepError(err, "sweep")
				// Keep running despite errors.
			}
		}
	}
}

// waitWithJitter sleeps a random duration up to 10% of the interval.
func (s *ReconcilerService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

// sweep runs RequeueOrphans in batches until a batch comes back empty.
func (s *ReconcilerService) sweep(ctx context.Context) error {
	start := time.Now()
	var total int

	for {
		requeued, err := s.repo.RequeueOrphans(ctx, s.config.Grace, s.config.BatchSize)
		if err != nil {
			metrics.EmitRequeued(s.metrics, total)
			return fmt.Errorf("requeue orphaned scans: %w", err)
		}
		total += len(requeued)
		if len(requeued) < s.config.BatchSize {
			break
		}
		if ctx.Err() != nil {
			metrics.EmitRequeued(s.metrics, total)
			return ctx.Err()
		}
	}

	metrics.EmitRequeued(s.metrics, total)

	if total > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "requeued orphaned scans",
			"count", total,
			"grace", s.config.Grace,
			"elapsed", time.Since(start),
		)
	}

	return nil
}

func (s *ReconcilerService) logSweepError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}

	s.logger.Error(label+" failed", "error", err)
}
