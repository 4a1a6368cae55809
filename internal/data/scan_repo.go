package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/archlens/scan-api/internal/errors"

	"github.com/archlens/scan-api/internal/data/pgxutil"
	"github.com/archlens/scan-api/internal/domain/model"
)

// ErrScanNotFound is returned when a scan is not found.
var ErrScanNotFound = errors.New("scan not found")

// ScanRepo provides database operations for scans and their queue entries.
type ScanRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewScanRepo creates a new ScanRepo with real time provider.
func NewScanRepo(db *sql.DB) *ScanRepo {
	return &ScanRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewScanRepoWithTimeProvider creates a new ScanRepo with a custom time provider (useful for tests).
func NewScanRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ScanRepo {
	return &ScanRepo{DB: db, timeProvider: tp}
}

const scanColumns = `id, project_id, scan_type, status, metadata, created_at, updated_at`

const (
	scanInsertQuery = `
		INSERT INTO scans (project_id, scan_type, status, metadata, created_at, updated_at)
		VALUES ($1, $2, 'queued', $3, $4, $4)
		RETURNING ` + scanColumns

	queueEntryInsertQuery = `
		INSERT INTO scan_queue (scan_id, priority, queued_at)
		VALUES ($1, $2, $3)`

	scanGetByIDQuery = `
		SELECT ` + scanColumns + `
		FROM scans
		WHERE id = $1`

	// Queued scans whose queue entry is missing. The grace window keeps the
	// sweep from racing an enqueue that is mid-transaction.
	orphanedScansQuery = `
		SELECT s.id
		FROM scans s
		LEFT JOIN scan_queue q ON q.scan_id = s.id
		WHERE s.status = 'queued'
		  AND q.scan_id IS NULL
		  AND s.created_at < $1
		ORDER BY s.created_at
		LIMIT $2`
)

// CreateWithQueueEntry inserts the scan row and its queue entry in one
// transaction so a failure on either insert leaves no durable side effect.
func (r *ScanRepo) CreateWithQueueEntry(
	ctx context.Context,
	req *model.CreateScanRequest,
) (*model.Scan, error) {
	if req == nil {
		return nil, errors.New("create scan request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid scan")
	}

	now := r.timeProvider.Now().UTC()
	var out model.Scan
	if err := pgxutil.WithPgxTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, scanInsertQuery,
			req.ProjectID,
			req.ScanType,
			req.Metadata,
			now,
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Scan])
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, queueEntryInsertQuery, out.ID, req.Priority, now)
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a scan by ID.
func (r *ScanRepo) GetByID(ctx context.Context, id string) (*model.Scan, error) {
	var scan model.Scan
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, scanGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		scan, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Scan])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScanNotFound
		}
		return nil, fmt.Errorf("failed to get scan by ID: %w", err)
	}
	return &scan, nil
}

// RequeueOrphans re-inserts queue entries for queued scans that lost theirs,
// at normal priority. Returns the requeued scan ids.
func (r *ScanRepo) RequeueOrphans(
	ctx context.Context,
	grace time.Duration,
	batchSize int,
) ([]string, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	cutoff := r.timeProvider.Now().UTC().Add(-grace)

	var requeued []string
	if err := pgxutil.WithPgxTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, orphanedScansQuery, cutoff, batchSize)
		if err != nil {
			return err
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		now := r.timeProvider.Now().UTC()
		for _, id := range ids {
			if _, execErr := tx.Exec(ctx, queueEntryInsertQuery, id, model.PriorityNormal, now); execErr != nil {
				return execErr
			}
		}
		requeued = ids
		return nil
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return requeued, nil
}
