package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/archlens/scan-api/internal/errors"

	"github.com/archlens/scan-api/internal/data/pgxutil"
	"github.com/archlens/scan-api/internal/domain/model"
)

// ErrWebhookEventNotFound is returned when an audit row is not found.
var ErrWebhookEventNotFound = errors.New("webhook event not found")

// WebhookEventRepo provides database operations for the delivery audit log.
type WebhookEventRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewWebhookEventRepo creates a new WebhookEventRepo with real time provider.
func NewWebhookEventRepo(db *sql.DB) *WebhookEventRepo {
	return &WebhookEventRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewWebhookEventRepoWithTimeProvider creates a new WebhookEventRepo with a custom time provider.
func NewWebhookEventRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *WebhookEventRepo {
	return &WebhookEventRepo{DB: db, timeProvider: tp}
}

const webhookEventColumns = `id, event_type, delivery_id, repository, sender, payload, processed_at`

const (
	// Insert keyed on the delivery_id unique constraint; a conflicting insert
	// means the provider re-delivered and the original result stands.
	webhookEventInsertQuery = `
		INSERT INTO webhook_events (event_type, delivery_id, repository, sender, payload, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (delivery_id) DO NOTHING`

	webhookEventGetByDeliveryIDQuery = `
		SELECT ` + webhookEventColumns + `
		FROM webhook_events
		WHERE delivery_id = $1`
)

// Record inserts one audit row for an inbound delivery. Returns false when
// the delivery id was already recorded.
func (r *WebhookEventRepo) Record(
	ctx context.Context,
	req *model.RecordWebhookEventRequest,
) (bool, error) {
	if req == nil {
		return false, errors.New("record webhook event request is required")
	}
	if err := req.Validate(); err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid webhook event")
	}

	var inserted bool
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, webhookEventInsertQuery,
			req.EventType,
			req.DeliveryID,
			req.Repository,
			req.Sender,
			req.Payload,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		inserted = ct.RowsAffected() > 0
		return nil
	}); err != nil {
		return false, apperrors.MapDBError(err)
	}
	return inserted, nil
}

// GetByDeliveryID retrieves an audit row by its sender-assigned delivery id.
func (r *WebhookEventRepo) GetByDeliveryID(
	ctx context.Context,
	deliveryID string,
) (*model.WebhookEvent, error) {
	var event model.WebhookEvent
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, webhookEventGetByDeliveryIDQuery, deliveryID)
		if err != nil {
			return err
		}
		defer rows.Close()
		event, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WebhookEvent])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWebhookEventNotFound
		}
		return nil, fmt.Errorf("failed to get webhook event by delivery id: %w", err)
	}
	return &event, nil
}
