package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlens/scan-api/internal/domain/model"
	"github.com/archlens/scan-api/internal/testutil"
)

func TestWebhookEventRepo_RecordAndGet(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewWebhookEventRepo(db)

		deliveryID := fmt.Sprintf("delivery-%d", time.Now().UnixNano())
		req := &model.RecordWebhookEventRequest{
			EventType:  model.EventTypePush,
			DeliveryID: deliveryID,
			Repository: testutil.StringPtr("acme/shop"),
			Sender:     testutil.StringPtr("octocat"),
			Payload:    json.RawMessage(`{"ref":"refs/heads/main","commits":[]}`),
		}

		inserted, err := repo.Record(ctx, req)
		require.NoError(t, err)
		assert.True(t, inserted)

		got, err := repo.GetByDeliveryID(ctx, deliveryID)
		require.NoError(t, err)
		assert.Equal(t, model.EventTypePush, got.EventType)
		require.NotNil(t, got.Repository)
		assert.Equal(t, "acme/shop", *got.Repository)
		assert.NotZero(t, got.ProcessedAt)
	})
}

func TestWebhookEventRepo_DuplicateDeliveryIsNotReinserted(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewWebhookEventRepo(db)

		req := &model.RecordWebhookEventRequest{
			EventType:  model.EventTypePullRequest,
			DeliveryID: fmt.Sprintf("delivery-%d", time.Now().UnixNano()),
			Payload:    json.RawMessage(`{"action":"opened"}`),
		}

		inserted, err := repo.Record(ctx, req)
		require.NoError(t, err)
		assert.True(t, inserted)

		// provider retry with the same delivery id
		inserted, err = repo.Record(ctx, req)
		require.NoError(t, err)
		assert.False(t, inserted)

		var count int
		require.NoError(t, db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM webhook_events WHERE delivery_id = $1`, req.DeliveryID).Scan(&count))
		assert.Equal(t, 1, count)
	})
}

func TestWebhookEventRepo_GetByDeliveryID_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewWebhookEventRepo(db)
		_, err := repo.GetByDeliveryID(context.Background(), "never-delivered")
		require.ErrorIs(t, err, ErrWebhookEventNotFound)
	})
}

func TestWebhookEventRepo_Record_Validation(t *testing.T) {
	repo := NewWebhookEventRepo(nil)

	_, err := repo.Record(context.Background(), nil)
	require.Error(t, err)

	_, err = repo.Record(context.Background(), &model.RecordWebhookEventRequest{
		EventType: model.EventTypePush,
	})
	require.Error(t, err)
}
