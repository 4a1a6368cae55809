// Package core defines the contracts between the service layer and the data
// layer (ports in hexagonal architecture). Service implementations depend on
// these interfaces, not concrete repositories.
package core

import (
	"context"
	"time"

	"github.com/archlens/scan-api/internal/domain/model"
)

// ProjectRepository defines the interface for project registry operations.
type ProjectRepository interface {
	// FindOrCreate atomically resolves a repository name to a project,
	// inserting a new row only when the name is absent. Concurrent calls for
	// the same new name must converge on a single row.
	FindOrCreate(ctx context.Context, req *model.CreateProjectRequest) (*model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	GetByName(ctx context.Context, name string) (*model.Project, error)
	List(ctx context.Context, limit, offset int) ([]*model.Project, error)
}

// ScanRepository defines the interface for scan and queue-entry operations.
type ScanRepository interface {
	// CreateWithQueueEntry inserts the scan row and its queue entry as one
	// transaction; a failure leaves no durable side effect.
	CreateWithQueueEntry(ctx context.Context, req *model.CreateScanRequest) (*model.Scan, error)
	GetByID(ctx context.Context, id string) (*model.Scan, error)
	// RequeueOrphans finds scans stuck in queued without a queue entry for at
	// least the grace window and re-inserts entries at normal priority.
	// Returns the scan ids that were requeued.
	RequeueOrphans(ctx context.Context, grace time.Duration, batchSize int) ([]string, error)
}

// WebhookEventRepository defines the interface for the delivery audit log.
type WebhookEventRepository interface {
	// Record inserts one audit row keyed on delivery id. The bool result is
	// false when the delivery id was already recorded (duplicate delivery).
	Record(ctx context.Context, req *model.RecordWebhookEventRequest) (bool, error)
	GetByDeliveryID(ctx context.Context, deliveryID string) (*model.WebhookEvent, error)
}

// QueueNotifier nudges scan workers after a durable enqueue. Implementations
// are best-effort; the pipeline never fails a request on notify errors.
type QueueNotifier interface {
	NotifyScanQueued(ctx context.Context, scanID string) error
}
