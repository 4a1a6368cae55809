package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/archlens/scan-api/internal/domain/model"
	apperrors "github.com/archlens/scan-api/internal/errors"
	"github.com/archlens/scan-api/internal/mocks"
)

type webhookMocks struct {
	projects *mocks.MockProjectRepository
	scans    *mocks.MockScanRepository
	events   *mocks.MockWebhookEventRepository
	notifier *mocks.MockQueueNotifier
}

func newWebhookService(t *testing.T) (*WebhookService, webhookMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := webhookMocks{
		projects: mocks.NewMockProjectRepository(ctrl),
		scans:    mocks.NewMockScanRepository(ctrl),
		events:   mocks.NewMockWebhookEventRepository(ctrl),
		notifier: mocks.NewMockQueueNotifier(ctrl),
	}

	svc, err := NewWebhookService(WebhookServiceOptions{
		Projects: m.projects,
		Scans:    m.scans,
		Events:   m.events,
		Notifier: m.notifier,
	})
	require.NoError(t, err)
	return svc, m
}

func pushEvent(t *testing.T, payload model.PushPayload) model.InboundEvent {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return model.InboundEvent{
		Type:       model.EventTypePush,
		DeliveryID: "delivery-1",
		RawPayload: raw,
		ReceivedAt: time.Now(),
	}
}

func samplePushPayload() model.PushPayload {
	p := model.PushPayload{
		Ref: "refs/heads/main",
		Repository: model.RepositoryRef{
			FullName: "acme/shop",
			HTMLURL:  "https://github.com/acme/shop",
		},
		Sender: model.SenderRef{Login: "octocat"},
	}
	c := model.PushCommit{ID: "abc123", Message: "fix checkout"}
	c.Author.Name = "Ada"
	p.Commits = []model.PushCommit{c}
	return p
}

func TestWebhookService_Push_QueuesScan(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()

	project := &model.Project{ID: "proj-1", Name: "acme/shop"}

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.RecordWebhookEventRequest) (bool, error) {
			assert.Equal(t, model.EventTypePush, req.EventType)
			assert.Equal(t, "delivery-1", req.DeliveryID)
			require.NotNil(t, req.Repository)
			assert.Equal(t, "acme/shop", *req.Repository)
			require.NotNil(t, req.Sender)
			assert.Equal(t, "octocat", *req.Sender)
			return true, nil
		})
	m.projects.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateProjectRequest) (*model.Project, error) {
			assert.Equal(t, "acme/shop", req.Name)
			require.NotNil(t, req.Framework)
			assert.Equal(t, "github", *req.Framework)
			return project, nil
		})
	m.scans.EXPECT().CreateWithQueueEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateScanRequest) (*model.Scan, error) {
			assert.Equal(t, "proj-1", req.ProjectID)
			assert.Equal(t, model.ScanTypeWebhookTriggered, req.ScanType)
			assert.Equal(t, model.PriorityNormal, req.Priority)

			var meta model.PushScanMetadata
			require.NoError(t, json.Unmarshal(req.Metadata, &meta))
			assert.Equal(t, "refs/heads/main", meta.Ref)
			require.Len(t, meta.Commits, 1)
			assert.Equal(t, "abc123", meta.Commits[0].ID)
			assert.Equal(t, "Ada", meta.Commits[0].Author)

			return &model.Scan{ID: "scan-1", ProjectID: req.ProjectID,
				ScanType: req.ScanType, Status: model.ScanStatusQueued}, nil
		})
	m.notifier.EXPECT().NotifyScanQueued(gomock.Any(), "scan-1").Return(nil)

	result, err := svc.Process(ctx, pushEvent(t, samplePushPayload()))
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, "scan queued", result.Message)
	assert.Equal(t, "proj-1", result.ProjectID)
	assert.Equal(t, "scan-1", result.ScanID)
	assert.Equal(t, 1, result.CommitCount)
}

func TestWebhookService_Push_NoCommitsIsNoop(t *testing.T) {
	svc, m := newWebhookService(t)

	payload := samplePushPayload()
	payload.Commits = nil

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)

	result, err := svc.Process(context.Background(), pushEvent(t, payload))
	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, "no commits to scan", result.Message)
}

func TestWebhookService_DuplicateDeliveryShortCircuits(t *testing.T) {
	svc, m := newWebhookService(t)

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(false, nil)

	result, err := svc.Process(context.Background(), pushEvent(t, samplePushPayload()))
	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, "duplicate delivery", result.Message)
}

func TestWebhookService_AuditFailureDoesNotDropEvent(t *testing.T) {
	svc, m := newWebhookService(t)

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).
		Return(false, errors.New("connection reset"))
	m.projects.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		Return(&model.Project{ID: "proj-1", Name: "acme/shop"}, nil)
	m.scans.EXPECT().CreateWithQueueEntry(gomock.Any(), gomock.Any()).
		Return(&model.Scan{ID: "scan-1", ScanType: model.ScanTypeWebhookTriggered,
			Status: model.ScanStatusQueued}, nil)
	m.notifier.EXPECT().NotifyScanQueued(gomock.Any(), "scan-1").Return(nil)

	result, err := svc.Process(context.Background(), pushEvent(t, samplePushPayload()))
	require.NoError(t, err)
	assert.True(t, result.Processed)
}

func TestWebhookService_NotifierFailureIsNonFatal(t *testing.T) {
	svc, m := newWebhookService(t)

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)
	m.projects.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		Return(&model.Project{ID: "proj-1", Name: "acme/shop"}, nil)
	m.scans.EXPECT().CreateWithQueueEntry(gomock.Any(), gomock.Any()).
		Return(&model.Scan{ID: "scan-1", ScanType: model.ScanTypeWebhookTriggered,
			Status: model.ScanStatusQueued}, nil)
	m.notifier.EXPECT().NotifyScanQueued(gomock.Any(), "scan-1").
		Return(errors.New("redis down"))

	result, err := svc.Process(context.Background(), pushEvent(t, samplePushPayload()))
	require.NoError(t, err)
	assert.True(t, result.Processed)
}

func TestWebhookService_StorageFailurePropagates(t *testing.T) {
	svc, m := newWebhookService(t)

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)
	m.projects.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		Return(&model.Project{ID: "proj-1", Name: "acme/shop"}, nil)
	m.scans.EXPECT().CreateWithQueueEntry(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("deadlock detected"))

	_, err := svc.Process(context.Background(), pushEvent(t, samplePushPayload()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create scan")
}

func pullRequestEvent(t *testing.T, payload model.PullRequestPayload) model.InboundEvent {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return model.InboundEvent{
		Type:       model.EventTypePullRequest,
		DeliveryID: "delivery-2",
		RawPayload: raw,
		ReceivedAt: time.Now(),
	}
}

func samplePRPayload(action string) model.PullRequestPayload {
	p := model.PullRequestPayload{
		Action: action,
		Number: 42,
		Repository: model.RepositoryRef{
			FullName: "acme/shop",
			HTMLURL:  "https://github.com/acme/shop",
		},
		Sender: model.SenderRef{Login: "octocat"},
	}
	p.PullRequest.Title = "Refactor checkout"
	p.PullRequest.HTMLURL = "https://github.com/acme/shop/pull/42"
	p.PullRequest.Head.SHA = "abc123"
	p.PullRequest.Head.Ref = "feature/checkout"
	return p
}

func TestWebhookService_PullRequest_OpenedQueuesScan(t *testing.T) {
	svc, m := newWebhookService(t)

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)
	m.projects.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		Return(&model.Project{ID: "proj-1", Name: "acme/shop"}, nil)
	m.scans.EXPECT().CreateWithQueueEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateScanRequest) (*model.Scan, error) {
			assert.Equal(t, model.ScanTypePullRequest, req.ScanType)
			assert.Equal(t, model.PriorityNormal, req.Priority)

			var meta model.PullRequestScanMetadata
			require.NoError(t, json.Unmarshal(req.Metadata, &meta))
			assert.Equal(t, 42, meta.PRNumber)
			assert.Equal(t, "abc123", meta.HeadSHA)
			assert.Equal(t, "feature/checkout", meta.HeadRef)

			return &model.Scan{ID: "scan-2", ScanType: req.ScanType,
				Status: model.ScanStatusQueued}, nil
		})
	m.notifier.EXPECT().NotifyScanQueued(gomock.Any(), "scan-2").Return(nil)

	result, err := svc.Process(context.Background(), pullRequestEvent(t, samplePRPayload("opened")))
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, 42, result.PRNumber)
	assert.Equal(t, "scan-2", result.ScanID)
}

func TestWebhookService_PullRequest_IgnoredActions(t *testing.T) {
	for _, action := range []string{"closed", "labeled", "reopened", "review_requested"} {
		t.Run(action, func(t *testing.T) {
			svc, m := newWebhookService(t)
			m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)

			result, err := svc.Process(context.Background(),
				pullRequestEvent(t, samplePRPayload(action)))
			require.NoError(t, err)
			assert.False(t, result.Processed)
			assert.Equal(t, 42, result.PRNumber)
		})
	}
}

func TestWebhookService_Repository_CreatedRegistersProject(t *testing.T) {
	svc, m := newWebhookService(t)

	desc := "storefront service"
	payload := model.RepositoryPayload{
		Action: "created",
		Repository: model.RepositoryRef{
			FullName:    "acme/storefront",
			HTMLURL:     "https://github.com/acme/storefront",
			Description: &desc,
		},
		Sender: model.SenderRef{Login: "octocat"},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)
	m.projects.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateProjectRequest) (*model.Project, error) {
			assert.Equal(t, "acme/storefront", req.Name)
			require.NotNil(t, req.Description)
			assert.Equal(t, desc, *req.Description)

			var meta map[string]any
			require.NoError(t, json.Unmarshal(req.Metadata, &meta))
			assert.Equal(t, true, meta["auto_registered"])
			assert.Equal(t, "acme/storefront", meta["full_name"])

			return &model.Project{ID: "proj-9", Name: req.Name}, nil
		})

	result, err := svc.Process(context.Background(), model.InboundEvent{
		Type:       model.EventTypeRepository,
		DeliveryID: "delivery-3",
		RawPayload: raw,
	})
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, "project registered", result.Message)
	assert.Equal(t, "proj-9", result.ProjectID)
	assert.Empty(t, result.ScanID)
}

func TestWebhookService_Repository_OtherActionsAreNoops(t *testing.T) {
	svc, m := newWebhookService(t)

	raw, err := json.Marshal(model.RepositoryPayload{
		Action:     "deleted",
		Repository: model.RepositoryRef{FullName: "acme/storefront"},
	})
	require.NoError(t, err)

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)

	result, err := svc.Process(context.Background(), model.InboundEvent{
		Type:       model.EventTypeRepository,
		DeliveryID: "delivery-4",
		RawPayload: raw,
	})
	require.NoError(t, err)
	assert.False(t, result.Processed)
}

func TestWebhookService_UnhandledEventTypeIsNoop(t *testing.T) {
	svc, m := newWebhookService(t)

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)

	result, err := svc.Process(context.Background(), model.InboundEvent{
		Type:       model.EventTypeOther,
		DeliveryID: "delivery-5",
		RawPayload: json.RawMessage(`{"zen":"Keep it logically awesome."}`),
	})
	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, "event type not handled", result.Message)
}

func TestWebhookService_MalformedHandlerPayloadErrors(t *testing.T) {
	svc, m := newWebhookService(t)

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)

	// valid JSON for the audit record but the wrong shape for a push handler
	_, err := svc.Process(context.Background(), model.InboundEvent{
		Type:       model.EventTypePush,
		DeliveryID: "delivery-6",
		RawPayload: json.RawMessage(`{"commits":"not-an-array"}`),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err), "decode failures must carry the validation code")
}

func TestNewWebhookService_RequiresRepositories(t *testing.T) {
	_, err := NewWebhookService(WebhookServiceOptions{})
	require.Error(t, err)

	_, err = NewWebhookService(WebhookServiceOptions{
		Projects: mocks.NewMockProjectRepository(gomock.NewController(t)),
	})
	require.Error(t, err)
}
