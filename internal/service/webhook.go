package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/archlens/scan-api/internal/core"
	"github.com/archlens/scan-api/internal/domain/model"
	apperrors "github.com/archlens/scan-api/internal/errors"
	obserrors "github.com/archlens/scan-api/internal/observability/errors"
	"github.com/archlens/scan-api/internal/observability/metrics"
	"github.com/archlens/scan-api/internal/observability/statsd"
)

// WebhookServiceOptions groups dependencies for WebhookService.
type WebhookServiceOptions struct {
	Projects core.ProjectRepository       // Required: project registry
	Scans    core.ScanRepository          // Required: scan + queue storage
	Events   core.WebhookEventRepository  // Required: delivery audit log
	Notifier core.QueueNotifier           // Optional: worker wake-up
	Metrics  statsd.Sink                  // Optional: metrics sink (StatsD-compatible)
	Logger   *slog.Logger                 // Optional: structured logger
}

// WebhookService routes inbound repository events to their handlers.
//
// The pipeline per delivery is: record the audit row (duplicates short-circuit),
// then dispatch on the event type. Push and pull_request deliveries create a
// scan plus its queue entry in one transaction; repository deliveries register
// projects; everything else is a recorded no-op.
type WebhookService struct {
	projects core.ProjectRepository
	scans    core.ScanRepository
	events   core.WebhookEventRepository
	notifier core.QueueNotifier
	metrics  statsd.Sink
	logger   *slog.Logger
}

// NewWebhookService constructs a new WebhookService.
func NewWebhookService(opts WebhookServiceOptions) (*WebhookService, error) {
	if opts.Projects == nil {
		return nil, errors.New("ProjectRepository is required")
	}
	if opts.Scans == nil {
		return nil, errors.New("ScanRepository is required")
	}
	if opts.Events == nil {
		return nil, errors.New("WebhookEventRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &WebhookService{
		projects: opts.Projects,
		scans:    opts.Scans,
		events:   opts.Events,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		logger:   logger.With("component", "webhook_service"),
	}, nil
}

// Process handles one inbound delivery end to end and returns the structured
// outcome for the HTTP response. Errors indicate a critical storage failure;
// benign no-ops come back as a result with Processed=false.
func (s *WebhookService) Process(ctx context.Context, ev model.InboundEvent) (*model.HandlerResult, error) {
	start := time.Now()

	result, err := s.process(ctx, ev)

	metrics.EmitDelivery(s.metrics, metrics.DeliveryMetric{
		EventType: string(ev.Type),
		Result:    deliveryResult(result, err),
		ErrorType: obserrors.Classify(err),
		Duration:  time.Since(start),
	})

	return result, err
}

func (s *WebhookService) process(ctx context.Context, ev model.InboundEvent) (*model.HandlerResult, error) {
	inserted, err := s.recordDelivery(ctx, ev)
	if err != nil {
		// The audit log is best-effort; a failed insert must not drop the event.
		s.logger.ErrorContext(ctx, "failed to record webhook delivery",
			"delivery_id", ev.DeliveryID,
			"event_type", ev.Type,
			"error", err,
		)
	} else if !inserted {
		s.logger.InfoContext(ctx, "duplicate delivery ignored", "delivery_id", ev.DeliveryID)
		return &model.HandlerResult{Message: "duplicate delivery", Processed: false}, nil
	}

	switch ev.Type {
	case model.EventTypePush:
		return s.handlePush(ctx, ev)
	case model.EventTypePullRequest:
		return s.handlePullRequest(ctx, ev)
	case model.EventTypeRepository:
		return s.handleRepository(ctx, ev)
	default:
		s.logger.DebugContext(ctx, "unhandled event type",
			"event_type", ev.Type, "delivery_id", ev.DeliveryID)
		return &model.HandlerResult{Message: "event type not handled", Processed: false}, nil
	}
}

// recordDelivery writes the audit row, pulling repository and sender from the
// common payload envelope when present.
func (s *WebhookService) recordDelivery(ctx context.Context, ev model.InboundEvent) (bool, error) {
	req := &model.RecordWebhookEventRequest{
		EventType:  ev.Type,
		DeliveryID: ev.DeliveryID,
		Payload:    ev.RawPayload,
	}

	var envelope model.EnvelopePayload
	if err := json.Unmarshal(ev.RawPayload, &envelope); err == nil {
		if envelope.Repository != nil && envelope.Repository.FullName != "" {
			req.Repository = &envelope.Repository.FullName
		}
		if envelope.Sender != nil && envelope.Sender.Login != "" {
			req.Sender = &envelope.Sender.Login
		}
	}

	return s.events.Record(ctx, req)
}

func (s *WebhookService) handlePush(ctx context.Context, ev model.InboundEvent) (*model.HandlerResult, error) {
	var payload model.PushPayload
	if err := json.Unmarshal(ev.RawPayload, &payload); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "decode push payload")
	}

	if payload.Repository.FullName == "" {
		return &model.HandlerResult{Message: "push without repository", Processed: false}, nil
	}
	if len(payload.Commits) == 0 {
		return &model.HandlerResult{Message: "no commits to scan", Processed: false}, nil
	}

	project, err := s.resolveProject(ctx, payload.Repository)
	if err != nil {
		return nil, fmt.Errorf("resolve project %s: %w", payload.Repository.FullName, err)
	}

	commits := make([]model.CommitRef, len(payload.Commits))
	for i, c := range payload.Commits {
		commits[i] = model.CommitRef{ID: c.ID, Message: c.Message, Author: c.Author.Name}
	}

	meta, err := json.Marshal(model.PushScanMetadata{
		Repository: payload.Repository.FullName,
		Ref:        payload.Ref,
		Commits:    commits,
	})
	if err != nil {
		return nil, fmt.Errorf("encode push scan metadata: %w", err)
	}

	scan, err := s.enqueueScan(ctx, &model.CreateScanRequest{
		ProjectID: project.ID,
		ScanType:  model.ScanTypeWebhookTriggered,
		Metadata:  meta,
		Priority:  model.PriorityNormal,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "push scan queued",
		"project", project.Name,
		"scan_id", scan.ID,
		"ref", payload.Ref,
		"commits", len(commits),
	)

	return &model.HandlerResult{
		Message:     "scan queued",
		Processed:   true,
		ProjectID:   project.ID,
		ScanID:      scan.ID,
		CommitCount: len(commits),
	}, nil
}

// Pull request actions that trigger a scan. Review-only actions such as
// labeled or closed do not produce work.
var scannablePRActions = map[string]bool{
	"opened":      true,
	"synchronize": true,
}

func (s *WebhookService) handlePullRequest(ctx context.Context, ev model.InboundEvent) (*model.HandlerResult, error) {
	var payload model.PullRequestPayload
	if err := json.Unmarshal(ev.RawPayload, &payload); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "decode pull_request payload")
	}

	if payload.Repository.FullName == "" {
		return &model.HandlerResult{Message: "pull_request without repository", Processed: false}, nil
	}
	if !scannablePRActions[payload.Action] {
		return &model.HandlerResult{
			Message:   fmt.Sprintf("pull_request action %q not scanned", payload.Action),
			Processed: false,
			PRNumber:  payload.Number,
		}, nil
	}

	project, err := s.resolveProject(ctx, payload.Repository)
	if err != nil {
		return nil, fmt.Errorf("resolve project %s: %w", payload.Repository.FullName, err)
	}

	meta, err := json.Marshal(model.PullRequestScanMetadata{
		Repository: payload.Repository.FullName,
		PRNumber:   payload.Number,
		Title:      payload.PullRequest.Title,
		URL:        payload.PullRequest.HTMLURL,
		HeadSHA:    payload.PullRequest.Head.SHA,
		HeadRef:    payload.PullRequest.Head.Ref,
	})
	if err != nil {
		return nil, fmt.Errorf("encode pull_request scan metadata: %w", err)
	}

	scan, err := s.enqueueScan(ctx, &model.CreateScanRequest{
		ProjectID: project.ID,
		ScanType:  model.ScanTypePullRequest,
		Metadata:  meta,
		Priority:  model.PriorityNormal,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "pull request scan queued",
		"project", project.Name,
		"scan_id", scan.ID,
		"pr_number", payload.Number,
		"action", payload.Action,
	)

	return &model.HandlerResult{
		Message:   "scan queued",
		Processed: true,
		ProjectID: project.ID,
		ScanID:    scan.ID,
		PRNumber:  payload.Number,
	}, nil
}

func (s *WebhookService) handleRepository(ctx context.Context, ev model.InboundEvent) (*model.HandlerResult, error) {
	var payload model.RepositoryPayload
	if err := json.Unmarshal(ev.RawPayload, &payload); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "decode repository payload")
	}

	if payload.Action != "created" {
		return &model.HandlerResult{
			Message:   fmt.Sprintf("repository action %q not handled", payload.Action),
			Processed: false,
		}, nil
	}
	if payload.Repository.FullName == "" {
		return &model.HandlerResult{Message: "repository event without full name", Processed: false}, nil
	}

	project, err := s.resolveProject(ctx, payload.Repository)
	if err != nil {
		return nil, fmt.Errorf("register project %s: %w", payload.Repository.FullName, err)
	}

	s.logger.InfoContext(ctx, "project registered from repository event",
		"project", project.Name, "project_id", project.ID)

	return &model.HandlerResult{
		Message:   "project registered",
		Processed: true,
		ProjectID: project.ID,
	}, nil
}

// resolveProject maps a repository reference onto a project row, creating one
// on first sight. Concurrent deliveries for the same new repository converge
// on a single row inside the repository layer.
func (s *WebhookService) resolveProject(ctx context.Context, repo model.RepositoryRef) (*model.Project, error) {
	framework := "github"
	autoMeta, err := json.Marshal(map[string]any{
		"auto_registered": true,
		"full_name":       repo.FullName,
	})
	if err != nil {
		return nil, err
	}

	req := &model.CreateProjectRequest{
		Name:      repo.FullName,
		Framework: &framework,
		Metadata:  autoMeta,
	}
	if repo.HTMLURL != "" {
		req.Path = &repo.HTMLURL
	}
	description := "Auto-created from GitHub webhook for " + repo.FullName
	if repo.Description != nil && *repo.Description != "" {
		description = *repo.Description
	}
	req.Description = &description

	return s.projects.FindOrCreate(ctx, req)
}

// enqueueScan creates the scan with its queue entry and fires the best-effort
// worker notification.
func (s *WebhookService) enqueueScan(ctx context.Context, req *model.CreateScanRequest) (*model.Scan, error) {
	scan, err := s.scans.CreateWithQueueEntry(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create scan: %w", err)
	}

	metrics.EmitScanQueued(s.metrics, string(scan.ScanType), string(req.Priority))

	if s.notifier != nil {
		if notifyErr := s.notifier.NotifyScanQueued(ctx, scan.ID); notifyErr != nil {
			s.logger.WarnContext(ctx, "queue notification failed",
				"scan_id", scan.ID, "error", notifyErr)
		}
	}

	return scan, nil
}

func deliveryResult(result *model.HandlerResult, err error) string {
	switch {
	case err != nil:
		return metrics.ResultError
	case result != nil && result.Message == "duplicate delivery":
		return metrics.ResultDuplicate
	case result != nil && !result.Processed:
		return metrics.ResultIgnored
	default:
		return metrics.ResultSuccess
	}
}
