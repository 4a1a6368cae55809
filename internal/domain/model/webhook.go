package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// EventType classifies an inbound webhook delivery by its event-type header.
// The set is closed; anything unrecognized maps to EventTypeOther so new
// event kinds are deliberate additions rather than silent string matches.
type EventType string

const (
	// EventTypePush is a branch push delivery.
	EventTypePush EventType = "push"
	// EventTypePullRequest is a pull request lifecycle delivery.
	EventTypePullRequest EventType = "pull_request"
	// EventTypeRepository is a repository lifecycle delivery.
	EventTypeRepository EventType = "repository"
	// EventTypeOther is the fallback for event kinds this pipeline does not handle.
	EventTypeOther EventType = "other"
)

// ParseEventType maps a raw event-type header value onto the closed enum.
func ParseEventType(raw string) EventType {
	switch EventType(strings.ToLower(strings.TrimSpace(raw))) {
	case EventTypePush:
		return EventTypePush
	case EventTypePullRequest:
		return EventTypePullRequest
	case EventTypeRepository:
		return EventTypeRepository
	default:
		return EventTypeOther
	}
}

// Valid returns true if the EventType is one of the closed set.
func (t EventType) Valid() bool {
	return t == EventTypePush || t == EventTypePullRequest || t == EventTypeRepository ||
		t == EventTypeOther
}

// WebhookEvent is the immutable audit record of one inbound delivery.
// DeliveryID is sender-assigned and unique; the repository layer treats a
// conflicting insert as "already processed".
type WebhookEvent struct {
	ID          string          `json:"id"           db:"id"`
	EventType   EventType       `json:"event_type"   db:"event_type"`
	DeliveryID  string          `json:"delivery_id"  db:"delivery_id"`
	Repository  *string         `json:"repository,omitempty" db:"repository"`
	Sender      *string         `json:"sender,omitempty"     db:"sender"`
	Payload     json.RawMessage `json:"payload"      db:"payload"`
	ProcessedAt time.Time       `json:"processed_at" db:"processed_at"`
}

// RecordWebhookEventRequest represents parameters to record an audit row.
type RecordWebhookEventRequest struct {
	EventType  EventType       `json:"event_type"`
	DeliveryID string          `json:"delivery_id"`
	Repository *string         `json:"repository,omitempty"`
	Sender     *string         `json:"sender,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// Validate validates RecordWebhookEventRequest.
func (r *RecordWebhookEventRequest) Validate() error {
	if !r.EventType.Valid() {
		return errors.New("invalid event type")
	}
	if strings.TrimSpace(r.DeliveryID) == "" {
		return errors.New("delivery_id is required")
	}
	if len(r.Payload) > 0 && !json.Valid(r.Payload) {
		return errors.New("payload must be valid JSON")
	}
	return nil
}

// InboundEvent carries one parsed webhook delivery through the pipeline.
// RawPayload is the exact request body; handler-specific fields are decoded
// from it by the router.
type InboundEvent struct {
	Type       EventType
	DeliveryID string
	RawPayload json.RawMessage
	ReceivedAt time.Time
}

// HandlerResult is the structured outcome every event handler returns.
// Processed reports whether the delivery produced durable work; benign
// no-ops return Processed=false with a 200 response.
type HandlerResult struct {
	Message     string `json:"message"`
	Processed   bool   `json:"processed"`
	ProjectID   string `json:"project_id,omitempty"`
	ScanID      string `json:"scan_id,omitempty"`
	CommitCount int    `json:"commit_count,omitempty"`
	PRNumber    int    `json:"pr_number,omitempty"`
}

// RepositoryRef identifies the repository a delivery refers to.
type RepositoryRef struct {
	FullName    string  `json:"full_name"`
	HTMLURL     string  `json:"html_url"`
	Description *string `json:"description,omitempty"`
}

// SenderRef identifies the account that triggered a delivery.
type SenderRef struct {
	Login string `json:"login"`
}

// PushCommit is one commit entry in a push delivery payload.
type PushCommit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Author  struct {
		Name string `json:"name"`
	} `json:"author"`
}

// PushPayload is the subset of a push delivery body the router consumes.
type PushPayload struct {
	Ref        string        `json:"ref"`
	Repository RepositoryRef `json:"repository"`
	Sender     SenderRef     `json:"sender"`
	Commits    []PushCommit  `json:"commits"`
}

// PullRequestPayload is the subset of a pull_request delivery body the router consumes.
type PullRequestPayload struct {
	Action      string        `json:"action"`
	Number      int           `json:"number"`
	Repository  RepositoryRef `json:"repository"`
	Sender      SenderRef     `json:"sender"`
	PullRequest struct {
		Title   string `json:"title"`
		HTMLURL string `json:"html_url"`
		Head    struct {
			SHA string `json:"sha"`
			Ref string `json:"ref"`
		} `json:"head"`
	} `json:"pull_request"`
}

// RepositoryPayload is the subset of a repository delivery body the router consumes.
type RepositoryPayload struct {
	Action     string        `json:"action"`
	Repository RepositoryRef `json:"repository"`
	Sender     SenderRef     `json:"sender"`
}

// EnvelopePayload is the minimal structure every delivery body must parse to.
// It only exists to pull the repository full name and sender login for the
// audit record regardless of event type.
type EnvelopePayload struct {
	Repository *RepositoryRef `json:"repository,omitempty"`
	Sender     *SenderRef     `json:"sender,omitempty"`
}
