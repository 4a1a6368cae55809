package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ScanType represents what triggered a scan.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type ScanType string

// ScanStatus represents the current status of a scan.
type ScanStatus string

// QueuePriority represents the queue position class of a scan.
type QueuePriority string

const (
	// ScanTypeWebhookTriggered represents a scan triggered by a push webhook delivery.
	ScanTypeWebhookTriggered ScanType = "webhook_triggered"
	// ScanTypePullRequest represents a scan triggered by a pull request webhook delivery.
	ScanTypePullRequest ScanType = "pull_request"
	// ScanTypeManual represents a scan requested by an operator.
	ScanTypeManual ScanType = "manual"

	// ScanStatusQueued indicates a scan is waiting for a worker.
	ScanStatusQueued ScanStatus = "queued"
	// ScanStatusRunning indicates a scan is currently executing.
	ScanStatusRunning ScanStatus = "running"
	// ScanStatusSucceeded indicates a scan finished successfully.
	ScanStatusSucceeded ScanStatus = "succeeded"
	// ScanStatusFailed indicates a scan failed.
	ScanStatusFailed ScanStatus = "failed"

	// PriorityLow schedules a scan behind normal work.
	PriorityLow QueuePriority = "low"
	// PriorityNormal is the default queue priority.
	PriorityNormal QueuePriority = "normal"
	// PriorityHigh schedules a scan ahead of normal work.
	PriorityHigh QueuePriority = "high"
)

// UnmarshalText implements encoding.TextUnmarshaler for ScanType to allow env parsing.
func (t *ScanType) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	st := ScanType(v)
	if st.Valid() {
		*t = st
		return nil
	}
	return fmt.Errorf("invalid ScanType: %q", v)
}

// Valid returns true if the ScanType is valid.
func (t ScanType) Valid() bool {
	return t == ScanTypeWebhookTriggered || t == ScanTypePullRequest || t == ScanTypeManual
}

// Valid returns true if the ScanStatus is valid.
func (s ScanStatus) Valid() bool {
	return s == ScanStatusQueued || s == ScanStatusRunning || s == ScanStatusSucceeded ||
		s == ScanStatusFailed
}

// Valid returns true if the QueuePriority is valid.
func (p QueuePriority) Valid() bool {
	return p == PriorityLow || p == PriorityNormal || p == PriorityHigh
}

// Scan represents a unit of asynchronous analysis work against a project.
// Status transitions after queued belong to the external scan engine.
type Scan struct {
	ID        string          `json:"id"                 db:"id"`
	ProjectID string          `json:"project_id"         db:"project_id"`
	ScanType  ScanType        `json:"scan_type"          db:"scan_type"`
	Status    ScanStatus      `json:"status"             db:"status"`
	Metadata  json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time       `json:"created_at"         db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"         db:"updated_at"`
}

// QueueEntry represents a scan's position in the asynchronous work queue.
// Entries are consumed and removed by the external scan engine.
type QueueEntry struct {
	ScanID   string        `json:"scan_id"   db:"scan_id"`
	Priority QueuePriority `json:"priority"  db:"priority"`
	QueuedAt time.Time     `json:"queued_at" db:"queued_at"`
}

// CreateScanRequest represents a request to create a scan and its queue entry.
type CreateScanRequest struct {
	ProjectID string          `json:"project_id"`
	ScanType  ScanType        `json:"scan_type"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Priority  QueuePriority   `json:"priority,omitempty"`
}

// Validate validates the CreateScanRequest fields, defaulting priority to normal.
func (r *CreateScanRequest) Validate() error {
	if strings.TrimSpace(r.ProjectID) == "" {
		return errors.New("project_id is required")
	}
	if !r.ScanType.Valid() {
		return errors.New("invalid scan type")
	}
	if r.Priority == "" {
		r.Priority = PriorityNormal
	}
	if !r.Priority.Valid() {
		return errors.New("invalid queue priority")
	}
	if len(r.Metadata) > 0 && !json.Valid(r.Metadata) {
		return errors.New("metadata must be valid JSON")
	}
	return nil
}

// CommitRef captures one commit from a push delivery in scan metadata.
type CommitRef struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Author  string `json:"author"`
}

// PushScanMetadata is the metadata recorded on webhook_triggered scans.
type PushScanMetadata struct {
	Repository string      `json:"repository"`
	Ref        string      `json:"ref,omitempty"`
	Commits    []CommitRef `json:"commits"`
}

// PullRequestScanMetadata is the metadata recorded on pull_request scans.
type PullRequestScanMetadata struct {
	Repository string `json:"repository"`
	PRNumber   int    `json:"pr_number"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	HeadSHA    string `json:"head_sha,omitempty"`
	HeadRef    string `json:"head_ref,omitempty"`
}
