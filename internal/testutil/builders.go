package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/archlens/scan-api/internal/domain/model"
)

// ProjectRequestBuilder provides a fluent interface for building CreateProjectRequest objects for testing.
type ProjectRequestBuilder struct {
	req *model.CreateProjectRequest
}

// NewProjectRequest creates a new ProjectRequestBuilder with sensible defaults.
func NewProjectRequest() *ProjectRequestBuilder {
	name := fmt.Sprintf("acme/repo-%s", uuid.NewString()[:8])
	return &ProjectRequestBuilder{
		req: &model.CreateProjectRequest{
			Name:      name,
			Path:      StringPtr("https://github.com/" + name),
			Framework: StringPtr("github"),
		},
	}
}

// WithName sets the project name.
func (b *ProjectRequestBuilder) WithName(name string) *ProjectRequestBuilder {
	b.req.Name = name
	return b
}

// WithDescription sets the project description.
func (b *ProjectRequestBuilder) WithDescription(desc string) *ProjectRequestBuilder {
	b.req.Description = StringPtr(desc)
	return b
}

// WithMetadata sets the project metadata.
func (b *ProjectRequestBuilder) WithMetadata(metadata json.RawMessage) *ProjectRequestBuilder {
	b.req.Metadata = metadata
	return b
}

// Build returns the constructed CreateProjectRequest.
func (b *ProjectRequestBuilder) Build() *model.CreateProjectRequest {
	return b.req
}

// ScanRequestBuilder provides a fluent interface for building CreateScanRequest objects for testing.
type ScanRequestBuilder struct {
	req *model.CreateScanRequest
}

// NewScanRequest creates a new ScanRequestBuilder with sensible defaults.
func NewScanRequest(projectID string) *ScanRequestBuilder {
	return &ScanRequestBuilder{
		req: &model.CreateScanRequest{
			ProjectID: projectID,
			ScanType:  model.ScanTypeWebhookTriggered,
			Priority:  model.PriorityNormal,
			Metadata:  json.RawMessage(`{"commits":[{"id":"abc123","message":"init","author":"Ada"}]}`),
		},
	}
}

// WithType sets the scan type.
func (b *ScanRequestBuilder) WithType(t model.ScanType) *ScanRequestBuilder {
	b.req.ScanType = t
	return b
}

// WithPriority sets the queue priority.
func (b *ScanRequestBuilder) WithPriority(p model.QueuePriority) *ScanRequestBuilder {
	b.req.Priority = p
	return b
}

// WithMetadata sets the scan metadata.
func (b *ScanRequestBuilder) WithMetadata(metadata json.RawMessage) *ScanRequestBuilder {
	b.req.Metadata = metadata
	return b
}

// Build returns the constructed CreateScanRequest.
func (b *ScanRequestBuilder) Build() *model.CreateScanRequest {
	return b.req
}
