// Package model defines the core data types used throughout the scan-api ingestion pipeline.
package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxProjectNameLen = 255

// Project represents an internal project record keyed by external repository name.
// Name is the join key between external repository identity and internal project
// identity; the repository layer enforces uniqueness on it.
type Project struct {
	ID          string          `json:"id"                    db:"id"`
	Name        string          `json:"name"                  db:"name"`
	Description *string         `json:"description,omitempty" db:"description"`
	Path        *string         `json:"path,omitempty"        db:"path"`
	Framework   *string         `json:"framework,omitempty"   db:"framework"`
	Metadata    json.RawMessage `json:"metadata,omitempty"    db:"metadata"`
	CreatedAt   time.Time       `json:"created_at"            db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"            db:"updated_at"`
}

// CreateProjectRequest represents parameters to create a Project.
type CreateProjectRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Path        *string         `json:"path,omitempty"`
	Framework   *string         `json:"framework,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// Validate validates CreateProjectRequest.
func (r *CreateProjectRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxProjectNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if len(r.Metadata) > 0 && !json.Valid(r.Metadata) {
		return errors.New("metadata must be valid JSON")
	}
	return nil
}
