package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/archlens/scan-api/internal/errors"

	"github.com/archlens/scan-api/internal/data/pgxutil"
	"github.com/archlens/scan-api/internal/domain/model"
)

// ErrProjectNotFound is returned when a project is not found.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepo provides database operations for the project registry.
type ProjectRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProjectRepo creates a new ProjectRepo with real time provider.
func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewProjectRepoWithTimeProvider creates a new ProjectRepo with a custom time provider (useful for tests).
func NewProjectRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProjectRepo {
	return &ProjectRepo{DB: db, timeProvider: tp}
}

const projectColumns = `id, name, description, path, framework, metadata, created_at, updated_at`

const (
	projectGetByIDQuery = `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE id = $1`

	projectGetByNameQuery = `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE name = $1`

	projectListQuery = `
		SELECT ` + projectColumns + `
		FROM projects
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	// Insert-if-absent keyed on the name unique constraint. DO NOTHING plus a
	// follow-up fetch closes the read-then-write race: concurrent first-events
	// for one name converge on a single row.
	projectInsertIfAbsentQuery = `
		INSERT INTO projects (name, description, path, framework, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (name) DO NOTHING
		RETURNING ` + projectColumns
)

// FindOrCreate atomically resolves a repository name to a project row,
// creating one only when the name is absent.
func (r *ProjectRepo) FindOrCreate(
	ctx context.Context,
	req *model.CreateProjectRequest,
) (*model.Project, error) {
	if req == nil {
		return nil, errors.New("create project request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid project")
	}

	name := strings.TrimSpace(req.Name)
	now := r.timeProvider.Now().UTC()

	var out model.Project
	inserted := true
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, projectInsertIfAbsentQuery,
			name,
			req.Description,
			req.Path,
			req.Framework,
			req.Metadata,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Project])
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict path: the row already exists, fetch it by name.
			inserted = false
			return nil
		}
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	if inserted {
		return &out, nil
	}
	return r.GetByName(ctx, name)
}

// GetByID retrieves a project by ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	return r.getByQuery(ctx, projectGetByIDQuery, "failed to get project by ID", id)
}

// GetByName retrieves a project by its repository name.
func (r *ProjectRepo) GetByName(ctx context.Context, name string) (*model.Project, error) {
	return r.getByQuery(ctx, projectGetByNameQuery, "failed to get project by name", name)
}

// List retrieves projects with pagination.
func (r *ProjectRepo) List(ctx context.Context, limit, offset int) ([]*model.Project, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Project
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, projectListQuery, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Project])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	res := make([]*model.Project, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// getByQuery executes a query expected to return a single project.
func (r *ProjectRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Project, error) {
	var project model.Project
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		project, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Project])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &project, nil
}
