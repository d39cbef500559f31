package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
)

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new project
func (r *PostgresProjectRepository) Create(ctx context.Context, project *docsystem.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, owner_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		project.ID,
		project.Name,
		project.OwnerID,
		project.IsActive,
		project.CreatedAt,
		project.UpdatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project %q already exists", project.Name),
				ResourceType: "project",
				ResourceID:   project.ID,
			}
		}
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by ID
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*docsystem.Project, error) {
	query := fmt.Sprintf(`
		SELECT id, name, owner_id, is_active, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Projects)

	var project docsystem.Project
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.OwnerID,
		&project.IsActive,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("project %s not found", id)}
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// Update updates a project's name, active flag and updated_at
func (r *PostgresProjectRepository) Update(ctx context.Context, project *docsystem.Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, is_active = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		project.Name,
		project.IsActive,
		project.UpdatedAt,
		project.ID,
	)

	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("project %s not found", project.ID)}
	}

	return nil
}

// Delete removes a project row
func (r *PostgresProjectRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.InvalidStateError{Message: "project still has folders or documents"}
		}
		return fmt.Errorf("delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("project %s not found", id)}
	}

	return nil
}

// ListByOwner lists projects for an owner, optionally including archived ones
func (r *PostgresProjectRepository) ListByOwner(ctx context.Context, ownerID string, includeArchived bool) ([]docsystem.Project, error) {
	query := fmt.Sprintf(`
		SELECT id, name, owner_id, is_active, created_at, updated_at
		FROM %s
		WHERE owner_id = $1
	`, r.tables.Projects)
	if !includeArchived {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY created_at ASC"

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []docsystem.Project
	for rows.Next() {
		var project docsystem.Project
		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.OwnerID,
			&project.IsActive,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}
