package repositories

import (
	"context"

	"docvault/internal/domain/models/docsystem"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *docsystem.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id string) (*docsystem.Project, error)

	// Update updates a project's name, active flag and updated_at
	Update(ctx context.Context, project *docsystem.Project) error

	// Delete removes a project row
	Delete(ctx context.Context, id string) error

	// ListByOwner lists projects for an owner, optionally including archived ones
	ListByOwner(ctx context.Context, ownerID string, includeArchived bool) ([]docsystem.Project, error)
}
