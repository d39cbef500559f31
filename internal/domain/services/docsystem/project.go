package docsystem

import (
	"context"

	"docvault/internal/domain/models/docsystem"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
}

// UpdateProjectRequest represents a request to rename a project
type UpdateProjectRequest struct {
	Name string `json:"name"`
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	// CreateProject creates a new active project
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*docsystem.Project, error)

	// GetProject retrieves a project by ID
	GetProject(ctx context.Context, actorID, id string) (*docsystem.Project, error)

	// ListProjects retrieves projects owned by the actor; archived projects are
	// excluded unless includeArchived is set
	ListProjects(ctx context.Context, actorID string, includeArchived bool) ([]docsystem.Project, error)

	// UpdateProject renames a project
	UpdateProject(ctx context.Context, actorID, id string, req *UpdateProjectRequest) (*docsystem.Project, error)
}
