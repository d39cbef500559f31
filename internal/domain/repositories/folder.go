package repositories

import (
	"context"

	"docvault/internal/domain/models/docsystem"
)

// FolderRepository defines data access operations for folders.
// Path and level are stored columns; writers are responsible for keeping them
// consistent with the parent chain (see the folder service).
type FolderRepository interface {
	// Create creates a new folder with its materialized path and level
	Create(ctx context.Context, folder *docsystem.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*docsystem.Folder, error)

	// Update persists name, parent, path, level, archived flag and updated_at
	Update(ctx context.Context, folder *docsystem.Folder) error

	// Delete removes a folder row
	Delete(ctx context.Context, id string) error

	// ListChildren lists immediate child folders (nil parentID = project roots)
	ListChildren(ctx context.Context, projectID string, parentID *string) ([]docsystem.Folder, error)

	// ListByProject retrieves all folders in a project as a flat list
	ListByProject(ctx context.Context, projectID string) ([]docsystem.Folder, error)

	// LockProjectTree takes an exclusive lock on the project's folder
	// structure for the duration of the surrounding transaction. Callers
	// must hold it before validating and rewriting paths so concurrent
	// moves cannot interleave into a cycle.
	LockProjectTree(ctx context.Context, projectID string) error
}
