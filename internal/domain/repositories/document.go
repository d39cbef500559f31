package repositories

import (
	"context"
	"time"

	"docvault/internal/domain/models/docsystem"
)

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create creates a new document row
	Create(ctx context.Context, doc *docsystem.Document) error

	// GetByID retrieves a document by ID (including soft-deleted rows)
	GetByID(ctx context.Context, id string) (*docsystem.Document, error)

	// Update persists title, description, project/folder placement and updated_at
	Update(ctx context.Context, doc *docsystem.Document) error

	// SetCurrentVersion atomically repoints the current-version pointer
	SetCurrentVersion(ctx context.Context, docID, versionID string, updatedAt time.Time) error

	// SoftDelete marks a document deleted; versions and blobs are untouched
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error

	// ListByFolder lists non-deleted documents in a folder (nil = project root)
	ListByFolder(ctx context.Context, projectID string, folderID *string) ([]docsystem.Document, error)

	// ListByProject lists all non-deleted documents in a project
	ListByProject(ctx context.Context, projectID string) ([]docsystem.Document, error)
}
