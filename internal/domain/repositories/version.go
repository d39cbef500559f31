package repositories

import (
	"context"

	"docvault/internal/domain/models/docsystem"
)

// VersionRepository defines data access for the append-only version chain.
// Rows are insert-only; there is no update or delete.
type VersionRepository interface {
	// Create inserts a new version row
	Create(ctx context.Context, version *docsystem.DocumentVersion) error

	// GetByID retrieves a version by its row ID
	GetByID(ctx context.Context, id string) (*docsystem.DocumentVersion, error)

	// GetByNumber retrieves a version by (document, versionNumber)
	GetByNumber(ctx context.Context, documentID string, versionNumber int) (*docsystem.DocumentVersion, error)

	// ListByDocument lists all versions of a document ordered by version number
	ListByDocument(ctx context.Context, documentID string) ([]docsystem.DocumentVersion, error)

	// MaxVersionNumber returns the highest version number for a document,
	// or 0 if the document has no versions yet
	MaxVersionNumber(ctx context.Context, documentID string) (int, error)
}
