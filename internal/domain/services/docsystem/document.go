package docsystem

import (
	"context"
	"io"

	"docvault/internal/domain/models/docsystem"
)

// DocumentService owns the document version ledger: monotonic version
// numbering, content hashing, and the single current-version pointer.
type DocumentService interface {
	// CreateDocument creates a document together with its version 1, which
	// becomes the current version. The blob is uploaded before the metadata
	// commit.
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*docsystem.Document, error)

	// GetDocument retrieves a document by ID
	GetDocument(ctx context.Context, actorID, documentID string) (*docsystem.Document, error)

	// UpdateDocument updates title/description metadata
	UpdateDocument(ctx context.Context, actorID, documentID string, req *UpdateDocumentRequest) (*docsystem.Document, error)

	// UploadNewVersion appends a version numbered max+1 and atomically repoints
	// the current-version pointer. A failed blob upload never leaves a version
	// row behind.
	UploadNewVersion(ctx context.Context, req *UploadVersionRequest) (*docsystem.DocumentVersion, error)

	// GetVersion retrieves one version's metadata
	GetVersion(ctx context.Context, actorID, documentID string, versionNumber int) (*docsystem.DocumentVersion, error)

	// ListVersions lists a document's full version history
	ListVersions(ctx context.Context, actorID, documentID string) ([]docsystem.DocumentVersion, error)

	// DownloadVersion streams one version's bytes from the blob store
	DownloadVersion(ctx context.Context, actorID, documentID string, versionNumber int) (io.ReadCloser, *docsystem.DocumentVersion, error)

	// DuplicateDocument copies a document's current version into a new
	// document owned by the actor (template copy)
	DuplicateDocument(ctx context.Context, actorID, documentID string) (*docsystem.Document, error)

	// SoftDeleteDocument marks the document deleted; versions and blobs stay
	SoftDeleteDocument(ctx context.Context, actorID, documentID string) error

	// MoveDocument refiles a document to another project/folder
	MoveDocument(ctx context.Context, actorID, documentID string, projectID, folderID *string) (*docsystem.Document, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	OwnerID     string
	Title       string
	Description string
	ProjectID   *string
	FolderID    *string
	FileName    string
	File        io.Reader
}

// UpdateDocumentRequest represents a metadata update request
type UpdateDocumentRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UploadVersionRequest represents a new-version upload request
type UploadVersionRequest struct {
	ActorID       string
	DocumentID    string
	FileName      string
	File          io.Reader
	ChangeSummary string
}
