package docsystem

import (
	"context"

	"docvault/internal/domain/models/docsystem"
)

// FolderService maintains the folder hierarchy: materialized path/level
// invariants, cycle-safe moves, and the archive flag.
type FolderService interface {
	// CreateFolder creates a folder under a project, computing path and level
	// from the resolved parent
	CreateFolder(ctx context.Context, actorID string, req *CreateFolderRequest) (*docsystem.Folder, error)

	// GetFolder retrieves a folder by ID
	GetFolder(ctx context.Context, actorID, folderID string) (*docsystem.Folder, error)

	// RenameFolder changes a folder's name and recomputes the subtree paths
	RenameFolder(ctx context.Context, actorID, folderID, newName string) (*docsystem.Folder, error)

	// MoveFolder reparents a folder (nil = move to root). The move is rejected
	// if it would create a cycle; on success every descendant's path and level
	// are recomputed in the same transaction.
	MoveFolder(ctx context.Context, actorID, folderID string, newParentID *string) (*docsystem.Folder, error)

	// DeleteFolder removes an empty folder. Folders with non-deleted documents
	// or subfolders are rejected; cascading removal goes through the lifecycle
	// service.
	DeleteFolder(ctx context.Context, actorID, folderID string) error

	// ArchiveFolder flips the archived flag on; path and level are untouched
	ArchiveFolder(ctx context.Context, actorID, folderID string) (*docsystem.Folder, error)

	// RestoreFolder flips the archived flag off. A restored folder under an
	// archived parent stays hidden in listings; the flag is not cascading state.
	RestoreFolder(ctx context.Context, actorID, folderID string) (*docsystem.Folder, error)

	// ListChildren lists child folders and documents at a position in the tree
	// (nil folderID = project root). Archived folders are excluded unless
	// includeArchived is set.
	ListChildren(ctx context.Context, actorID, projectID string, folderID *string, includeArchived bool) (*FolderContents, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id,omitempty"` // nil for root
}

// FolderContents represents a folder with its children
type FolderContents struct {
	Folder    *docsystem.Folder    `json:"folder,omitempty"` // nil for project root
	Folders   []docsystem.Folder   `json:"folders"`
	Documents []docsystem.Document `json:"documents"`
}
