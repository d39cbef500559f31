package docsystem

import (
	"context"

	"docvault/internal/domain/models/docsystem"
)

// LifecycleService sequences archive/restore/delete cascades across
// project, folder, and document levels. Archive and restore only flip flags; delete of
// a non-empty container is rejected unless cascade is requested.
type LifecycleService interface {
	// ArchiveProject deactivates a project; children keep their own state
	ArchiveProject(ctx context.Context, actorID, projectID string) (*docsystem.Project, error)

	// RestoreProject reactivates a project
	RestoreProject(ctx context.Context, actorID, projectID string) (*docsystem.Project, error)

	// DeleteProject deletes a project. Without cascade it fails on any
	// non-deleted child; with cascade it soft-deletes all documents, removes
	// folders bottom-up, then the project, all inside one transaction.
	DeleteProject(ctx context.Context, actorID, projectID string, cascade bool) error

	// DeleteFolder deletes a folder subtree with the same cascade semantics
	DeleteFolder(ctx context.Context, actorID, folderID string, cascade bool) error
}
