package docsystem

import (
	"context"

	"docvault/internal/domain/models/docsystem"
)

// StatsService computes read-only recursive rollups over the persisted tree.
// It is independent of the write path.
type StatsService interface {
	// FolderStats returns direct and transitive counts, cumulative byte size of
	// current versions, and the most recent activity in the subtree
	FolderStats(ctx context.Context, actorID, folderID string) (*docsystem.FolderStats, error)
}
