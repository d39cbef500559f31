package docsystem

import (
	"context"

	"docvault/internal/domain/models/docsystem"
)

// TreeService builds the nested folder/document tree for a project. Visibility
// of archived branches is computed at query time from the ancestor chain, not
// stored redundantly.
type TreeService interface {
	// GetProjectTree returns the full nested tree for a project
	GetProjectTree(ctx context.Context, actorID, projectID string) (*docsystem.TreeNode, error)
}
