package docsystem

import (
	"context"

	"docvault/internal/domain/models/docsystem"
)

// BulkService applies partial-failure-tolerant batch operations across many
// documents in one request. One item's failure never aborts the batch; every
// requested id yields exactly one result entry.
type BulkService interface {
	// BulkDelete soft-deletes each document the actor owns, recording per-item
	// outcomes
	BulkDelete(ctx context.Context, actorID string, documentIDs []string) (*docsystem.BulkResult, error)

	// BulkMove refiles each document to the target project/folder with the same
	// per-item accounting. Target consistency is validated before any row is
	// touched.
	BulkMove(ctx context.Context, actorID string, req *BulkMoveRequest) (*docsystem.BulkResult, error)
}

// BulkMoveRequest represents a batch move request
type BulkMoveRequest struct {
	DocumentIDs []string `json:"document_ids"`
	ProjectID   *string  `json:"project_id,omitempty"`
	FolderID    *string  `json:"folder_id,omitempty"`
}
