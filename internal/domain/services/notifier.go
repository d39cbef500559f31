package services

import "context"

// DocumentNotifier is the narrow contract to the AI collaborator. Notify is
// invoked post-commit with the document id only; it must never block or fail
// the calling operation.
type DocumentNotifier interface {
	// Notify signals that a new version of the document was committed
	Notify(ctx context.Context, documentID string)
}
