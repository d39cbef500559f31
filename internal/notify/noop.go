package notify

import (
	"context"

	"docvault/internal/domain/services"
)

// NoopNotifier discards every signal. Used when no collaborator endpoint is
// configured, and in tests.
type NoopNotifier struct{}

// NewNoopNotifier creates a notifier that does nothing
func NewNoopNotifier() services.DocumentNotifier {
	return NoopNotifier{}
}

// Notify implements services.DocumentNotifier
func (NoopNotifier) Notify(ctx context.Context, documentID string) {}
