// Package notify delivers post-commit document signals to the AI
// collaborator. Delivery is fire-and-forget: the write path never waits on
// it and never fails because of it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"docvault/internal/domain/services"
)

const deliveryTimeout = 5 * time.Second

// WebhookNotifier POSTs {"document_id": ...} to a configured endpoint
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWebhookNotifier creates a webhook notifier targeting the given URL
func NewWebhookNotifier(url string, logger *slog.Logger) services.DocumentNotifier {
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: deliveryTimeout,
		},
		logger: logger,
	}
}

// Notify signals that a new version of the document was committed. The
// request runs in its own goroutine with its own deadline; errors are logged
// and dropped.
func (n *WebhookNotifier) Notify(ctx context.Context, documentID string) {
	go func() {
		// Detached from the caller's context so an already-finished request
		// cannot cancel the delivery
		sendCtx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()

		payload, err := json.Marshal(map[string]string{"document_id": documentID})
		if err != nil {
			n.logger.Warn("notify payload encoding failed", "document_id", documentID, "error", err)
			return
		}

		req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, n.url, bytes.NewReader(payload))
		if err != nil {
			n.logger.Warn("notify request build failed", "document_id", documentID, "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			n.logger.Warn("notify delivery failed", "document_id", documentID, "error", err)
			return
		}
		resp.Body.Close()

		if resp.StatusCode >= 300 {
			n.logger.Warn("notify rejected", "document_id", documentID, "status", resp.StatusCode)
			return
		}
		n.logger.Debug("notify delivered", "document_id", documentID)
	}()
}
