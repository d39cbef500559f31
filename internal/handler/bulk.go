package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "docvault/internal/domain/services/docsystem"
	"docvault/internal/httputil"
)

// BulkHandler handles batch document operations
type BulkHandler struct {
	bulkService docsysSvc.BulkService
	logger      *slog.Logger
}

// NewBulkHandler creates a new bulk handler
func NewBulkHandler(bulkService docsysSvc.BulkService, logger *slog.Logger) *BulkHandler {
	return &BulkHandler{
		bulkService: bulkService,
		logger:      logger,
	}
}

type bulkDeleteRequest struct {
	DocumentIDs []string `json:"document_ids"`
}

// BulkDelete soft-deletes a batch of documents with per-item outcomes.
// The response is 200 even for partial failure; callers inspect the results.
// POST /api/documents/bulk-delete
func (h *BulkHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req bulkDeleteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.bulkService.BulkDelete(r.Context(), userID, req.DocumentIDs)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// BulkMove refiles a batch of documents with per-item outcomes
// POST /api/documents/bulk-move
func (h *BulkHandler) BulkMove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req docsysSvc.BulkMoveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.bulkService.BulkMove(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
