package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	docsysSvc "docvault/internal/domain/services/docsystem"
	"docvault/internal/httputil"
)

// maxUploadMemory bounds how much of a multipart body is buffered in memory;
// the rest spills to temp files.
const maxUploadMemory = 8 << 20

// DocumentHandler handles document and version HTTP requests
type DocumentHandler struct {
	documentService docsysSvc.DocumentService
	logger          *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService docsysSvc.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// CreateDocument creates a document with its initial version from a multipart
// form: "file" plus "title", "description", "project_id", "folder_id" fields
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	req := &docsysSvc.CreateDocumentRequest{
		OwnerID:     userID,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		FileName:    header.Filename,
		File:        file,
	}
	if v := r.FormValue("project_id"); v != "" {
		req.ProjectID = &v
	}
	if v := r.FormValue("folder_id"); v != "" {
		req.FolderID = &v
	}

	doc, err := h.documentService.CreateDocument(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves document metadata
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocument(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// updateDocumentRequest distinguishes absent fields from explicit nulls so a
// PATCH can clear the description without touching the title.
type updateDocumentRequest struct {
	Title       *string                 `json:"title,omitempty"`
	Description httputil.OptionalString `json:"description"`
}

// UpdateDocument updates title/description metadata
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body updateDocumentRequest
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &docsysSvc.UpdateDocumentRequest{Title: body.Title}
	if body.Description.Present {
		if body.Description.Value == nil {
			empty := ""
			req.Description = &empty
		} else {
			req.Description = body.Description.Value
		}
	}

	doc, err := h.documentService.UpdateDocument(r.Context(), userID, id, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UploadVersion appends a new version from a multipart form: "file" plus an
// optional "change_summary" field
// POST /api/documents/{id}/versions
func (h *DocumentHandler) UploadVersion(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	version, err := h.documentService.UploadNewVersion(r.Context(), &docsysSvc.UploadVersionRequest{
		ActorID:       userID,
		DocumentID:    id,
		FileName:      header.Filename,
		File:          file,
		ChangeSummary: r.FormValue("change_summary"),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, version)
}

// ListVersions lists a document's full version history
// GET /api/documents/{id}/versions
func (h *DocumentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	versions, err := h.documentService.ListVersions(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// GetVersion retrieves one version's metadata
// GET /api/documents/{id}/versions/{number}
func (h *DocumentHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	number, ok := versionNumber(w, r)
	if !ok {
		return
	}

	version, err := h.documentService.GetVersion(r.Context(), userID, id, number)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, version)
}

// DownloadVersion streams one version's bytes
// GET /api/documents/{id}/versions/{number}/download
func (h *DocumentHandler) DownloadVersion(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	number, ok := versionNumber(w, r)
	if !ok {
		return
	}

	reader, version, err := h.documentService.DownloadVersion(r.Context(), userID, id, number)
	if err != nil {
		handleError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(version.FileSize, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("v%d_%s", version.VersionNumber, id)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, reader); err != nil {
		// Headers already sent; all we can do is log
		h.logger.Warn("download stream interrupted", "document_id", id, "version", number, "error", err)
	}
}

// DuplicateDocument copies a document's current version into a new document
// POST /api/documents/{id}/duplicate
func (h *DocumentHandler) DuplicateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.DuplicateDocument(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

type moveDocumentRequest struct {
	ProjectID *string `json:"project_id,omitempty"`
	FolderID  *string `json:"folder_id"` // null refiles to project root
}

// MoveDocument refiles a document to another project/folder
// POST /api/documents/{id}/move
func (h *DocumentHandler) MoveDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req moveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.documentService.MoveDocument(r.Context(), userID, id, req.ProjectID, req.FolderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument soft-deletes a document; versions and blobs are retained
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.documentService.SoftDeleteDocument(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func versionNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("number")
	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		httputil.RespondError(w, http.StatusBadRequest, "version number must be a positive integer")
		return 0, false
	}
	return number, true
}
