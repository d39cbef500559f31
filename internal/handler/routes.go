package handler

import "net/http"

// RegisterRoutes wires every handler onto the mux using method patterns
func RegisterRoutes(
	mux *http.ServeMux,
	projects *ProjectHandler,
	folders *FolderHandler,
	documents *DocumentHandler,
	bulk *BulkHandler,
	tree *TreeHandler,
) {
	// Projects
	mux.HandleFunc("POST /api/projects", projects.CreateProject)
	mux.HandleFunc("GET /api/projects", projects.ListProjects)
	mux.HandleFunc("GET /api/projects/{id}", projects.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", projects.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", projects.DeleteProject)
	mux.HandleFunc("POST /api/projects/{id}/archive", projects.ArchiveProject)
	mux.HandleFunc("POST /api/projects/{id}/restore", projects.RestoreProject)
	mux.HandleFunc("GET /api/projects/{id}/tree", tree.GetProjectTree)
	mux.HandleFunc("GET /api/projects/{projectID}/children", folders.ListChildren)

	// Folders
	mux.HandleFunc("POST /api/folders", folders.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folders.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folders.RenameFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folders.DeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/move", folders.MoveFolder)
	mux.HandleFunc("POST /api/folders/{id}/archive", folders.ArchiveFolder)
	mux.HandleFunc("POST /api/folders/{id}/restore", folders.RestoreFolder)
	mux.HandleFunc("GET /api/folders/{id}/stats", folders.FolderStats)

	// Documents and versions
	mux.HandleFunc("POST /api/documents", documents.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", documents.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", documents.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", documents.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/move", documents.MoveDocument)
	mux.HandleFunc("POST /api/documents/{id}/duplicate", documents.DuplicateDocument)
	mux.HandleFunc("POST /api/documents/{id}/versions", documents.UploadVersion)
	mux.HandleFunc("GET /api/documents/{id}/versions", documents.ListVersions)
	mux.HandleFunc("GET /api/documents/{id}/versions/{number}", documents.GetVersion)
	mux.HandleFunc("GET /api/documents/{id}/versions/{number}/download", documents.DownloadVersion)

	// Batch operations
	mux.HandleFunc("POST /api/documents/bulk-delete", bulk.BulkDelete)
	mux.HandleFunc("POST /api/documents/bulk-move", bulk.BulkMove)
}
