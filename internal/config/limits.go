package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxProjectNameLength = 255

	// MaxDocumentTitleLength is the maximum length for document titles.
	MaxDocumentTitleLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as document titles for consistency.
	MaxFolderNameLength = 255

	// MaxFolderPathLength is the maximum length for materialized folder paths.
	// Longer paths indicate overly deep hierarchies (anti-pattern).
	MaxFolderPathLength = 1000

	// MaxChangeSummaryLength bounds the free-text summary on a version upload.
	MaxChangeSummaryLength = 500

	// MaxBulkItems bounds one bulk delete/move request.
	MaxBulkItems = 100

	// BulkItemTimeoutSeconds bounds each per-item sub-operation so one stuck item
	// cannot stall the whole batch; a timeout becomes a failed result entry.
	BulkItemTimeoutSeconds = 10
)
