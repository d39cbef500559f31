package docsystem

import (
	"time"
)

// FolderStats is the recursive rollup for one folder's subtree. Byte size sums
// each document's current version only; historical versions are not counted.
type FolderStats struct {
	FolderID         string     `json:"folder_id"`
	DirectDocuments  int        `json:"direct_documents"`
	TotalDocuments   int        `json:"total_documents"`
	DirectSubfolders int        `json:"direct_subfolders"`
	TotalSubfolders  int        `json:"total_subfolders"`
	TotalSizeBytes   int64      `json:"total_size_bytes"`
	LastActivityAt   *time.Time `json:"last_activity_at,omitempty"`
	IsEmpty          bool       `json:"is_empty"`
}
