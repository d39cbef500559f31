package docsystem

import (
	"time"
)

// DocumentVersion is one immutable entry in a document's version chain.
// Rows are append-only: once created, a version is never mutated or renumbered.
type DocumentVersion struct {
	ID            string    `json:"id" db:"id"`
	DocumentID    string    `json:"document_id" db:"document_id"`
	VersionNumber int       `json:"version_number" db:"version_number"`
	FileHash      string    `json:"file_hash" db:"file_hash"` // SHA-256 hex, audit-only
	FileSize      int64     `json:"file_size" db:"file_size"`
	StorageKey    string    `json:"storage_key" db:"storage_key"`
	UserID        string    `json:"user_id" db:"user_id"`
	ChangeSummary string    `json:"change_summary,omitempty" db:"change_summary"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
