package docsystem

import (
	"time"
)

// Document is the logical file identity. Its content lives in the append-only
// version chain; CurrentVersionID is the single mutable pointer into it.
type Document struct {
	ID               string    `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description,omitempty" db:"description"`
	OwnerID          string    `json:"owner_id" db:"owner_id"`
	ProjectID        *string   `json:"project_id" db:"project_id"` // NULL = not filed in a project
	FolderID         *string   `json:"folder_id" db:"folder_id"`   // NULL = project root / unfiled
	IsDeleted        bool      `json:"is_deleted" db:"is_deleted"`
	CurrentVersionID *string   `json:"current_version_id" db:"current_version_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
