package docsystem

import (
	"time"
)

// Folder is a node in the project hierarchy. Path and Level are materialized
// from the parent chain and are recomputed transactionally on every structural
// mutation; they are a strongly-consistent projection, never independent truth.
type Folder struct {
	ID              string     `json:"id" db:"id"`
	ProjectID       string     `json:"project_id" db:"project_id"`
	ParentID        *string    `json:"parent_id" db:"parent_id"` // NULL = root level
	Name            string     `json:"name" db:"name"`
	Path            string     `json:"path" db:"path"`   // "/A/B" from root to this folder
	Level           int        `json:"level" db:"level"` // ancestor count, root = 0
	IsArchived      bool       `json:"is_archived" db:"is_archived"`
	CreatedByUserID string     `json:"created_by_user_id" db:"created_by_user_id"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the folder sits directly under its project.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
