package docsystem

import (
	"time"
)

// FolderTreeNode is a folder with its nested children, used by the project
// tree endpoint.
type FolderTreeNode struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	ParentID   *string            `json:"parent_id"`
	Path       string             `json:"path"`
	Level      int                `json:"level"`
	IsArchived bool               `json:"is_archived"`
	Hidden     bool               `json:"hidden"` // self-or-ancestor archived, computed at query time
	CreatedAt  time.Time          `json:"created_at"`
	Folders    []*FolderTreeNode  `json:"folders"`
	Documents  []DocumentTreeNode `json:"documents"`
}

// DocumentTreeNode is the document metadata carried in the tree (no content).
type DocumentTreeNode struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	FolderID  *string   `json:"folder_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TreeNode is the root of a project tree: top-level folders plus unfiled documents.
type TreeNode struct {
	Folders   []*FolderTreeNode  `json:"folders"`
	Documents []DocumentTreeNode `json:"documents"`
}
