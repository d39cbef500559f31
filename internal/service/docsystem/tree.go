package docsystem

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	models "docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	docsysSvc "docvault/internal/domain/services/docsystem"
)

type treeService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	authorizer services.ResourceAuthorizer
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) docsysSvc.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// GetProjectTree builds the nested tree for a project in three passes over
// flat listings: node construction, child linking, then hidden-flag
// propagation down archived branches.
func (s *treeService) GetProjectTree(ctx context.Context, actorID, projectID string) (*models.TreeNode, error) {
	if err := s.authorizer.CanAccessProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	folders, err := s.folderRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	docs, err := s.docRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// Pass 1: one node per folder
	nodes := make(map[string]*models.FolderTreeNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &models.FolderTreeNode{
			ID:         f.ID,
			Name:       f.Name,
			ParentID:   f.ParentID,
			Path:       f.Path,
			Level:      f.Level,
			IsArchived: f.IsArchived,
			Hidden:     f.IsArchived,
			CreatedAt:  f.CreatedAt,
			Folders:    []*models.FolderTreeNode{},
			Documents:  []models.DocumentTreeNode{},
		}
	}

	// Pass 2: link children to parents; folders with a missing parent fall
	// back to the root rather than vanishing
	root := &models.TreeNode{
		Folders:   []*models.FolderTreeNode{},
		Documents: []models.DocumentTreeNode{},
	}
	for _, node := range nodes {
		if node.ParentID == nil {
			root.Folders = append(root.Folders, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok {
			root.Folders = append(root.Folders, node)
			continue
		}
		parent.Folders = append(parent.Folders, node)
	}

	// Pass 3: a node is hidden when it or any ancestor is archived
	var propagate func(node *models.FolderTreeNode, ancestorHidden bool)
	propagate = func(node *models.FolderTreeNode, ancestorHidden bool) {
		node.Hidden = node.IsArchived || ancestorHidden
		for _, child := range node.Folders {
			propagate(child, node.Hidden)
		}
	}
	for _, node := range root.Folders {
		propagate(node, false)
	}

	for _, doc := range docs {
		entry := models.DocumentTreeNode{
			ID:        doc.ID,
			Title:     doc.Title,
			FolderID:  doc.FolderID,
			UpdatedAt: doc.UpdatedAt,
		}
		if doc.FolderID == nil {
			root.Documents = append(root.Documents, entry)
			continue
		}
		if node, ok := nodes[*doc.FolderID]; ok {
			node.Documents = append(node.Documents, entry)
		} else {
			root.Documents = append(root.Documents, entry)
		}
	}

	sortTree(root)

	s.logger.Debug("project tree built",
		"project_id", projectID,
		"folders", len(folders),
		"documents", len(docs),
	)
	return root, nil
}

// sortTree orders siblings case-insensitively so tree output is stable
// across requests.
func sortTree(root *models.TreeNode) {
	var sortFolders func(nodes []*models.FolderTreeNode)
	sortFolders = func(nodes []*models.FolderTreeNode) {
		sort.Slice(nodes, func(i, j int) bool {
			return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
		})
		for _, n := range nodes {
			sort.Slice(n.Documents, func(i, j int) bool {
				return strings.ToLower(n.Documents[i].Title) < strings.ToLower(n.Documents[j].Title)
			})
			sortFolders(n.Folders)
		}
	}
	sortFolders(root.Folders)
	sort.Slice(root.Documents, func(i, j int) bool {
		return strings.ToLower(root.Documents[i].Title) < strings.ToLower(root.Documents[j].Title)
	})
}
