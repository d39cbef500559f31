package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	docsysSvc "docvault/internal/domain/services/docsystem"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	txManager  repositories.TransactionManager
	validator  *ResourceValidator
	authorizer services.ResourceAuthorizer
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) docsysSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		txManager:  txManager,
		validator:  validator,
		authorizer: authorizer,
		logger:     logger,
	}
}

// childPath builds a folder's materialized path from its parent's path.
// Root folders get "/" + name.
func childPath(parentPath, name string) string {
	return parentPath + "/" + name
}

// CreateFolder creates a folder under a project, computing path and level
// from the resolved parent
func (s *folderService) CreateFolder(ctx context.Context, actorID string, req *docsysSvc.CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validateFolderName(req.Name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	if err := s.authorizer.CanAccessProject(ctx, actorID, req.ProjectID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	// Resolve parent placement
	path := childPath("", req.Name)
	level := 0
	if req.ParentID != nil {
		if err := s.validator.ValidateFolderPlacement(ctx, *req.ParentID, req.ProjectID); err != nil {
			return nil, err
		}
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		path = childPath(parent.Path, req.Name)
		level = parent.Level + 1
	}

	if err := s.checkSiblingName(ctx, req.ProjectID, req.ParentID, req.Name, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	folder := &models.Folder{
		ID:              uuid.NewString(),
		ProjectID:       req.ProjectID,
		ParentID:        req.ParentID,
		Name:            req.Name,
		Path:            path,
		Level:           level,
		CreatedByUserID: actorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"project_id", folder.ProjectID,
		"parent_id", folder.ParentID,
		"path", folder.Path,
		"level", folder.Level,
	)

	return folder, nil
}

// GetFolder retrieves a folder by ID
func (s *folderService) GetFolder(ctx context.Context, actorID, folderID string) (*models.Folder, error) {
	if err := s.authorizer.CanAccessFolder(ctx, actorID, folderID); err != nil {
		return nil, err
	}
	return s.folderRepo.GetByID(ctx, folderID)
}

// RenameFolder changes a folder's name and recomputes the subtree paths
func (s *folderService) RenameFolder(ctx context.Context, actorID, folderID, newName string) (*models.Folder, error) {
	newName = strings.TrimSpace(newName)
	if err := validateFolderName(newName); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	if err := s.authorizer.CanAccessFolder(ctx, actorID, folderID); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.LockProjectTree(txCtx, folder.ProjectID); err != nil {
			return err
		}
		folder, err = s.folderRepo.GetByID(txCtx, folderID)
		if err != nil {
			return err
		}
		if err := s.checkSiblingName(txCtx, folder.ProjectID, folder.ParentID, newName, folder.ID); err != nil {
			return err
		}
		folder.Name = newName
		return s.rewriteSubtree(txCtx, folder, folder.ParentID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed", "id", folder.ID, "name", newName, "path", folder.Path)
	return folder, nil
}

// MoveFolder reparents a folder, rejecting cycles and recomputing the path
// and level of the folder and every descendant as one atomic unit. The
// cycle, placement and sibling checks run inside the transaction after
// taking the project tree lock; checked outside it, two concurrent moves
// on overlapping subtrees could both pass and commit a cycle.
func (s *folderService) MoveFolder(ctx context.Context, actorID, folderID string, newParentID *string) (*models.Folder, error) {
	if newParentID != nil && *newParentID == "" {
		newParentID = nil
	}

	if err := s.authorizer.CanAccessFolder(ctx, actorID, folderID); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.LockProjectTree(txCtx, folder.ProjectID); err != nil {
			return err
		}

		// Re-read under the lock; a concurrent move may have already
		// reshaped the tree
		folder, err = s.folderRepo.GetByID(txCtx, folderID)
		if err != nil {
			return err
		}

		if newParentID != nil {
			if *newParentID == folderID {
				return &domain.InvalidStateError{Message: "cannot move a folder into itself"}
			}

			if err := s.validator.ValidateFolderPlacement(txCtx, *newParentID, folder.ProjectID); err != nil {
				return err
			}

			// Walk the candidate parent's ancestor chain by id; path-prefix
			// comparison alone is unsafe when folder names repeat
			if err := s.ensureNotDescendant(txCtx, folderID, *newParentID); err != nil {
				return err
			}
		}

		if err := s.checkSiblingName(txCtx, folder.ProjectID, newParentID, folder.Name, folder.ID); err != nil {
			return err
		}

		return s.rewriteSubtree(txCtx, folder, newParentID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder moved",
		"id", folder.ID,
		"new_parent_id", newParentID,
		"path", folder.Path,
		"level", folder.Level,
	)

	return folder, nil
}

// DeleteFolder removes an empty folder
func (s *folderService) DeleteFolder(ctx context.Context, actorID, folderID string) error {
	if err := s.authorizer.CanAccessFolder(ctx, actorID, folderID); err != nil {
		return err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}

	if err := s.ensureEmpty(ctx, folder); err != nil {
		return err
	}

	if err := s.folderRepo.Delete(ctx, folderID); err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", folderID, "name", folder.Name)
	return nil
}

// ArchiveFolder flips the archived flag on
func (s *folderService) ArchiveFolder(ctx context.Context, actorID, folderID string) (*models.Folder, error) {
	return s.setArchived(ctx, actorID, folderID, true)
}

// RestoreFolder flips the archived flag off
func (s *folderService) RestoreFolder(ctx context.Context, actorID, folderID string) (*models.Folder, error) {
	return s.setArchived(ctx, actorID, folderID, false)
}

func (s *folderService) setArchived(ctx context.Context, actorID, folderID string, archived bool) (*models.Folder, error) {
	if err := s.authorizer.CanAccessFolder(ctx, actorID, folderID); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if folder.IsArchived == archived {
		return folder, nil
	}

	// Path and level are untouched: archiving is a flag, not a structural change
	folder.IsArchived = archived
	folder.UpdatedAt = time.Now()
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder archive flag changed", "id", folderID, "archived", archived)
	return folder, nil
}

// ListChildren lists child folders and documents at a position in the tree
func (s *folderService) ListChildren(ctx context.Context, actorID, projectID string, folderID *string, includeArchived bool) (*docsysSvc.FolderContents, error) {
	if err := s.authorizer.CanAccessProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	var folder *models.Folder
	if folderID != nil && *folderID != "" {
		f, err := s.folderRepo.GetByID(ctx, *folderID)
		if err != nil {
			return nil, err
		}
		if f.ProjectID != projectID {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found in project", *folderID)}
		}
		folder = f
	} else {
		folderID = nil
	}

	childFolders, err := s.folderRepo.ListChildren(ctx, projectID, folderID)
	if err != nil {
		return nil, err
	}

	if !includeArchived {
		visible := childFolders[:0]
		for _, child := range childFolders {
			if !child.IsArchived {
				visible = append(visible, child)
			}
		}
		childFolders = visible
	}

	docs, err := s.docRepo.ListByFolder(ctx, projectID, folderID)
	if err != nil {
		return nil, err
	}

	return &docsysSvc.FolderContents{
		Folder:    folder,
		Folders:   childFolders,
		Documents: docs,
	}, nil
}

// checkSiblingName enforces case-insensitive name uniqueness among siblings.
// excludeID skips the folder itself during renames and moves.
func (s *folderService) checkSiblingName(ctx context.Context, projectID string, parentID *string, name, excludeID string) error {
	siblings, err := s.folderRepo.ListChildren(ctx, projectID, parentID)
	if err != nil {
		return fmt.Errorf("check sibling names: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID != excludeID && strings.EqualFold(sibling.Name, name) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
				ResourceType: "folder",
				ResourceID:   sibling.ID,
			}
		}
	}
	return nil
}

// ensureNotDescendant walks candidateID's ancestor chain and fails if
// folderID appears in it. The walk is bounded by a visited set so an
// already-corrupt parent chain fails loudly instead of looping.
func (s *folderService) ensureNotDescendant(ctx context.Context, folderID, candidateID string) error {
	visited := make(map[string]bool)
	currentID := candidateID
	for {
		if visited[currentID] {
			return &domain.InvalidStateError{Message: "folder tree is corrupted: ancestor chain contains a cycle"}
		}
		visited[currentID] = true

		current, err := s.folderRepo.GetByID(ctx, currentID)
		if err != nil {
			return err
		}
		if current.ParentID == nil {
			return nil
		}
		if *current.ParentID == folderID {
			return &domain.InvalidStateError{Message: "cannot move a folder into its own descendant"}
		}
		currentID = *current.ParentID
	}
}

// ensureEmpty rejects folders that still hold non-deleted documents or
// subfolders. Cascading removal goes through the lifecycle service.
func (s *folderService) ensureEmpty(ctx context.Context, folder *models.Folder) error {
	children, err := s.folderRepo.ListChildren(ctx, folder.ProjectID, &folder.ID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return &domain.InvalidStateError{Message: "folder is not empty: it contains subfolders"}
	}

	docs, err := s.docRepo.ListByFolder(ctx, folder.ProjectID, &folder.ID)
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		return &domain.InvalidStateError{Message: "folder is not empty: it contains documents"}
	}

	return nil
}

// rewriteSubtree reparents folder (possibly to the same parent after a
// rename), recomputes its path/level, and rewrites every descendant's
// path/level. Callers run it inside a transaction holding the project tree
// lock: either the whole subtree is updated or none of it, as a partial
// update corrupts path-based queries.
func (s *folderService) rewriteSubtree(ctx context.Context, folder *models.Folder, newParentID *string) error {
	newPath := childPath("", folder.Name)
	newLevel := 0
	if newParentID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *newParentID)
		if err != nil {
			return err
		}
		newPath = childPath(parent.Path, folder.Name)
		newLevel = parent.Level + 1
	}

	now := time.Now()
	folder.ParentID = newParentID
	folder.Path = newPath
	folder.Level = newLevel
	folder.UpdatedAt = now
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return err
	}

	// Recompute every descendant, preserving relative structure
	all, err := s.folderRepo.ListByProject(ctx, folder.ProjectID)
	if err != nil {
		return err
	}
	children := make(map[string][]*models.Folder)
	for i := range all {
		f := &all[i]
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f)
		}
	}

	visited := map[string]bool{folder.ID: true}
	stack := []*models.Folder{folder}
	for len(stack) > 0 {
		parent := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range children[parent.ID] {
			if visited[child.ID] {
				return &domain.InvalidStateError{Message: "folder tree is corrupted: subtree contains a cycle"}
			}
			visited[child.ID] = true
			child.Path = childPath(parent.Path, child.Name)
			child.Level = parent.Level + 1
			child.UpdatedAt = now
			if err := s.folderRepo.Update(ctx, child); err != nil {
				return fmt.Errorf("rewrite descendant %s: %w", child.ID, err)
			}
			stack = append(stack, child)
		}
	}

	return nil
}
