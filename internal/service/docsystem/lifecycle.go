package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	docsysSvc "docvault/internal/domain/services/docsystem"
)

type lifecycleService struct {
	projectRepo repositories.ProjectRepository
	folderRepo  repositories.FolderRepository
	docRepo     repositories.DocumentRepository
	txManager   repositories.TransactionManager
	authorizer  services.ResourceAuthorizer
	logger      *slog.Logger
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(
	projectRepo repositories.ProjectRepository,
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) docsysSvc.LifecycleService {
	return &lifecycleService{
		projectRepo: projectRepo,
		folderRepo:  folderRepo,
		docRepo:     docRepo,
		txManager:   txManager,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// ArchiveProject deactivates a project. Folders and documents under it keep
// their own flags; visibility of the branch is derived at query time.
func (s *lifecycleService) ArchiveProject(ctx context.Context, actorID, projectID string) (*models.Project, error) {
	return s.setActive(ctx, actorID, projectID, false)
}

// RestoreProject reactivates a project
func (s *lifecycleService) RestoreProject(ctx context.Context, actorID, projectID string) (*models.Project, error) {
	return s.setActive(ctx, actorID, projectID, true)
}

func (s *lifecycleService) setActive(ctx context.Context, actorID, projectID string, active bool) (*models.Project, error) {
	if err := s.authorizer.CanAccessProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.IsActive == active {
		return project, nil
	}
	project.IsActive = active
	project.UpdatedAt = time.Now()
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("project lifecycle changed", "id", projectID, "is_active", active)
	return project, nil
}

// DeleteProject deletes a project. Without cascade any live folder or
// document blocks the delete. With cascade the whole subtree goes in one
// transaction: documents are soft-deleted, folders removed bottom-up, then
// the project row itself.
func (s *lifecycleService) DeleteProject(ctx context.Context, actorID, projectID string, cascade bool) error {
	if err := s.authorizer.CanAccessProject(ctx, actorID, projectID); err != nil {
		return err
	}
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return err
	}

	folders, err := s.folderRepo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	docs, err := s.docRepo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !cascade && (len(folders) > 0 || len(docs) > 0) {
		return &domain.InvalidStateError{
			Message: fmt.Sprintf("project is not empty: %d folders, %d documents; use cascade to delete contents", len(folders), len(docs)),
		}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.LockProjectTree(txCtx, projectID); err != nil {
			return err
		}
		if err := s.cascadeDocuments(txCtx, actorID, docs); err != nil {
			return err
		}
		if err := s.cascadeFolders(txCtx, folders); err != nil {
			return err
		}
		return s.projectRepo.Delete(txCtx, projectID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted",
		"id", projectID,
		"cascade", cascade,
		"folders_removed", len(folders),
		"documents_removed", len(docs),
	)
	return nil
}

// DeleteFolder deletes a folder subtree with the same cascade semantics as
// DeleteProject, scoped to the folder's descendants.
func (s *lifecycleService) DeleteFolder(ctx context.Context, actorID, folderID string, cascade bool) error {
	if err := s.authorizer.CanAccessFolder(ctx, actorID, folderID); err != nil {
		return err
	}
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}

	all, err := s.folderRepo.ListByProject(ctx, folder.ProjectID)
	if err != nil {
		return err
	}
	subtree := collectSubtree(all, folderID)

	var docs []models.Document
	for i := range subtree {
		id := subtree[i].ID
		folderDocs, err := s.docRepo.ListByFolder(ctx, folder.ProjectID, &id)
		if err != nil {
			return err
		}
		docs = append(docs, folderDocs...)
	}

	if !cascade && (len(subtree) > 1 || len(docs) > 0) {
		return &domain.InvalidStateError{
			Message: fmt.Sprintf("folder is not empty: %d subfolders, %d documents; use cascade to delete contents", len(subtree)-1, len(docs)),
		}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.LockProjectTree(txCtx, folder.ProjectID); err != nil {
			return err
		}
		if err := s.cascadeDocuments(txCtx, actorID, docs); err != nil {
			return err
		}
		return s.cascadeFolders(txCtx, subtree)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"cascade", cascade,
		"folders_removed", len(subtree),
		"documents_removed", len(docs),
	)
	return nil
}

// cascadeDocuments soft-deletes every document in the batch. A permission
// failure on any one document aborts the whole cascade so the transaction
// rolls back untouched.
func (s *lifecycleService) cascadeDocuments(ctx context.Context, actorID string, docs []models.Document) error {
	now := time.Now()
	for i := range docs {
		if err := s.authorizer.CanAccessDocument(ctx, actorID, docs[i].ID); err != nil {
			return err
		}
		if docs[i].IsDeleted {
			continue
		}
		if err := s.docRepo.SoftDelete(ctx, docs[i].ID, now); err != nil {
			return err
		}
	}
	return nil
}

// cascadeFolders removes folder rows deepest-first so no folder is deleted
// before its children.
func (s *lifecycleService) cascadeFolders(ctx context.Context, folders []models.Folder) error {
	ordered := make([]models.Folder, len(folders))
	copy(ordered, folders)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Level > ordered[j].Level })
	for i := range ordered {
		if err := s.folderRepo.Delete(ctx, ordered[i].ID); err != nil {
			return err
		}
	}
	return nil
}

// collectSubtree returns the folder with the given id plus all its
// descendants from a flat project listing.
func collectSubtree(all []models.Folder, rootID string) []models.Folder {
	children := make(map[string][]models.Folder)
	for _, f := range all {
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f)
		}
	}

	var subtree []models.Folder
	stack := []string{rootID}
	byID := make(map[string]models.Folder, len(all))
	for _, f := range all {
		byID[f.ID] = f
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f, ok := byID[id]; ok {
			subtree = append(subtree, f)
		}
		for _, child := range children[id] {
			stack = append(stack, child.ID)
		}
	}
	return subtree
}
