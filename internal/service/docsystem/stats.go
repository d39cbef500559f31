package docsystem

import (
	"context"
	"log/slog"
	"time"

	models "docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	docsysSvc "docvault/internal/domain/services/docsystem"
)

type statsService struct {
	folderRepo  repositories.FolderRepository
	docRepo     repositories.DocumentRepository
	versionRepo repositories.VersionRepository
	authorizer  services.ResourceAuthorizer
	logger      *slog.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) docsysSvc.StatsService {
	return &statsService{
		folderRepo:  folderRepo,
		docRepo:     docRepo,
		versionRepo: versionRepo,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// FolderStats computes the recursive rollup for a folder's subtree. The
// traversal visits each folder exactly once, so a document in a nested folder
// is never double-counted.
func (s *statsService) FolderStats(ctx context.Context, actorID, folderID string) (*models.FolderStats, error) {
	if err := s.authorizer.CanAccessFolder(ctx, actorID, folderID); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	all, err := s.folderRepo.ListByProject(ctx, folder.ProjectID)
	if err != nil {
		return nil, err
	}
	children := make(map[string][]string)
	for _, f := range all {
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.ID)
		}
	}
	updatedAt := make(map[string]time.Time, len(all))
	for _, f := range all {
		updatedAt[f.ID] = f.UpdatedAt
	}

	stats := &models.FolderStats{
		FolderID:         folderID,
		DirectSubfolders: len(children[folderID]),
	}
	var lastActivity time.Time

	// Walk the subtree once, folding each folder's documents into the totals
	stack := []string{folderID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id != folderID {
			stats.TotalSubfolders++
			if t := updatedAt[id]; t.After(lastActivity) {
				lastActivity = t
			}
		}

		docs, err := s.docRepo.ListByFolder(ctx, folder.ProjectID, &id)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			stats.TotalDocuments++
			if id == folderID {
				stats.DirectDocuments++
			}
			if doc.UpdatedAt.After(lastActivity) {
				lastActivity = doc.UpdatedAt
			}
			// Size counts each document's current version only
			if doc.CurrentVersionID != nil {
				version, err := s.versionRepo.GetByID(ctx, *doc.CurrentVersionID)
				if err != nil {
					return nil, err
				}
				stats.TotalSizeBytes += version.FileSize
			}
		}

		stack = append(stack, children[id]...)
	}

	stats.IsEmpty = stats.TotalDocuments == 0 && stats.TotalSubfolders == 0
	if !lastActivity.IsZero() {
		stats.LastActivityAt = &lastActivity
	}

	s.logger.Debug("folder stats computed",
		"folder_id", folderID,
		"total_documents", stats.TotalDocuments,
		"total_subfolders", stats.TotalSubfolders,
		"total_size_bytes", stats.TotalSizeBytes,
	)

	return stats, nil
}
