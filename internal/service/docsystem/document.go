package docsystem

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/config"
	"docvault/internal/domain"
	models "docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	docsysSvc "docvault/internal/domain/services/docsystem"
)

type documentService struct {
	docRepo     repositories.DocumentRepository
	versionRepo repositories.VersionRepository
	folderRepo  repositories.FolderRepository
	txManager   repositories.TransactionManager
	gateway     services.StorageGateway
	validator   *ResourceValidator
	authorizer  services.ResourceAuthorizer
	notifier    services.DocumentNotifier
	logger      *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	gateway services.StorageGateway,
	validator *ResourceValidator,
	authorizer services.ResourceAuthorizer,
	notifier services.DocumentNotifier,
	logger *slog.Logger,
) docsysSvc.DocumentService {
	return &documentService{
		docRepo:     docRepo,
		versionRepo: versionRepo,
		folderRepo:  folderRepo,
		txManager:   txManager,
		gateway:     gateway,
		validator:   validator,
		authorizer:  authorizer,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateDocument creates a document together with its version 1.
// The blob upload happens before the metadata commit; a failed commit leaves
// at worst an orphan blob, never a version row pointing at nothing.
func (s *documentService) CreateDocument(ctx context.Context, req *docsysSvc.CreateDocumentRequest) (*models.Document, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateDocumentTitle(req.Title); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	if err := s.validatePlacement(ctx, req.ProjectID, req.FolderID); err != nil {
		return nil, err
	}

	docID := uuid.NewString()
	blob, err := s.gateway.Upload(ctx, req.OwnerID, docID, 1, req.File, req.FileName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &models.Document{
		ID:          docID,
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     req.OwnerID,
		ProjectID:   req.ProjectID,
		FolderID:    req.FolderID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	version := &models.DocumentVersion{
		ID:            uuid.NewString(),
		DocumentID:    docID,
		VersionNumber: 1,
		FileHash:      blob.SHA256,
		FileSize:      blob.Size,
		StorageKey:    blob.Key,
		UserID:        req.OwnerID,
		CreatedAt:     now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return err
		}
		if err := s.versionRepo.Create(txCtx, version); err != nil {
			return err
		}
		return s.docRepo.SetCurrentVersion(txCtx, doc.ID, version.ID, now)
	})
	if err != nil {
		s.cleanupBlob(blob.Key)
		return nil, err
	}
	doc.CurrentVersionID = &version.ID

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"owner_id", doc.OwnerID,
		"storage_key", blob.Key,
		"size", blob.Size,
	)

	s.notifier.Notify(ctx, doc.ID)
	return doc, nil
}

// GetDocument retrieves a document by ID
func (s *documentService) GetDocument(ctx context.Context, actorID, documentID string) (*models.Document, error) {
	if err := s.authorizer.CanAccessDocument(ctx, actorID, documentID); err != nil {
		return nil, err
	}
	return s.docRepo.GetByID(ctx, documentID)
}

// UpdateDocument updates title/description metadata
func (s *documentService) UpdateDocument(ctx context.Context, actorID, documentID string, req *docsysSvc.UpdateDocumentRequest) (*models.Document, error) {
	if req.Title == nil && req.Description == nil {
		return nil, &domain.ValidationError{Message: "at least one field must be provided"}
	}

	doc, err := s.activeDocument(ctx, actorID, documentID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validateDocumentTitle(title); err != nil {
			return nil, &domain.ValidationError{Message: err.Error()}
		}
		doc.Title = title
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}

	doc.UpdatedAt = time.Now()
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document updated", "id", doc.ID, "title", doc.Title)
	return doc, nil
}

// UploadNewVersion appends a version numbered max+1 and atomically repoints
// the current-version pointer
func (s *documentService) UploadNewVersion(ctx context.Context, req *docsysSvc.UploadVersionRequest) (*models.DocumentVersion, error) {
	if len(req.ChangeSummary) > config.MaxChangeSummaryLength {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("change summary exceeds %d characters", config.MaxChangeSummaryLength),
		}
	}

	doc, err := s.activeDocument(ctx, req.ActorID, req.DocumentID)
	if err != nil {
		return nil, err
	}

	// Numbers are never reused: max+1 even if later versions were pruned
	maxNumber, err := s.versionRepo.MaxVersionNumber(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	nextNumber := maxNumber + 1

	// Blob upload happens-before the metadata commit. If it fails, no version
	// row is ever created.
	blob, err := s.gateway.Upload(ctx, doc.OwnerID, doc.ID, nextNumber, req.File, req.FileName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	version := &models.DocumentVersion{
		ID:            uuid.NewString(),
		DocumentID:    doc.ID,
		VersionNumber: nextNumber,
		FileHash:      blob.SHA256,
		FileSize:      blob.Size,
		StorageKey:    blob.Key,
		UserID:        req.ActorID,
		ChangeSummary: req.ChangeSummary,
		CreatedAt:     now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.versionRepo.Create(txCtx, version); err != nil {
			return err
		}
		return s.docRepo.SetCurrentVersion(txCtx, doc.ID, version.ID, now)
	})
	if err != nil {
		s.cleanupBlob(blob.Key)
		return nil, err
	}

	s.logger.Info("version uploaded",
		"document_id", doc.ID,
		"version_number", nextNumber,
		"storage_key", blob.Key,
		"size", blob.Size,
	)

	s.notifier.Notify(ctx, doc.ID)
	return version, nil
}

// GetVersion retrieves one version's metadata
func (s *documentService) GetVersion(ctx context.Context, actorID, documentID string, versionNumber int) (*models.DocumentVersion, error) {
	if err := s.authorizer.CanAccessDocument(ctx, actorID, documentID); err != nil {
		return nil, err
	}
	return s.versionRepo.GetByNumber(ctx, documentID, versionNumber)
}

// ListVersions lists a document's full version history
func (s *documentService) ListVersions(ctx context.Context, actorID, documentID string) ([]models.DocumentVersion, error) {
	if err := s.authorizer.CanAccessDocument(ctx, actorID, documentID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByDocument(ctx, documentID)
}

// DownloadVersion streams one version's bytes from the blob store.
// The stored hash is audit-only and is not re-verified here.
func (s *documentService) DownloadVersion(ctx context.Context, actorID, documentID string, versionNumber int) (io.ReadCloser, *models.DocumentVersion, error) {
	version, err := s.GetVersion(ctx, actorID, documentID, versionNumber)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.gateway.Download(ctx, version.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return stream, version, nil
}

// DuplicateDocument copies a document's current version into a new document
// owned by the actor (template copy)
func (s *documentService) DuplicateDocument(ctx context.Context, actorID, documentID string) (*models.Document, error) {
	source, err := s.activeDocument(ctx, actorID, documentID)
	if err != nil {
		return nil, err
	}
	if source.CurrentVersionID == nil {
		return nil, &domain.InvalidStateError{Message: "document has no current version"}
	}

	current, err := s.versionRepo.GetByID(ctx, *source.CurrentVersionID)
	if err != nil {
		return nil, err
	}

	newDocID := uuid.NewString()
	newKey, err := s.gateway.Copy(ctx, current.StorageKey, actorID, newDocID, 1)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &models.Document{
		ID:          newDocID,
		Title:       source.Title + " (copy)",
		Description: source.Description,
		OwnerID:     actorID,
		ProjectID:   source.ProjectID,
		FolderID:    source.FolderID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	version := &models.DocumentVersion{
		ID:            uuid.NewString(),
		DocumentID:    newDocID,
		VersionNumber: 1,
		FileHash:      current.FileHash,
		FileSize:      current.FileSize,
		StorageKey:    newKey,
		UserID:        actorID,
		ChangeSummary: fmt.Sprintf("Copied from %q", source.Title),
		CreatedAt:     now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return err
		}
		if err := s.versionRepo.Create(txCtx, version); err != nil {
			return err
		}
		return s.docRepo.SetCurrentVersion(txCtx, doc.ID, version.ID, now)
	})
	if err != nil {
		s.cleanupBlob(newKey)
		return nil, err
	}
	doc.CurrentVersionID = &version.ID

	s.logger.Info("document duplicated", "source_id", source.ID, "id", doc.ID)
	return doc, nil
}

// SoftDeleteDocument marks the document deleted; versions and blobs stay
func (s *documentService) SoftDeleteDocument(ctx context.Context, actorID, documentID string) error {
	doc, err := s.activeDocument(ctx, actorID, documentID)
	if err != nil {
		return err
	}

	if err := s.docRepo.SoftDelete(ctx, doc.ID, time.Now()); err != nil {
		return err
	}

	s.logger.Info("document soft-deleted", "id", doc.ID)
	return nil
}

// MoveDocument refiles a document to another project/folder. A nil projectID
// keeps the document's current project.
func (s *documentService) MoveDocument(ctx context.Context, actorID, documentID string, projectID, folderID *string) (*models.Document, error) {
	doc, err := s.activeDocument(ctx, actorID, documentID)
	if err != nil {
		return nil, err
	}

	targetProject := doc.ProjectID
	if projectID != nil {
		targetProject = projectID
	}

	// The target folder must belong to the target project; validated before
	// any row is touched
	if err := s.validatePlacement(ctx, targetProject, folderID); err != nil {
		return nil, err
	}

	doc.ProjectID = targetProject
	doc.FolderID = folderID
	doc.UpdatedAt = time.Now()
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document moved",
		"id", doc.ID,
		"project_id", doc.ProjectID,
		"folder_id", doc.FolderID,
	)
	return doc, nil
}

// activeDocument loads a document the actor owns, rejecting soft-deleted rows.
func (s *documentService) activeDocument(ctx context.Context, actorID, documentID string) (*models.Document, error) {
	if err := s.authorizer.CanAccessDocument(ctx, actorID, documentID); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted {
		return nil, &domain.InvalidStateError{Message: fmt.Sprintf("document %s is deleted", documentID)}
	}
	return doc, nil
}

// validatePlacement checks that a folder target belongs to the given project.
func (s *documentService) validatePlacement(ctx context.Context, projectID, folderID *string) error {
	if folderID == nil {
		if projectID != nil {
			return s.validator.ValidateProject(ctx, *projectID)
		}
		return nil
	}
	if projectID == nil {
		return &domain.ValidationError{Message: "a folder target requires a project"}
	}
	if err := s.validator.ValidateProject(ctx, *projectID); err != nil {
		return err
	}
	return s.validator.ValidateFolderPlacement(ctx, *folderID, *projectID)
}

// cleanupBlob is the best-effort compensating delete for a blob whose
// metadata commit failed. Orphans that survive are a cleanup-job concern,
// not a correctness one: nothing references them.
func (s *documentService) cleanupBlob(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.gateway.Delete(ctx, key); err != nil {
		s.logger.Warn("orphan blob cleanup failed", "key", key, "error", err)
	}
}
