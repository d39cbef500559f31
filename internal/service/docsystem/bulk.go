package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/config"
	"docvault/internal/domain"
	models "docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
	docsysSvc "docvault/internal/domain/services/docsystem"
)

type bulkService struct {
	docSvc      docsysSvc.DocumentService
	docRepo     repositories.DocumentRepository
	itemTimeout time.Duration
	logger      *slog.Logger
}

// NewBulkService creates a new bulk service
func NewBulkService(
	docSvc docsysSvc.DocumentService,
	docRepo repositories.DocumentRepository,
	logger *slog.Logger,
) docsysSvc.BulkService {
	return &bulkService{
		docSvc:      docSvc,
		docRepo:     docRepo,
		itemTimeout: config.BulkItemTimeoutSeconds * time.Second,
		logger:      logger,
	}
}

// BulkDelete soft-deletes each requested document. Items are processed
// sequentially; one item's failure is folded into its result entry and never
// aborts the rest of the batch.
func (s *bulkService) BulkDelete(ctx context.Context, actorID string, documentIDs []string) (*models.BulkResult, error) {
	if err := validateBatch(documentIDs); err != nil {
		return nil, err
	}

	result := &models.BulkResult{TotalRequested: len(documentIDs)}
	for _, id := range documentIDs {
		title := s.lookupTitle(ctx, id)
		err := s.withItemTimeout(ctx, func(itemCtx context.Context) error {
			return s.docSvc.SoftDeleteDocument(itemCtx, actorID, id)
		})
		if err != nil {
			result.AddFailure(id, title, failureReason(err), err.Error())
			continue
		}
		result.AddSuccess(id, title)
	}

	s.logger.Info("bulk delete finished",
		"actor_id", actorID,
		"requested", result.TotalRequested,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

// BulkMove refiles each requested document to the target placement. The
// target is validated once per item inside MoveDocument, so a bad target
// fails every item with the same reason instead of corrupting any row.
func (s *bulkService) BulkMove(ctx context.Context, actorID string, req *docsysSvc.BulkMoveRequest) (*models.BulkResult, error) {
	if err := validateBatch(req.DocumentIDs); err != nil {
		return nil, err
	}

	result := &models.BulkResult{TotalRequested: len(req.DocumentIDs)}
	for _, id := range req.DocumentIDs {
		title := s.lookupTitle(ctx, id)
		err := s.withItemTimeout(ctx, func(itemCtx context.Context) error {
			_, moveErr := s.docSvc.MoveDocument(itemCtx, actorID, id, req.ProjectID, req.FolderID)
			return moveErr
		})
		if err != nil {
			result.AddFailure(id, title, failureReason(err), err.Error())
			continue
		}
		result.AddSuccess(id, title)
	}

	s.logger.Info("bulk move finished",
		"actor_id", actorID,
		"requested", result.TotalRequested,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

// withItemTimeout bounds one item's work so a stuck item cannot stall the
// whole batch.
func (s *bulkService) withItemTimeout(ctx context.Context, fn func(context.Context) error) error {
	itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
	defer cancel()
	return fn(itemCtx)
}

// failureReason reports an item timeout distinctly from domain failures.
func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return domain.ReasonCode(err)
}

// lookupTitle is best-effort; a missing document still gets a result entry
// keyed by its id.
func (s *bulkService) lookupTitle(ctx context.Context, documentID string) string {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return ""
	}
	return doc.Title
}

func validateBatch(documentIDs []string) error {
	if len(documentIDs) == 0 {
		return &domain.ValidationError{Message: "document_ids cannot be empty"}
	}
	if len(documentIDs) > config.MaxBulkItems {
		return &domain.ValidationError{
			Message: fmt.Sprintf("batch exceeds maximum of %d items", config.MaxBulkItems),
		}
	}
	return nil
}
