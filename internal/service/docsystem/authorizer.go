package docsystem

import (
	"context"
	"fmt"

	"docvault/internal/domain"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

// ownershipAuthorizer implements ResourceAuthorizer on stored owner_id fields.
// Identity itself comes from the external auth collaborator; this only matches
// the supplied actor against ownership.
type ownershipAuthorizer struct {
	projectRepo repositories.ProjectRepository
	folderRepo  repositories.FolderRepository
	docRepo     repositories.DocumentRepository
}

// NewOwnershipAuthorizer creates an ownership-based resource authorizer
func NewOwnershipAuthorizer(
	projectRepo repositories.ProjectRepository,
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
) services.ResourceAuthorizer {
	return &ownershipAuthorizer{
		projectRepo: projectRepo,
		folderRepo:  folderRepo,
		docRepo:     docRepo,
	}
}

// CanAccessProject checks if the actor owns the project
func (a *ownershipAuthorizer) CanAccessProject(ctx context.Context, actorID, projectID string) error {
	project, err := a.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != actorID {
		return &domain.PermissionDeniedError{
			Message: fmt.Sprintf("project %s is not owned by the requesting user", projectID),
		}
	}
	return nil
}

// CanAccessFolder checks folder access via its project
func (a *ownershipAuthorizer) CanAccessFolder(ctx context.Context, actorID, folderID string) error {
	folder, err := a.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	return a.CanAccessProject(ctx, actorID, folder.ProjectID)
}

// CanAccessDocument checks if the actor owns the document
func (a *ownershipAuthorizer) CanAccessDocument(ctx context.Context, actorID, documentID string) error {
	doc, err := a.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.OwnerID != actorID {
		return &domain.PermissionDeniedError{
			Message: fmt.Sprintf("document %s is not owned by the requesting user", documentID),
		}
	}
	return nil
}
