package docsystem

import (
	"context"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/repositories"
)

// folderNamePattern rejects path separators inside a single folder name.
var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

// validateFolderName checks a folder name against length and character rules.
func validateFolderName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
	)
}

// validateDocumentTitle checks a document title.
func validateDocumentTitle(title string) error {
	return validation.Validate(title,
		validation.Required,
		validation.Length(1, config.MaxDocumentTitleLength),
	)
}

// ResourceValidator checks that parent resources exist and can accept new
// children before any mutation begins.
type ResourceValidator struct {
	projectRepo repositories.ProjectRepository
	folderRepo  repositories.FolderRepository
}

// NewResourceValidator creates a new resource validator
func NewResourceValidator(projectRepo repositories.ProjectRepository, folderRepo repositories.FolderRepository) *ResourceValidator {
	return &ResourceValidator{
		projectRepo: projectRepo,
		folderRepo:  folderRepo,
	}
}

// ValidateProject ensures the project exists and is active.
func (v *ResourceValidator) ValidateProject(ctx context.Context, projectID string) error {
	project, err := v.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.IsActive {
		return &domain.InvalidStateError{Message: fmt.Sprintf("project %s is archived", projectID)}
	}
	return nil
}

// ValidateFolderPlacement ensures a folder can act as a parent: it exists,
// belongs to the given project, and is not archived.
func (v *ResourceValidator) ValidateFolderPlacement(ctx context.Context, folderID, projectID string) error {
	folder, err := v.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.ProjectID != projectID {
		return &domain.InvalidStateError{
			Message: fmt.Sprintf("folder %s belongs to a different project", folderID),
		}
	}
	if folder.IsArchived {
		return &domain.InvalidStateError{Message: fmt.Sprintf("folder %s is archived", folderID)}
	}
	return nil
}
