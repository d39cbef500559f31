package docsystem

import (
	"context"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"docvault/internal/config"
	"docvault/internal/domain"
	models "docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	docsysSvc "docvault/internal/domain/services/docsystem"
)

type projectService struct {
	projectRepo repositories.ProjectRepository
	authorizer  services.ResourceAuthorizer
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) docsysSvc.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// CreateProject creates a new active project
func (s *projectService) CreateProject(ctx context.Context, req *docsysSvc.CreateProjectRequest) (*models.Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	err := validation.Validate(req.Name,
		validation.Required,
		validation.Length(1, config.MaxProjectNameLength),
	)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	now := time.Now()
	project := &models.Project{
		ID:        uuid.NewString(),
		Name:      req.Name,
		OwnerID:   req.OwnerID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created", "id", project.ID, "name", project.Name, "owner_id", project.OwnerID)
	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, actorID, id string) (*models.Project, error) {
	if err := s.authorizer.CanAccessProject(ctx, actorID, id); err != nil {
		return nil, err
	}
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects retrieves projects owned by the actor
func (s *projectService) ListProjects(ctx context.Context, actorID string, includeArchived bool) ([]models.Project, error) {
	return s.projectRepo.ListByOwner(ctx, actorID, includeArchived)
}

// UpdateProject renames a project
func (s *projectService) UpdateProject(ctx context.Context, actorID, id string, req *docsysSvc.UpdateProjectRequest) (*models.Project, error) {
	if err := s.authorizer.CanAccessProject(ctx, actorID, id); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	err := validation.Validate(req.Name,
		validation.Required,
		validation.Length(1, config.MaxProjectNameLength),
	)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Name = req.Name
	project.UpdatedAt = time.Now()
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated", "id", id, "name", project.Name)
	return project, nil
}
