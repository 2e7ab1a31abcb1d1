package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/peerjury/peerjury-go-api/internal/dto"
	"github.com/peerjury/peerjury-go-api/internal/models"
	"github.com/peerjury/peerjury-go-api/internal/policy"
	"github.com/peerjury/peerjury-go-api/internal/repository"
)

// ErrProjectNotFound indicates a project could not be found.
var ErrProjectNotFound = errors.New("project not found")

// ErrNotProjectOwner indicates the requester does not own the project.
var ErrNotProjectOwner = errors.New("requester is not the project owner")

// ProjectService orchestrates project workflows.
type ProjectService interface {
	Create(ctx context.Context, payload dto.ProjectCreateRequest, requesterID uint) (dto.ProjectResponse, error)
	ListOwn(ctx context.Context, requesterID uint) ([]dto.ProjectResponse, error)
	Get(ctx context.Context, id, requesterID uint) (dto.ProjectResponse, error)
	Update(ctx context.Context, id uint, payload dto.ProjectUpdateRequest, requesterID uint) (dto.ProjectResponse, error)
	Activate(ctx context.Context, id, requesterID uint) (dto.ProjectResponse, error)
	Delete(ctx context.Context, id, requesterID uint) error
	// ListAll serves the oversight listing; role gating happens at the
	// routing layer.
	ListAll(ctx context.Context) ([]dto.ProjectSummary, error)
}

type projectService struct {
	projects  repository.ProjectRepository
	access    policy.Policy
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProjectService constructs a ProjectService instance.
func NewProjectService(projects repository.ProjectRepository, access policy.Policy, validate *validator.Validate, logger zerolog.Logger) ProjectService {
	return &projectService{
		projects:  projects,
		access:    access,
		validator: validate,
		logger:    logger.With().Str("component", "project_service").Logger(),
	}
}

func (s *projectService) Create(ctx context.Context, payload dto.ProjectCreateRequest, requesterID uint) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	project := models.Project{
		UserID:      requesterID,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      models.ProjectStatusDraft,
	}

	if err := s.projects.Create(ctx, &project); err != nil {
		return dto.ProjectResponse{}, err
	}

	s.logger.Info().Uint("project_id", project.ID).Uint("owner_id", requesterID).Msg("project created")

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) ListOwn(ctx context.Context, requesterID uint) ([]dto.ProjectResponse, error) {
	projects, err := s.projects.ListByOwner(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	return dto.NewProjectResponseSlice(projects), nil
}

func (s *projectService) Get(ctx context.Context, id, requesterID uint) (dto.ProjectResponse, error) {
	project, err := s.getOwned(ctx, id, requesterID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Update(ctx context.Context, id uint, payload dto.ProjectUpdateRequest, requesterID uint) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	project, err := s.getOwned(ctx, id, requesterID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	if payload.Title != nil {
		project.Title = *payload.Title
	}
	if payload.Description != nil {
		project.Description = *payload.Description
	}
	if payload.Status != nil {
		project.Status = *payload.Status
	}

	if err := s.projects.Update(ctx, &project); err != nil {
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Activate(ctx context.Context, id, requesterID uint) (dto.ProjectResponse, error) {
	project, err := s.getOwned(ctx, id, requesterID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	project.Status = models.ProjectStatusActive
	if err := s.projects.Update(ctx, &project); err != nil {
		return dto.ProjectResponse{}, err
	}

	s.logger.Info().Uint("project_id", project.ID).Msg("project activated")

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Delete(ctx context.Context, id, requesterID uint) error {
	if _, err := s.getOwned(ctx, id, requesterID); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("project_id", id).Msg("project deleted")

	return nil
}

func (s *projectService) ListAll(ctx context.Context) ([]dto.ProjectSummary, error) {
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewProjectSummarySlice(projects), nil
}

func (s *projectService) getOwned(ctx context.Context, id, requesterID uint) (models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, ErrProjectNotFound
		}
		return models.Project{}, err
	}

	if !s.access.CanManageProject(requesterID, project) {
		return models.Project{}, ErrNotProjectOwner
	}

	return project, nil
}
