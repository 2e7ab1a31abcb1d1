package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/peerjury/peerjury-go-api/internal/dto"
	"github.com/peerjury/peerjury-go-api/internal/models"
	"github.com/peerjury/peerjury-go-api/internal/policy"
	"github.com/peerjury/peerjury-go-api/internal/repository"
)

// ErrDeliverableNotFound indicates a deliverable could not be found.
var ErrDeliverableNotFound = errors.New("deliverable not found")

// ErrLifecycleTransition indicates a lifecycle change that is not allowed
// from the deliverable's current status. Closed grading never reopens.
var ErrLifecycleTransition = errors.New("invalid lifecycle transition")

// ErrInvalidDueDate indicates the due date is not a valid RFC 3339 value.
var ErrInvalidDueDate = errors.New("invalid due date")

// DeliverableService orchestrates deliverable content and lifecycle.
type DeliverableService interface {
	Create(ctx context.Context, projectID uint, payload dto.DeliverableCreateRequest, requesterID uint) (dto.DeliverableResponse, error)
	Get(ctx context.Context, id uint) (dto.DeliverableResponse, error)
	Update(ctx context.Context, id uint, payload dto.DeliverableUpdateRequest, requesterID uint) (dto.DeliverableResponse, error)
	OpenGrading(ctx context.Context, id, requesterID uint) (dto.DeliverableResponse, error)
	CloseGrading(ctx context.Context, id, requesterID uint) (dto.DeliverableResponse, error)
}

type deliverableService struct {
	deliverables repository.DeliverableRepository
	projects     repository.ProjectRepository
	access       policy.Policy
	events       EventPublisher
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewDeliverableService constructs a DeliverableService instance.
func NewDeliverableService(deliverables repository.DeliverableRepository, projects repository.ProjectRepository, access policy.Policy, events EventPublisher, validate *validator.Validate, logger zerolog.Logger) DeliverableService {
	return &deliverableService{
		deliverables: deliverables,
		projects:     projects,
		access:       access,
		events:       events,
		validator:    validate,
		logger:       logger.With().Str("component", "deliverable_service").Logger(),
	}
}

func (s *deliverableService) Create(ctx context.Context, projectID uint, payload dto.DeliverableCreateRequest, requesterID uint) (dto.DeliverableResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DeliverableResponse{}, err
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeliverableResponse{}, ErrProjectNotFound
		}
		return dto.DeliverableResponse{}, err
	}

	if !s.access.CanManageProject(requesterID, project) {
		return dto.DeliverableResponse{}, ErrNotProjectOwner
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.DeliverableResponse{}, fmt.Errorf("%w: %v", ErrInvalidDueDate, err)
	}

	deliverable := models.Deliverable{
		ProjectID:   project.ID,
		Title:       payload.Title,
		Description: payload.Description,
		DueDate:     dueDate,
		VideoURL:    payload.VideoURL,
		ServerURL:   payload.ServerURL,
		Status:      models.DeliverableStatusPending,
	}

	if err := s.deliverables.Create(ctx, &deliverable); err != nil {
		return dto.DeliverableResponse{}, err
	}

	s.logger.Info().Uint("deliverable_id", deliverable.ID).Uint("project_id", project.ID).Msg("deliverable created")

	return dto.NewDeliverableResponse(deliverable), nil
}

func (s *deliverableService) Get(ctx context.Context, id uint) (dto.DeliverableResponse, error) {
	deliverable, err := s.deliverables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeliverableResponse{}, ErrDeliverableNotFound
		}
		return dto.DeliverableResponse{}, err
	}

	return dto.NewDeliverableResponse(deliverable), nil
}

func (s *deliverableService) Update(ctx context.Context, id uint, payload dto.DeliverableUpdateRequest, requesterID uint) (dto.DeliverableResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DeliverableResponse{}, err
	}

	deliverable, err := s.getManaged(ctx, id, requesterID)
	if err != nil {
		return dto.DeliverableResponse{}, err
	}

	if payload.Title != nil {
		deliverable.Title = *payload.Title
	}
	if payload.Description != nil {
		deliverable.Description = *payload.Description
	}
	if payload.VideoURL != nil {
		deliverable.VideoURL = *payload.VideoURL
	}
	if payload.ServerURL != nil {
		deliverable.ServerURL = *payload.ServerURL
	}
	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.DeliverableResponse{}, fmt.Errorf("%w: %v", ErrInvalidDueDate, err)
		}
		deliverable.DueDate = dueDate
	}

	if err := s.deliverables.Update(ctx, &deliverable); err != nil {
		return dto.DeliverableResponse{}, err
	}

	return dto.NewDeliverableResponse(deliverable), nil
}

func (s *deliverableService) OpenGrading(ctx context.Context, id, requesterID uint) (dto.DeliverableResponse, error) {
	return s.transition(ctx, id, requesterID, models.DeliverableStatusPending, models.DeliverableStatusOpenForGrading, EventGradingOpened)
}

func (s *deliverableService) CloseGrading(ctx context.Context, id, requesterID uint) (dto.DeliverableResponse, error) {
	return s.transition(ctx, id, requesterID, models.DeliverableStatusOpenForGrading, models.DeliverableStatusGradingClosed, EventGradingClosed)
}

func (s *deliverableService) transition(ctx context.Context, id, requesterID uint, from, to, eventType string) (dto.DeliverableResponse, error) {
	deliverable, err := s.getManaged(ctx, id, requesterID)
	if err != nil {
		return dto.DeliverableResponse{}, err
	}

	if deliverable.Status != from {
		return dto.DeliverableResponse{}, ErrLifecycleTransition
	}

	deliverable.Status = to
	if err := s.deliverables.Update(ctx, &deliverable); err != nil {
		return dto.DeliverableResponse{}, err
	}

	if s.events != nil {
		_ = s.events.Publish(GradingEvent{
			Type:          eventType,
			DeliverableID: deliverable.ID,
			ProjectID:     deliverable.ProjectID,
		})
	}

	s.logger.Info().Uint("deliverable_id", deliverable.ID).Str("status", to).Msg("deliverable lifecycle changed")

	return dto.NewDeliverableResponse(deliverable), nil
}

func (s *deliverableService) getManaged(ctx context.Context, id, requesterID uint) (models.Deliverable, error) {
	deliverable, err := s.deliverables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Deliverable{}, ErrDeliverableNotFound
		}
		return models.Deliverable{}, err
	}

	if !s.access.CanManageDeliverable(requesterID, deliverable) {
		return models.Deliverable{}, ErrNotProjectOwner
	}

	return deliverable, nil
}
