package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/peerjury/peerjury-go-api/internal/dto"
	"github.com/peerjury/peerjury-go-api/internal/models"
	"github.com/peerjury/peerjury-go-api/internal/observability"
	"github.com/peerjury/peerjury-go-api/internal/policy"
	"github.com/peerjury/peerjury-go-api/internal/repository"
)

// ErrAssignmentNotFound indicates the jury assignment could not be found.
var ErrAssignmentNotFound = errors.New("jury assignment not found")

// ErrNotAssignmentHolder indicates the requester does not hold the
// assignment they tried to write or read under.
var ErrNotAssignmentHolder = errors.New("requester does not hold this jury assignment")

// ErrGradingNotOpen indicates the deliverable is not accepting scores.
var ErrGradingNotOpen = errors.New("deliverable is not open for grading")

// ErrEditWindowExpired indicates the evaluation is past its edit window.
var ErrEditWindowExpired = errors.New("evaluation can no longer be edited")

// ErrInvalidScore indicates the score is outside the accepted range or
// carries more than two decimals.
var ErrInvalidScore = errors.New("score must be a number between 1 and 10 with at most two decimals")

// ErrEvaluationNotFound indicates the evaluation could not be found.
var ErrEvaluationNotFound = errors.New("evaluation not found")

// EvaluationService is the write and read path for jury scores.
type EvaluationService interface {
	Submit(ctx context.Context, payload dto.EvaluationSubmitRequest, requesterID uint) (dto.EvaluationResponse, error)
	Get(ctx context.Context, id, requesterID uint) (dto.EvaluationResponse, error)
}

type evaluationService struct {
	evaluations repository.EvaluationRepository
	assignments repository.JuryAssignmentRepository
	access      policy.Policy
	events      EventPublisher
	cache       *redis.Client
	sanitizer   *bluemonday.Policy
	validator   *validator.Validate
	editWindow  time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEvaluationService constructs an EvaluationService. The cache client
// may be nil when Redis is not configured.
func NewEvaluationService(evaluations repository.EvaluationRepository, assignments repository.JuryAssignmentRepository, access policy.Policy, events EventPublisher, cache *redis.Client, validate *validator.Validate, editWindow time.Duration, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		evaluations: evaluations,
		assignments: assignments,
		access:      access,
		events:      events,
		cache:       cache,
		sanitizer:   bluemonday.StrictPolicy(),
		validator:   validate,
		editWindow:  editWindow,
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		now:         time.Now,
	}
}

func (s *evaluationService) Submit(ctx context.Context, payload dto.EvaluationSubmitRequest, requesterID uint) (dto.EvaluationResponse, error) {
	ctx, span := otel.Tracer("evaluation_service").Start(ctx, "EvaluationService.Submit")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	score := *payload.Score
	if !validScore(score) {
		observability.EvaluationsRejectedTotal().WithLabelValues("invalid_score").Inc()
		return dto.EvaluationResponse{}, ErrInvalidScore
	}

	assignment, err := s.assignments.GetByID(ctx, payload.JuryAssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrAssignmentNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	if !s.access.CanSubmitEvaluation(requesterID, assignment) {
		observability.EvaluationsRejectedTotal().WithLabelValues("not_holder").Inc()
		return dto.EvaluationResponse{}, ErrNotAssignmentHolder
	}

	if !assignment.Deliverable.IsOpenForGrading() {
		observability.EvaluationsRejectedTotal().WithLabelValues("grading_closed").Inc()
		return dto.EvaluationResponse{}, ErrGradingNotOpen
	}

	feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))

	span.SetAttributes(
		attribute.Int("assignment.id", int(assignment.ID)),
		attribute.Int("deliverable.id", int(assignment.DeliverableID)),
	)

	evaluation, err := s.evaluations.Submit(ctx, assignment.ID, score, feedback, s.editWindow, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrEditWindowClosed) {
			observability.EvaluationsRejectedTotal().WithLabelValues("edit_window").Inc()
			return dto.EvaluationResponse{}, ErrEditWindowExpired
		}
		return dto.EvaluationResponse{}, err
	}

	s.invalidateStats(ctx, assignment.DeliverableID)

	observability.EvaluationsSubmittedTotal().Inc()

	if s.events != nil {
		_ = s.events.Publish(GradingEvent{
			Type:          EventEvaluationSubmitted,
			DeliverableID: assignment.DeliverableID,
			ProjectID:     assignment.Deliverable.ProjectID,
		})
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Uint("deliverable_id", assignment.DeliverableID).
		Msg("evaluation submitted")

	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Get(ctx context.Context, id, requesterID uint) (dto.EvaluationResponse, error) {
	evaluation, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	if !s.access.CanSubmitEvaluation(requesterID, evaluation.Assignment) {
		return dto.EvaluationResponse{}, ErrNotAssignmentHolder
	}

	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) invalidateStats(ctx context.Context, deliverableID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey(deliverableID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("deliverable_id", deliverableID).Msg("failed to invalidate stats cache")
	}
}

// statsCacheKey names the cached oversight stats for one deliverable.
func statsCacheKey(deliverableID uint) string {
	return fmt.Sprintf("grading:stats:%d", deliverableID)
}

// validScore accepts values within the inclusive score bounds carrying at
// most two decimal places.
func validScore(score float64) bool {
	if score < models.MinScore || score > models.MaxScore {
		return false
	}

	scaled := score * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}
