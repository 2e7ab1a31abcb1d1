package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

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

// GradingService computes trimmed-mean grades and serves the anonymized
// owner and oversight views.
type GradingService interface {
	// DeliverableGrade is the owner-facing grade breakdown. Scores and
	// feedback are visible; evaluator identities are not.
	DeliverableGrade(ctx context.Context, deliverableID, requesterID uint) (dto.DeliverableGradeResponse, error)
	// ProjectEvaluations is the oversight view across a project's
	// deliverables, anonymized the same way.
	ProjectEvaluations(ctx context.Context, projectID uint) (dto.ProjectEvaluationsResponse, error)
	// DeliverableStats reports grading progress for oversight. Results are
	// cached briefly since professors poll this during grading rounds.
	DeliverableStats(ctx context.Context, deliverableID uint) (dto.DeliverableStatsResponse, error)
}

type gradingService struct {
	deliverables repository.DeliverableRepository
	projects     repository.ProjectRepository
	assignments  repository.JuryAssignmentRepository
	evaluations  repository.EvaluationRepository
	access       policy.Policy
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
}

// NewGradingService constructs a GradingService. The cache client may be
// nil when Redis is not configured; stats are then computed on every call.
func NewGradingService(deliverables repository.DeliverableRepository, projects repository.ProjectRepository, assignments repository.JuryAssignmentRepository, evaluations repository.EvaluationRepository, access policy.Policy, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) GradingService {
	return &gradingService{
		deliverables: deliverables,
		projects:     projects,
		assignments:  assignments,
		evaluations:  evaluations,
		access:       access,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger.With().Str("component", "grading_service").Logger(),
	}
}

func (s *gradingService) DeliverableGrade(ctx context.Context, deliverableID, requesterID uint) (dto.DeliverableGradeResponse, error) {
	ctx, span := otel.Tracer("grading_service").Start(ctx, "GradingService.DeliverableGrade")
	defer span.End()
	span.SetAttributes(attribute.Int("deliverable.id", int(deliverableID)))

	deliverable, err := s.deliverables.GetByID(ctx, deliverableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeliverableGradeResponse{}, ErrDeliverableNotFound
		}
		return dto.DeliverableGradeResponse{}, err
	}

	if !s.access.CanManageDeliverable(requesterID, deliverable) {
		return dto.DeliverableGradeResponse{}, ErrNotProjectOwner
	}

	evaluations, err := s.evaluations.ListByDeliverable(ctx, deliverableID)
	if err != nil {
		return dto.DeliverableGradeResponse{}, err
	}

	return dto.DeliverableGradeResponse{
		Deliverable: dto.NewDeliverableResponse(deliverable),
		GradeInfo:   computeBreakdown(scoresOf(evaluations)),
	}, nil
}

func (s *gradingService) ProjectEvaluations(ctx context.Context, projectID uint) (dto.ProjectEvaluationsResponse, error) {
	ctx, span := otel.Tracer("grading_service").Start(ctx, "GradingService.ProjectEvaluations")
	defer span.End()
	span.SetAttributes(attribute.Int("project.id", int(projectID)))

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectEvaluationsResponse{}, ErrProjectNotFound
		}
		return dto.ProjectEvaluationsResponse{}, err
	}

	perDeliverable := make([]dto.DeliverableEvaluations, 0, len(project.Deliverables))
	var gradeSum float64
	var gradedCount int

	for _, deliverable := range project.Deliverables {
		evaluations, err := s.evaluations.ListByDeliverable(ctx, deliverable.ID)
		if err != nil {
			return dto.ProjectEvaluationsResponse{}, err
		}

		breakdown := computeBreakdown(scoresOf(evaluations))
		if breakdown.FinalGrade != nil {
			gradeSum += *breakdown.FinalGrade
			gradedCount++
		}

		perDeliverable = append(perDeliverable, dto.DeliverableEvaluations{
			Deliverable:      dto.NewDeliverableResponse(deliverable),
			Evaluations:      dto.NewAnonymousEvaluationSlice(evaluations),
			FinalGrade:       breakdown.FinalGrade,
			TotalEvaluations: breakdown.TotalEvaluations,
		})
	}

	var projectAverage *float64
	if gradedCount > 0 {
		average := roundScore(gradeSum / float64(gradedCount))
		projectAverage = &average
	}

	return dto.ProjectEvaluationsResponse{
		Project:        dto.NewProjectSummary(project),
		ProjectAverage: projectAverage,
		Evaluations:    perDeliverable,
	}, nil
}

func (s *gradingService) DeliverableStats(ctx context.Context, deliverableID uint) (dto.DeliverableStatsResponse, error) {
	ctx, span := otel.Tracer("grading_service").Start(ctx, "GradingService.DeliverableStats")
	defer span.End()
	span.SetAttributes(attribute.Int("deliverable.id", int(deliverableID)))

	if cached, ok := s.cachedStats(ctx, deliverableID); ok {
		return cached, nil
	}

	deliverable, err := s.deliverables.GetByID(ctx, deliverableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeliverableStatsResponse{}, ErrDeliverableNotFound
		}
		return dto.DeliverableStatsResponse{}, err
	}

	assignments, err := s.assignments.ListByDeliverable(ctx, deliverableID)
	if err != nil {
		return dto.DeliverableStatsResponse{}, err
	}

	evaluations, err := s.evaluations.ListByDeliverable(ctx, deliverableID)
	if err != nil {
		return dto.DeliverableStatsResponse{}, err
	}

	response := dto.DeliverableStatsResponse{
		Deliverable: dto.NewDeliverableResponse(deliverable),
		Stats:       buildStats(assignments, scoresOf(evaluations)),
	}

	s.storeStats(ctx, deliverableID, response)

	return response, nil
}

func (s *gradingService) cachedStats(ctx context.Context, deliverableID uint) (dto.DeliverableStatsResponse, bool) {
	if s.cache == nil {
		return dto.DeliverableStatsResponse{}, false
	}

	raw, err := s.cache.Get(ctx, statsCacheKey(deliverableID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Uint("deliverable_id", deliverableID).Msg("stats cache read failed")
		}
		return dto.DeliverableStatsResponse{}, false
	}

	var response dto.DeliverableStatsResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return dto.DeliverableStatsResponse{}, false
	}

	return response, true
}

func (s *gradingService) storeStats(ctx context.Context, deliverableID uint, response dto.DeliverableStatsResponse) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, statsCacheKey(deliverableID), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("deliverable_id", deliverableID).Msg("stats cache write failed")
	}
}

// computeBreakdown applies the trimming rule: with three or more scores
// one lowest and one highest are dropped before averaging, with one or two
// everything counts, with none the grade is nil.
func computeBreakdown(scores []float64) dto.GradeBreakdown {
	breakdown := dto.GradeBreakdown{
		TotalEvaluations: len(scores),
		AllScores:        scores,
	}

	if len(scores) == 0 {
		return breakdown
	}

	observability.GradeComputationsTotal().Inc()

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	counted := sorted
	if len(sorted) >= 3 {
		lowest, highest := sorted[0], sorted[len(sorted)-1]
		breakdown.ExcludedLowest = &lowest
		breakdown.ExcludedHighest = &highest
		counted = sorted[1 : len(sorted)-1]
	}

	var sum float64
	for _, score := range counted {
		sum += score
	}
	grade := roundScore(sum / float64(len(counted)))
	breakdown.FinalGrade = &grade

	return breakdown
}

func buildStats(assignments []models.JuryAssignment, scores []float64) dto.DeliverableStats {
	submitted := 0
	for _, assignment := range assignments {
		if assignment.Status == models.AssignmentStatusSubmitted {
			submitted++
		}
	}

	stats := dto.DeliverableStats{
		TotalJuryMembers:     len(assignments),
		SubmittedEvaluations: submitted,
		PendingEvaluations:   len(assignments) - submitted,
		SubmissionRate:       "N/A",
		AllScores:            scores,
	}

	if len(assignments) > 0 {
		stats.SubmissionRate = fmt.Sprintf("%.2f%%", float64(submitted)/float64(len(assignments))*100)
	}

	breakdown := computeBreakdown(scores)
	stats.FinalGrade = breakdown.FinalGrade

	if len(scores) > 0 {
		min, max := scores[0], scores[0]
		var sum float64
		for _, score := range scores {
			sum += score
			if score < min {
				min = score
			}
			if score > max {
				max = score
			}
		}
		stats.AverageScore = roundScore(sum / float64(len(scores)))
		stats.MinScore = &min
		stats.MaxScore = &max
	}

	return stats
}

func scoresOf(evaluations []models.Evaluation) []float64 {
	scores := make([]float64, 0, len(evaluations))
	for _, evaluation := range evaluations {
		scores = append(scores, evaluation.Score)
	}

	return scores
}

// roundScore rounds half up to two decimals.
func roundScore(value float64) float64 {
	return math.Floor(value*100+0.5) / 100
}
