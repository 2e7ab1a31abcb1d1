package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/peerjury/peerjury-go-api/internal/dto"
	"github.com/peerjury/peerjury-go-api/internal/models"
	"github.com/peerjury/peerjury-go-api/internal/observability"
	"github.com/peerjury/peerjury-go-api/internal/policy"
	"github.com/peerjury/peerjury-go-api/internal/repository"
)

// ErrSelectionClosed indicates jury selection was attempted after grading
// closed while the restriction flag is active.
var ErrSelectionClosed = errors.New("jury selection is closed for this deliverable")

// InsufficientPoolError reports that the eligible pool is smaller than the
// requested jury size. No assignments are created in that case.
type InsufficientPoolError struct {
	Available int
	Requested int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("not enough eligible students: found %d, needed %d", e.Available, e.Requested)
}

// JuryConfig carries the selection knobs resolved at startup.
type JuryConfig struct {
	DefaultSize       int
	PreventDuplicates bool
	RestrictSelection bool
}

// JuryService assembles evaluation panels and exposes an evaluator's own
// assignments.
type JuryService interface {
	SelectJury(ctx context.Context, deliverableID uint, jurySize int, requesterID uint) (dto.JurySelectionResponse, error)
	ListAssignments(ctx context.Context, juryMemberID uint) ([]dto.JuryAssignmentView, error)
}

type juryService struct {
	deliverables repository.DeliverableRepository
	assignments  repository.JuryAssignmentRepository
	users        repository.UserRepository
	access       policy.Policy
	events       EventPublisher
	cfg          JuryConfig
	logger       zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewJuryService constructs a JuryService. A nil rng falls back to a
// time-seeded source; tests pass a fixed seed for determinism.
func NewJuryService(deliverables repository.DeliverableRepository, assignments repository.JuryAssignmentRepository, users repository.UserRepository, access policy.Policy, events EventPublisher, cfg JuryConfig, logger zerolog.Logger, rng *rand.Rand) JuryService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.DefaultSize <= 0 {
		cfg.DefaultSize = 5
	}

	return &juryService{
		deliverables: deliverables,
		assignments:  assignments,
		users:        users,
		access:       access,
		events:       events,
		cfg:          cfg,
		logger:       logger.With().Str("component", "jury_service").Logger(),
		rng:          rng,
	}
}

func (s *juryService) SelectJury(ctx context.Context, deliverableID uint, jurySize int, requesterID uint) (dto.JurySelectionResponse, error) {
	deliverable, err := s.deliverables.GetByID(ctx, deliverableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JurySelectionResponse{}, ErrDeliverableNotFound
		}
		return dto.JurySelectionResponse{}, err
	}

	if !s.access.CanManageDeliverable(requesterID, deliverable) {
		return dto.JurySelectionResponse{}, ErrNotProjectOwner
	}

	if s.cfg.RestrictSelection && deliverable.Status == models.DeliverableStatusGradingClosed {
		return dto.JurySelectionResponse{}, ErrSelectionClosed
	}

	size := jurySize
	if size <= 0 {
		size = s.cfg.DefaultSize
	}

	candidates, err := s.users.ListStudentsExcluding(ctx, deliverable.Project.UserID)
	if err != nil {
		return dto.JurySelectionResponse{}, err
	}

	pool := make([]models.User, 0, len(candidates))
	for _, candidate := range candidates {
		if s.access.CanServeOnJury(candidate, deliverable) {
			pool = append(pool, candidate)
		}
	}

	if s.cfg.PreventDuplicates {
		assigned, err := s.assignments.ListMemberIDs(ctx, deliverable.ID)
		if err != nil {
			return dto.JurySelectionResponse{}, err
		}
		pool = excludeAssigned(pool, assigned)
	}

	if len(pool) < size {
		return dto.JurySelectionResponse{}, &InsufficientPoolError{Available: len(pool), Requested: size}
	}

	selected := s.sample(pool, size)

	assignments := make([]models.JuryAssignment, 0, size)
	for _, member := range selected {
		assignments = append(assignments, models.JuryAssignment{
			DeliverableID: deliverable.ID,
			JuryMemberID:  member.ID,
			Status:        models.AssignmentStatusAssigned,
		})
	}

	if err := s.assignments.CreateBatch(ctx, assignments); err != nil {
		return dto.JurySelectionResponse{}, err
	}

	observability.JurySelectionsTotal().Inc()

	if s.events != nil {
		_ = s.events.Publish(GradingEvent{
			Type:          EventJurySelected,
			DeliverableID: deliverable.ID,
			ProjectID:     deliverable.ProjectID,
		})
	}

	s.logger.Info().
		Uint("deliverable_id", deliverable.ID).
		Int("jury_size", size).
		Int("pool_size", len(pool)).
		Msg("jury selected")

	return dto.JurySelectionResponse{
		JuryCount:   len(assignments),
		Assignments: dto.NewJuryAssignmentResponseSlice(assignments),
	}, nil
}

func (s *juryService) ListAssignments(ctx context.Context, juryMemberID uint) ([]dto.JuryAssignmentView, error) {
	assignments, err := s.assignments.ListByJuryMember(ctx, juryMemberID)
	if err != nil {
		return nil, err
	}

	return dto.NewJuryAssignmentViewSlice(assignments), nil
}

// sample draws a uniform random subset of the given size via a
// Fisher-Yates shuffle of a copy of the pool.
func (s *juryService) sample(pool []models.User, size int) []models.User {
	shuffled := make([]models.User, len(pool))
	copy(shuffled, pool)

	s.mu.Lock()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	s.mu.Unlock()

	return shuffled[:size]
}

func excludeAssigned(pool []models.User, assigned []uint) []models.User {
	if len(assigned) == 0 {
		return pool
	}

	taken := make(map[uint]struct{}, len(assigned))
	for _, id := range assigned {
		taken[id] = struct{}{}
	}

	eligible := make([]models.User, 0, len(pool))
	for _, user := range pool {
		if _, ok := taken[user.ID]; !ok {
			eligible = append(eligible, user)
		}
	}

	return eligible
}
