package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/peerjury/peerjury-go-api/internal/models"
	"github.com/peerjury/peerjury-go-api/internal/policy"
)

type fakeDeliverableRepo struct {
	deliverables map[uint]models.Deliverable
	updated      []models.Deliverable
}

func (f *fakeDeliverableRepo) Create(ctx context.Context, deliverable *models.Deliverable) error {
	deliverable.ID = uint(len(f.deliverables) + 1)
	if f.deliverables == nil {
		f.deliverables = map[uint]models.Deliverable{}
	}
	f.deliverables[deliverable.ID] = *deliverable
	return nil
}

func (f *fakeDeliverableRepo) GetByID(ctx context.Context, id uint) (models.Deliverable, error) {
	deliverable, ok := f.deliverables[id]
	if !ok {
		return models.Deliverable{}, gorm.ErrRecordNotFound
	}
	return deliverable, nil
}

func (f *fakeDeliverableRepo) ListByProject(ctx context.Context, projectID uint) ([]models.Deliverable, error) {
	var out []models.Deliverable
	for _, d := range f.deliverables {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDeliverableRepo) Update(ctx context.Context, deliverable *models.Deliverable) error {
	f.deliverables[deliverable.ID] = *deliverable
	f.updated = append(f.updated, *deliverable)
	return nil
}

type fakeAssignmentRepo struct {
	assignments []models.JuryAssignment
	batchCalls  int
}

func (f *fakeAssignmentRepo) CreateBatch(ctx context.Context, assignments []models.JuryAssignment) error {
	f.batchCalls++
	for i := range assignments {
		assignments[i].ID = uint(len(f.assignments) + 1)
		f.assignments = append(f.assignments, assignments[i])
	}
	return nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (models.JuryAssignment, error) {
	for _, assignment := range f.assignments {
		if assignment.ID == id {
			return assignment, nil
		}
	}
	return models.JuryAssignment{}, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) ListByJuryMember(ctx context.Context, juryMemberID uint) ([]models.JuryAssignment, error) {
	var out []models.JuryAssignment
	for _, assignment := range f.assignments {
		if assignment.JuryMemberID == juryMemberID {
			out = append(out, assignment)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ListByDeliverable(ctx context.Context, deliverableID uint) ([]models.JuryAssignment, error) {
	var out []models.JuryAssignment
	for _, assignment := range f.assignments {
		if assignment.DeliverableID == deliverableID {
			out = append(out, assignment)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ListMemberIDs(ctx context.Context, deliverableID uint) ([]uint, error) {
	var ids []uint
	for _, assignment := range f.assignments {
		if assignment.DeliverableID == deliverableID {
			ids = append(ids, assignment.JuryMemberID)
		}
	}
	return ids, nil
}

type fakeUserRepo struct {
	students      []models.User
	lastExcludeID uint
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	for _, user := range f.students {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ListStudentsExcluding(ctx context.Context, excludeID uint) ([]models.User, error) {
	f.lastExcludeID = excludeID
	var out []models.User
	for _, user := range f.students {
		if user.ID != excludeID {
			out = append(out, user)
		}
	}
	return out, nil
}

func studentPool(n int) []models.User {
	users := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, models.User{ID: uint(i), Role: models.RoleStudent})
	}
	return users
}

func openDeliverable(ownerID uint) *fakeDeliverableRepo {
	return &fakeDeliverableRepo{deliverables: map[uint]models.Deliverable{
		1: {
			ID:        1,
			ProjectID: 7,
			Status:    models.DeliverableStatusOpenForGrading,
			Project:   models.Project{ID: 7, UserID: ownerID},
		},
	}}
}

func TestJuryServiceSelectJuryExcludesOwner(t *testing.T) {
	const ownerID = uint(3)
	deliverables := openDeliverable(ownerID)
	assignments := &fakeAssignmentRepo{}
	users := &fakeUserRepo{students: studentPool(10)}
	events := &capturingPublisher{}

	svc := NewJuryService(deliverables, assignments, users, policy.New(), events, JuryConfig{DefaultSize: 5}, testLogger(), rand.New(rand.NewSource(1)))

	selection, err := svc.SelectJury(context.Background(), 1, 0, ownerID)
	require.NoError(t, err)
	require.Equal(t, 5, selection.JuryCount)
	require.Len(t, selection.Assignments, 5)
	require.Equal(t, ownerID, users.lastExcludeID)

	seen := map[uint]bool{}
	for _, assignment := range assignments.assignments {
		require.NotEqual(t, ownerID, assignment.JuryMemberID)
		require.False(t, seen[assignment.JuryMemberID], "duplicate jury member in one round")
		seen[assignment.JuryMemberID] = true
		require.Equal(t, models.AssignmentStatusAssigned, assignment.Status)
	}

	require.Len(t, events.events, 1)
	require.Equal(t, EventJurySelected, events.events[0].Type)
}

func TestJuryServiceSelectJuryInsufficientPool(t *testing.T) {
	deliverables := openDeliverable(3)
	assignments := &fakeAssignmentRepo{}
	users := &fakeUserRepo{students: studentPool(4)}

	svc := NewJuryService(deliverables, assignments, users, policy.New(), nil, JuryConfig{DefaultSize: 5}, testLogger(), rand.New(rand.NewSource(1)))

	_, err := svc.SelectJury(context.Background(), 1, 5, 3)
	require.Error(t, err)

	var poolErr *InsufficientPoolError
	require.ErrorAs(t, err, &poolErr)
	require.Equal(t, 3, poolErr.Available)
	require.Equal(t, 5, poolErr.Requested)
	require.Equal(t, 0, assignments.batchCalls, "no assignments may be created on failure")
}

func TestJuryServiceSelectJuryDeterministicWithSeed(t *testing.T) {
	run := func() []uint {
		deliverables := openDeliverable(3)
		assignments := &fakeAssignmentRepo{}
		users := &fakeUserRepo{students: studentPool(20)}
		svc := NewJuryService(deliverables, assignments, users, policy.New(), nil, JuryConfig{DefaultSize: 5}, testLogger(), rand.New(rand.NewSource(42)))

		_, err := svc.SelectJury(context.Background(), 1, 5, 3)
		require.NoError(t, err)

		ids := make([]uint, 0, len(assignments.assignments))
		for _, assignment := range assignments.assignments {
			ids = append(ids, assignment.JuryMemberID)
		}
		return ids
	}

	require.Equal(t, run(), run())
}

func TestJuryServiceSelectJuryPreventsDuplicates(t *testing.T) {
	deliverables := openDeliverable(3)
	assignments := &fakeAssignmentRepo{}
	users := &fakeUserRepo{students: studentPool(8)}

	svc := NewJuryService(deliverables, assignments, users, policy.New(), nil, JuryConfig{DefaultSize: 3, PreventDuplicates: true}, testLogger(), rand.New(rand.NewSource(7)))

	_, err := svc.SelectJury(context.Background(), 1, 3, 3)
	require.NoError(t, err)
	firstRound := map[uint]bool{}
	for _, assignment := range assignments.assignments {
		firstRound[assignment.JuryMemberID] = true
	}

	_, err = svc.SelectJury(context.Background(), 1, 3, 3)
	require.NoError(t, err)
	require.Len(t, assignments.assignments, 6)
	for _, assignment := range assignments.assignments[3:] {
		require.False(t, firstRound[assignment.JuryMemberID], "second round must not reuse jury members")
	}
}

func TestJuryServiceSelectJuryRequiresOwner(t *testing.T) {
	deliverables := openDeliverable(3)
	svc := NewJuryService(deliverables, &fakeAssignmentRepo{}, &fakeUserRepo{students: studentPool(10)}, policy.New(), nil, JuryConfig{DefaultSize: 5}, testLogger(), rand.New(rand.NewSource(1)))

	_, err := svc.SelectJury(context.Background(), 1, 5, 99)
	require.ErrorIs(t, err, ErrNotProjectOwner)
}

func TestJuryServiceSelectJuryRestrictedAfterClose(t *testing.T) {
	deliverables := openDeliverable(3)
	closed := deliverables.deliverables[1]
	closed.Status = models.DeliverableStatusGradingClosed
	deliverables.deliverables[1] = closed

	svc := NewJuryService(deliverables, &fakeAssignmentRepo{}, &fakeUserRepo{students: studentPool(10)}, policy.New(), nil, JuryConfig{DefaultSize: 5, RestrictSelection: true}, testLogger(), rand.New(rand.NewSource(1)))

	_, err := svc.SelectJury(context.Background(), 1, 5, 3)
	require.ErrorIs(t, err, ErrSelectionClosed)
}

func TestJuryServiceSelectJuryUnknownDeliverable(t *testing.T) {
	svc := NewJuryService(&fakeDeliverableRepo{}, &fakeAssignmentRepo{}, &fakeUserRepo{}, policy.New(), nil, JuryConfig{}, testLogger(), rand.New(rand.NewSource(1)))

	_, err := svc.SelectJury(context.Background(), 42, 5, 1)
	require.True(t, errors.Is(err, ErrDeliverableNotFound))
}
