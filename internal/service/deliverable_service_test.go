package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/peerjury/peerjury-go-api/internal/dto"
	"github.com/peerjury/peerjury-go-api/internal/models"
	"github.com/peerjury/peerjury-go-api/internal/policy"
)

func newDeliverableService(deliverables *fakeDeliverableRepo, projects *fakeProjectRepo, events EventPublisher) DeliverableService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewDeliverableService(deliverables, projects, policy.New(), events, validate, testLogger())
}

func pendingDeliverable(ownerID uint) *fakeDeliverableRepo {
	return &fakeDeliverableRepo{deliverables: map[uint]models.Deliverable{
		1: {
			ID:        1,
			ProjectID: 7,
			Title:     "Sprint demo",
			Status:    models.DeliverableStatusPending,
			Project:   models.Project{ID: 7, UserID: ownerID},
		},
	}}
}

func TestDeliverableServiceLifecycle(t *testing.T) {
	deliverables := pendingDeliverable(3)
	events := &capturingPublisher{}
	svc := newDeliverableService(deliverables, &fakeProjectRepo{}, events)

	opened, err := svc.OpenGrading(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, models.DeliverableStatusOpenForGrading, opened.Status)

	closed, err := svc.CloseGrading(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, models.DeliverableStatusGradingClosed, closed.Status)

	require.Len(t, events.events, 2)
	require.Equal(t, EventGradingOpened, events.events[0].Type)
	require.Equal(t, EventGradingClosed, events.events[1].Type)
}

func TestDeliverableServiceClosedIsTerminal(t *testing.T) {
	deliverables := pendingDeliverable(3)
	svc := newDeliverableService(deliverables, &fakeProjectRepo{}, nil)

	_, err := svc.OpenGrading(context.Background(), 1, 3)
	require.NoError(t, err)
	_, err = svc.CloseGrading(context.Background(), 1, 3)
	require.NoError(t, err)

	_, err = svc.OpenGrading(context.Background(), 1, 3)
	require.ErrorIs(t, err, ErrLifecycleTransition)
}

func TestDeliverableServiceCloseRequiresOpen(t *testing.T) {
	deliverables := pendingDeliverable(3)
	svc := newDeliverableService(deliverables, &fakeProjectRepo{}, nil)

	_, err := svc.CloseGrading(context.Background(), 1, 3)
	require.ErrorIs(t, err, ErrLifecycleTransition)
}

func TestDeliverableServiceLifecycleRequiresOwner(t *testing.T) {
	deliverables := pendingDeliverable(3)
	svc := newDeliverableService(deliverables, &fakeProjectRepo{}, nil)

	_, err := svc.OpenGrading(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrNotProjectOwner)
}

func TestDeliverableServiceCreateValidatesDueDate(t *testing.T) {
	projects := &fakeProjectRepo{projects: map[uint]models.Project{
		7: {ID: 7, UserID: 3},
	}}
	svc := newDeliverableService(&fakeDeliverableRepo{}, projects, nil)

	_, err := svc.Create(context.Background(), 7, dto.DeliverableCreateRequest{
		Title:   "Sprint demo",
		DueDate: "not-a-date",
	}, 3)
	require.Error(t, err)

	created, err := svc.Create(context.Background(), 7, dto.DeliverableCreateRequest{
		Title:   "Sprint demo",
		DueDate: "2025-06-01T12:00:00Z",
	}, 3)
	require.NoError(t, err)
	require.Equal(t, models.DeliverableStatusPending, created.Status)
}

func TestDeliverableServiceUpdateContentOnly(t *testing.T) {
	deliverables := pendingDeliverable(3)
	svc := newDeliverableService(deliverables, &fakeProjectRepo{}, nil)

	title := "Final demo"
	updated, err := svc.Update(context.Background(), 1, dto.DeliverableUpdateRequest{Title: &title}, 3)
	require.NoError(t, err)
	require.Equal(t, "Final demo", updated.Title)
	require.Equal(t, models.DeliverableStatusPending, updated.Status, "content updates never touch lifecycle status")
}
