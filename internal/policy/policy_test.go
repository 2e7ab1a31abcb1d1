package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

func TestCanManageProject(t *testing.T) {
	p := New()
	project := models.Project{ID: 1, UserID: 7}

	require.True(t, p.CanManageProject(7, project))
	require.False(t, p.CanManageProject(8, project))
	require.False(t, p.CanManageProject(0, models.Project{}))
}

func TestCanManageDeliverableFollowsProjectOwner(t *testing.T) {
	p := New()
	deliverable := models.Deliverable{ID: 3, Project: models.Project{ID: 1, UserID: 7}}

	require.True(t, p.CanManageDeliverable(7, deliverable))
	require.False(t, p.CanManageDeliverable(9, deliverable))
}

func TestCanSubmitEvaluation(t *testing.T) {
	p := New()
	assignment := models.JuryAssignment{ID: 5, JuryMemberID: 11}

	require.True(t, p.CanSubmitEvaluation(11, assignment))
	require.False(t, p.CanSubmitEvaluation(12, assignment))
}

func TestCanServeOnJuryExcludesOwnerAndProfessors(t *testing.T) {
	p := New()
	deliverable := models.Deliverable{Project: models.Project{UserID: 7}}

	require.True(t, p.CanServeOnJury(models.User{ID: 2, Role: models.RoleStudent}, deliverable))
	require.False(t, p.CanServeOnJury(models.User{ID: 7, Role: models.RoleStudent}, deliverable), "project owner must never grade their own work")
	require.False(t, p.CanServeOnJury(models.User{ID: 3, Role: models.RoleProfessor}, deliverable))
}

func TestCanOversee(t *testing.T) {
	p := New()
	require.True(t, p.CanOversee(models.RoleProfessor))
	require.False(t, p.CanOversee(models.RoleStudent))
	require.False(t, p.CanOversee(""))
}
