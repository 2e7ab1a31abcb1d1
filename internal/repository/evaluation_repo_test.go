package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

func TestEvaluationRepositorySubmitCreatesAndFlipsStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)

	owner := seedUser(t, db, "Owner", "owner@example.com", models.RoleStudent)
	member := seedUser(t, db, "Member", "member@example.com", models.RoleStudent)
	project := seedProject(t, db, owner.ID, "Capstone")
	deliverable := seedDeliverable(t, db, project.ID, models.DeliverableStatusOpenForGrading)
	assignment := models.JuryAssignment{DeliverableID: deliverable.ID, JuryMemberID: member.ID, Status: models.AssignmentStatusAssigned}
	require.NoError(t, db.Create(&assignment).Error)

	evaluation, err := repo.Submit(context.Background(), assignment.ID, 8.5, "well done", 24*time.Hour, time.Now())
	require.NoError(t, err)
	require.Equal(t, 8.5, evaluation.Score)

	var stored models.JuryAssignment
	require.NoError(t, db.First(&stored, assignment.ID).Error)
	require.Equal(t, models.AssignmentStatusSubmitted, stored.Status)
}

func TestEvaluationRepositorySubmitEditsWithinWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)

	owner := seedUser(t, db, "Owner", "owner@example.com", models.RoleStudent)
	member := seedUser(t, db, "Member", "member@example.com", models.RoleStudent)
	project := seedProject(t, db, owner.ID, "Capstone")
	deliverable := seedDeliverable(t, db, project.ID, models.DeliverableStatusOpenForGrading)
	assignment := models.JuryAssignment{DeliverableID: deliverable.ID, JuryMemberID: member.ID, Status: models.AssignmentStatusAssigned}
	require.NoError(t, db.Create(&assignment).Error)

	_, err := repo.Submit(context.Background(), assignment.ID, 6, "first pass", 24*time.Hour, time.Now())
	require.NoError(t, err)

	updated, err := repo.Submit(context.Background(), assignment.ID, 9, "revised", 24*time.Hour, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, 9.0, updated.Score)
	require.Equal(t, "revised", updated.Feedback)

	evaluations, err := repo.ListByDeliverable(context.Background(), deliverable.ID)
	require.NoError(t, err)
	require.Len(t, evaluations, 1, "editing must not create a second evaluation")
}

func TestEvaluationRepositorySubmitRejectsAfterWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)

	owner := seedUser(t, db, "Owner", "owner@example.com", models.RoleStudent)
	member := seedUser(t, db, "Member", "member@example.com", models.RoleStudent)
	project := seedProject(t, db, owner.ID, "Capstone")
	deliverable := seedDeliverable(t, db, project.ID, models.DeliverableStatusOpenForGrading)
	assignment := models.JuryAssignment{DeliverableID: deliverable.ID, JuryMemberID: member.ID, Status: models.AssignmentStatusAssigned}
	require.NoError(t, db.Create(&assignment).Error)

	submitted := time.Now()
	_, err := repo.Submit(context.Background(), assignment.ID, 6, "first pass", 24*time.Hour, submitted)
	require.NoError(t, err)

	_, err = repo.Submit(context.Background(), assignment.ID, 9, "too late", 24*time.Hour, submitted.Add(25*time.Hour))
	require.ErrorIs(t, err, ErrEditWindowClosed)

	stored, err := repo.GetByAssignmentID(context.Background(), assignment.ID)
	require.NoError(t, err)
	require.Equal(t, 6.0, stored.Score, "rejected edit must leave the evaluation untouched")
}

func TestEvaluationRepositoryOneEvaluationPerAssignment(t *testing.T) {
	db := setupTestDB(t)

	owner := seedUser(t, db, "Owner", "owner@example.com", models.RoleStudent)
	member := seedUser(t, db, "Member", "member@example.com", models.RoleStudent)
	project := seedProject(t, db, owner.ID, "Capstone")
	deliverable := seedDeliverable(t, db, project.ID, models.DeliverableStatusOpenForGrading)
	assignment := models.JuryAssignment{DeliverableID: deliverable.ID, JuryMemberID: member.ID, Status: models.AssignmentStatusAssigned}
	require.NoError(t, db.Create(&assignment).Error)

	first := models.Evaluation{JuryAssignmentID: assignment.ID, Score: 7}
	require.NoError(t, db.Create(&first).Error)

	second := models.Evaluation{JuryAssignmentID: assignment.ID, Score: 8}
	require.Error(t, db.Create(&second).Error, "unique index must reject a second evaluation")
}
