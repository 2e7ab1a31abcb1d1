package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

func TestJuryAssignmentRepositoryCreateBatchAtomic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJuryAssignmentRepository(db)

	owner := seedUser(t, db, "Owner", "owner@example.com", models.RoleStudent)
	project := seedProject(t, db, owner.ID, "Capstone")
	deliverable := seedDeliverable(t, db, project.ID, models.DeliverableStatusPending)

	members := make([]models.User, 0, 3)
	for i := 0; i < 3; i++ {
		members = append(members, seedUser(t, db, fmt.Sprintf("Member %d", i), fmt.Sprintf("member%d@example.com", i), models.RoleStudent))
	}

	// The second entry repeats the first member, violating the unique
	// index; the whole batch must roll back.
	batch := []models.JuryAssignment{
		{DeliverableID: deliverable.ID, JuryMemberID: members[0].ID, Status: models.AssignmentStatusAssigned},
		{DeliverableID: deliverable.ID, JuryMemberID: members[0].ID, Status: models.AssignmentStatusAssigned},
		{DeliverableID: deliverable.ID, JuryMemberID: members[1].ID, Status: models.AssignmentStatusAssigned},
	}
	require.Error(t, repo.CreateBatch(context.Background(), batch))

	var count int64
	require.NoError(t, db.Model(&models.JuryAssignment{}).Count(&count).Error)
	require.Zero(t, count, "failed batch must not leave partial rows")

	valid := []models.JuryAssignment{
		{DeliverableID: deliverable.ID, JuryMemberID: members[0].ID, Status: models.AssignmentStatusAssigned},
		{DeliverableID: deliverable.ID, JuryMemberID: members[1].ID, Status: models.AssignmentStatusAssigned},
		{DeliverableID: deliverable.ID, JuryMemberID: members[2].ID, Status: models.AssignmentStatusAssigned},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), valid))

	ids, err := repo.ListMemberIDs(context.Background(), deliverable.ID)
	require.NoError(t, err)
	require.Len(t, ids, 3)
}

func TestJuryAssignmentRepositoryUniquePerDeliverable(t *testing.T) {
	db := setupTestDB(t)

	owner := seedUser(t, db, "Owner", "owner@example.com", models.RoleStudent)
	member := seedUser(t, db, "Member", "member@example.com", models.RoleStudent)
	project := seedProject(t, db, owner.ID, "Capstone")
	first := seedDeliverable(t, db, project.ID, models.DeliverableStatusPending)
	second := seedDeliverable(t, db, project.ID, models.DeliverableStatusPending)

	require.NoError(t, db.Create(&models.JuryAssignment{DeliverableID: first.ID, JuryMemberID: member.ID}).Error)
	require.Error(t, db.Create(&models.JuryAssignment{DeliverableID: first.ID, JuryMemberID: member.ID}).Error)

	// The same member may serve on a different deliverable.
	require.NoError(t, db.Create(&models.JuryAssignment{DeliverableID: second.ID, JuryMemberID: member.ID}).Error)
}

func TestJuryAssignmentRepositoryListByJuryMember(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJuryAssignmentRepository(db)

	owner := seedUser(t, db, "Owner", "owner@example.com", models.RoleStudent)
	member := seedUser(t, db, "Member", "member@example.com", models.RoleStudent)
	other := seedUser(t, db, "Other", "other@example.com", models.RoleStudent)
	project := seedProject(t, db, owner.ID, "Capstone")
	deliverable := seedDeliverable(t, db, project.ID, models.DeliverableStatusOpenForGrading)

	require.NoError(t, db.Create(&models.JuryAssignment{DeliverableID: deliverable.ID, JuryMemberID: member.ID}).Error)
	require.NoError(t, db.Create(&models.JuryAssignment{DeliverableID: deliverable.ID, JuryMemberID: other.ID}).Error)

	assignments, err := repo.ListByJuryMember(context.Background(), member.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.Equal(t, deliverable.ID, assignments[0].Deliverable.ID)
	require.Equal(t, "Capstone", assignments[0].Deliverable.Project.Title)
	require.Equal(t, "Owner", assignments[0].Deliverable.Project.Creator.FullName)
}
