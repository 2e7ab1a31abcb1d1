package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Deliverable{},
		&models.JuryAssignment{},
		&models.Evaluation{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()
	user := models.User{FullName: name, Email: email, Password: "hash", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uint, title string) models.Project {
	t.Helper()
	project := models.Project{UserID: ownerID, Title: title, Status: models.ProjectStatusActive}
	require.NoError(t, db.Create(&project).Error)
	return project
}

func seedDeliverable(t *testing.T, db *gorm.DB, projectID uint, status string) models.Deliverable {
	t.Helper()
	deliverable := models.Deliverable{
		ProjectID: projectID,
		Title:     "Sprint demo",
		DueDate:   time.Now().Add(72 * time.Hour),
		Status:    status,
	}
	require.NoError(t, db.Create(&deliverable).Error)
	return deliverable
}
