package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

// ErrEditWindowClosed is returned by Submit when an existing evaluation is
// older than the edit window. The check runs against the freshest stored
// timestamp inside the write transaction, so concurrent edits cannot race
// past a stale read.
var ErrEditWindowClosed = errors.New("evaluation edit window closed")

// EvaluationRepository defines data operations for evaluations.
type EvaluationRepository interface {
	GetByID(ctx context.Context, id uint) (models.Evaluation, error)
	GetByAssignmentID(ctx context.Context, assignmentID uint) (models.Evaluation, error)
	// ListByDeliverable returns every evaluation whose assignment belongs
	// to the deliverable, regardless of assignment status.
	ListByDeliverable(ctx context.Context, deliverableID uint) ([]models.Evaluation, error)
	// Submit creates the evaluation for the assignment, or overwrites it
	// when the last modification is younger than editWindow. The write and
	// the assignment status flip share one transaction.
	Submit(ctx context.Context, assignmentID uint, score float64, feedback string, editWindow time.Duration, now time.Time) (models.Evaluation, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) GetByID(ctx context.Context, id uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		First(&evaluation, id).Error; err != nil {
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

func (r *evaluationRepository) GetByAssignmentID(ctx context.Context, assignmentID uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).
		Where("jury_assignment_id = ?", assignmentID).
		First(&evaluation).Error; err != nil {
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

func (r *evaluationRepository) ListByDeliverable(ctx context.Context, deliverableID uint) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	if err := r.db.WithContext(ctx).
		Joins("JOIN jury_assignments ON jury_assignments.id = evaluations.jury_assignment_id").
		Where("jury_assignments.deliverable_id = ?", deliverableID).
		Order("evaluations.id ASC").
		Find(&evaluations).Error; err != nil {
		return nil, err
	}

	return evaluations, nil
}

func (r *evaluationRepository) Submit(ctx context.Context, assignmentID uint, score float64, feedback string, editWindow time.Duration, now time.Time) (models.Evaluation, error) {
	var result models.Evaluation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Evaluation
		err := tx.Where("jury_assignment_id = ?", assignmentID).First(&existing).Error

		switch {
		case err == nil:
			if now.Sub(existing.UpdatedAt) >= editWindow {
				return ErrEditWindowClosed
			}
			existing.Score = score
			existing.Feedback = feedback
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			result = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			result = models.Evaluation{
				JuryAssignmentID: assignmentID,
				Score:            score,
				Feedback:         feedback,
			}
			if err := tx.Create(&result).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Model(&models.JuryAssignment{}).
			Where("id = ?", assignmentID).
			Update("status", models.AssignmentStatusSubmitted).Error
	})
	if err != nil {
		return models.Evaluation{}, err
	}

	return result, nil
}
