package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

// JuryAssignmentRepository defines data operations for jury assignments.
type JuryAssignmentRepository interface {
	// CreateBatch persists a selection round atomically: either every
	// assignment is committed or none are.
	CreateBatch(ctx context.Context, assignments []models.JuryAssignment) error
	GetByID(ctx context.Context, id uint) (models.JuryAssignment, error)
	ListByJuryMember(ctx context.Context, juryMemberID uint) ([]models.JuryAssignment, error)
	ListByDeliverable(ctx context.Context, deliverableID uint) ([]models.JuryAssignment, error)
	// ListMemberIDs returns the ids of users already assigned to the
	// deliverable, for duplicate-selection guarding.
	ListMemberIDs(ctx context.Context, deliverableID uint) ([]uint, error)
}

type juryAssignmentRepository struct {
	db *gorm.DB
}

// NewJuryAssignmentRepository instantiates the repository.
func NewJuryAssignmentRepository(db *gorm.DB) JuryAssignmentRepository {
	return &juryAssignmentRepository{db: db}
}

func (r *juryAssignmentRepository) CreateBatch(ctx context.Context, assignments []models.JuryAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range assignments {
			if err := tx.Create(&assignments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *juryAssignmentRepository) GetByID(ctx context.Context, id uint) (models.JuryAssignment, error) {
	var assignment models.JuryAssignment
	if err := r.db.WithContext(ctx).
		Preload("Deliverable").
		Preload("Deliverable.Project").
		Preload("Evaluation").
		First(&assignment, id).Error; err != nil {
		return models.JuryAssignment{}, err
	}

	return assignment, nil
}

func (r *juryAssignmentRepository) ListByJuryMember(ctx context.Context, juryMemberID uint) ([]models.JuryAssignment, error) {
	var assignments []models.JuryAssignment
	if err := r.db.WithContext(ctx).
		Preload("Deliverable").
		Preload("Deliverable.Project").
		Preload("Deliverable.Project.Creator").
		Preload("Evaluation").
		Where("jury_member_id = ?", juryMemberID).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *juryAssignmentRepository) ListByDeliverable(ctx context.Context, deliverableID uint) ([]models.JuryAssignment, error) {
	var assignments []models.JuryAssignment
	if err := r.db.WithContext(ctx).
		Preload("Evaluation").
		Where("deliverable_id = ?", deliverableID).
		Order("id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *juryAssignmentRepository) ListMemberIDs(ctx context.Context, deliverableID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.JuryAssignment{}).
		Where("deliverable_id = ?", deliverableID).
		Pluck("jury_member_id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}
