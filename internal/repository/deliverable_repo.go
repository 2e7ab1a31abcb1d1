package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

// DeliverableRepository defines data operations for deliverables.
type DeliverableRepository interface {
	Create(ctx context.Context, deliverable *models.Deliverable) error
	GetByID(ctx context.Context, id uint) (models.Deliverable, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.Deliverable, error)
	Update(ctx context.Context, deliverable *models.Deliverable) error
}

type deliverableRepository struct {
	db *gorm.DB
}

// NewDeliverableRepository instantiates the repository.
func NewDeliverableRepository(db *gorm.DB) DeliverableRepository {
	return &deliverableRepository{db: db}
}

func (r *deliverableRepository) Create(ctx context.Context, deliverable *models.Deliverable) error {
	return r.db.WithContext(ctx).Create(deliverable).Error
}

func (r *deliverableRepository) GetByID(ctx context.Context, id uint) (models.Deliverable, error) {
	var deliverable models.Deliverable
	if err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Project.Creator").
		First(&deliverable, id).Error; err != nil {
		return models.Deliverable{}, err
	}

	return deliverable, nil
}

func (r *deliverableRepository) ListByProject(ctx context.Context, projectID uint) ([]models.Deliverable, error) {
	var deliverables []models.Deliverable
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("due_date ASC").
		Find(&deliverables).Error; err != nil {
		return nil, err
	}

	return deliverables, nil
}

func (r *deliverableRepository) Update(ctx context.Context, deliverable *models.Deliverable) error {
	return r.db.WithContext(ctx).Save(deliverable).Error
}
