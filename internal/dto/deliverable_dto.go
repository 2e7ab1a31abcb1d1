package dto

import (
	"time"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

// DeliverableCreateRequest describes the payload for creating a deliverable.
type DeliverableCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	ServerURL   string `json:"server_url" validate:"omitempty,url"`
}

// DeliverableUpdateRequest describes the owner-editable content fields.
// Lifecycle status is never set through this payload.
type DeliverableUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url"`
	ServerURL   *string `json:"server_url" validate:"omitempty,url"`
}

// DeliverableResponse is the serialized representation returned to API clients.
type DeliverableResponse struct {
	ID          uint      `json:"id"`
	ProjectID   uint      `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	VideoURL    string    `json:"video_url,omitempty"`
	ServerURL   string    `json:"server_url,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeliverableResponse converts a model into a DTO.
func NewDeliverableResponse(model models.Deliverable) DeliverableResponse {
	return DeliverableResponse{
		ID:          model.ID,
		ProjectID:   model.ProjectID,
		Title:       model.Title,
		Description: model.Description,
		DueDate:     model.DueDate,
		VideoURL:    model.VideoURL,
		ServerURL:   model.ServerURL,
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewDeliverableResponseSlice converts a slice of models into DTOs.
func NewDeliverableResponseSlice(deliverables []models.Deliverable) []DeliverableResponse {
	responses := make([]DeliverableResponse, 0, len(deliverables))
	for _, deliverable := range deliverables {
		responses = append(responses, NewDeliverableResponse(deliverable))
	}

	return responses
}
