package dto

import (
	"time"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

// ProjectCreateRequest describes the payload for creating a project.
type ProjectCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"omitempty"`
}

// ProjectUpdateRequest describes the payload for updating a project.
type ProjectUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=draft active"`
}

// ProjectResponse is the serialized representation returned to API clients.
type ProjectResponse struct {
	ID           uint                  `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       string                `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Deliverables []DeliverableResponse `json:"deliverables,omitempty"`
}

// ProjectSummary identifies a project toward oversight without exposing
// more than creator name and id.
type ProjectSummary struct {
	ID           uint                  `json:"id"`
	Title        string                `json:"title"`
	CreatedBy    string                `json:"created_by"`
	CreatedAt    time.Time             `json:"created_at"`
	Deliverables []DeliverableResponse `json:"deliverables,omitempty"`
}

// NewProjectResponse converts a model into a DTO.
func NewProjectResponse(model models.Project) ProjectResponse {
	return ProjectResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		Status:       model.Status,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		Deliverables: NewDeliverableResponseSlice(model.Deliverables),
	}
}

// NewProjectResponseSlice converts a slice of models into DTOs.
func NewProjectResponseSlice(projects []models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, NewProjectResponse(project))
	}

	return responses
}

// NewProjectSummary converts a model into the oversight listing shape.
func NewProjectSummary(model models.Project) ProjectSummary {
	return ProjectSummary{
		ID:           model.ID,
		Title:        model.Title,
		CreatedBy:    model.Creator.FullName,
		CreatedAt:    model.CreatedAt,
		Deliverables: NewDeliverableResponseSlice(model.Deliverables),
	}
}

// NewProjectSummarySlice converts a slice of models into oversight DTOs.
func NewProjectSummarySlice(projects []models.Project) []ProjectSummary {
	summaries := make([]ProjectSummary, 0, len(projects))
	for _, project := range projects {
		summaries = append(summaries, NewProjectSummary(project))
	}

	return summaries
}
