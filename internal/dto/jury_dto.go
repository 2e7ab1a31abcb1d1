package dto

import (
	"time"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

// JurySelectionRequest describes the payload for triggering jury selection.
// A zero size falls back to the configured default.
type JurySelectionRequest struct {
	JurySize int `json:"jury_size" validate:"omitempty,gt=0,lte=50"`
}

// JuryAssignmentResponse is the representation returned to the project
// owner after selection. It deliberately omits the jury member identity.
type JuryAssignmentResponse struct {
	ID            uint      `json:"id"`
	DeliverableID uint      `json:"deliverable_id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// JurySelectionResponse summarizes a selection round.
type JurySelectionResponse struct {
	JuryCount   int                      `json:"jury_count"`
	Assignments []JuryAssignmentResponse `json:"assignments"`
}

// JuryAssignmentView is the evaluator's own view of an assignment,
// including the deliverable context and their evaluation if present.
type JuryAssignmentView struct {
	ID           uint                `json:"id"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	Deliverable  DeliverableResponse `json:"deliverable"`
	ProjectTitle string              `json:"project_title"`
	CreatorName  string              `json:"creator_name"`
	Evaluation   *EvaluationResponse `json:"evaluation,omitempty"`
}

// NewJuryAssignmentResponse converts a model into the owner-facing DTO.
func NewJuryAssignmentResponse(model models.JuryAssignment) JuryAssignmentResponse {
	return JuryAssignmentResponse{
		ID:            model.ID,
		DeliverableID: model.DeliverableID,
		Status:        model.Status,
		CreatedAt:     model.CreatedAt,
	}
}

// NewJuryAssignmentResponseSlice converts a slice of models into DTOs.
func NewJuryAssignmentResponseSlice(assignments []models.JuryAssignment) []JuryAssignmentResponse {
	responses := make([]JuryAssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewJuryAssignmentResponse(assignment))
	}

	return responses
}

// NewJuryAssignmentView converts a model into the evaluator's own view.
func NewJuryAssignmentView(model models.JuryAssignment) JuryAssignmentView {
	view := JuryAssignmentView{
		ID:           model.ID,
		Status:       model.Status,
		CreatedAt:    model.CreatedAt,
		Deliverable:  NewDeliverableResponse(model.Deliverable),
		ProjectTitle: model.Deliverable.Project.Title,
		CreatorName:  model.Deliverable.Project.Creator.FullName,
	}

	if model.Evaluation != nil {
		evaluation := NewEvaluationResponse(*model.Evaluation)
		view.Evaluation = &evaluation
	}

	return view
}

// NewJuryAssignmentViewSlice converts a slice of models into evaluator views.
func NewJuryAssignmentViewSlice(assignments []models.JuryAssignment) []JuryAssignmentView {
	views := make([]JuryAssignmentView, 0, len(assignments))
	for _, assignment := range assignments {
		views = append(views, NewJuryAssignmentView(assignment))
	}

	return views
}
