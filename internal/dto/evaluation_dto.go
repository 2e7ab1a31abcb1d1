package dto

import (
	"time"

	"github.com/peerjury/peerjury-go-api/internal/models"
)

// EvaluationSubmitRequest describes the payload for submitting or editing
// a score. Range and precision are validated by the ledger so failures
// come back in a fixed order.
type EvaluationSubmitRequest struct {
	JuryAssignmentID uint     `json:"jury_assignment_id" validate:"required,gt=0"`
	Score            *float64 `json:"score" validate:"required"`
	Feedback         string   `json:"feedback"`
}

// EvaluationResponse is returned to the evaluator who owns the assignment.
type EvaluationResponse struct {
	ID               uint      `json:"id"`
	JuryAssignmentID uint      `json:"jury_assignment_id"`
	Score            float64   `json:"score"`
	Feedback         string    `json:"feedback"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AnonymousEvaluation is the owner- and oversight-facing shape. It must
// never carry a jury member identifier; anonymity is enforced here, at the
// data-shaping boundary.
type AnonymousEvaluation struct {
	EvaluationID uint      `json:"evaluation_id"`
	Score        float64   `json:"score"`
	Feedback     string    `json:"feedback"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// NewEvaluationResponse converts a model into the evaluator-facing DTO.
func NewEvaluationResponse(model models.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:               model.ID,
		JuryAssignmentID: model.JuryAssignmentID,
		Score:            model.Score,
		Feedback:         model.Feedback,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewAnonymousEvaluation converts a model into the anonymized shape.
func NewAnonymousEvaluation(model models.Evaluation) AnonymousEvaluation {
	return AnonymousEvaluation{
		EvaluationID: model.ID,
		Score:        model.Score,
		Feedback:     model.Feedback,
		SubmittedAt:  model.CreatedAt,
	}
}

// NewAnonymousEvaluationSlice converts a slice of models into anonymized DTOs.
func NewAnonymousEvaluationSlice(evaluations []models.Evaluation) []AnonymousEvaluation {
	responses := make([]AnonymousEvaluation, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, NewAnonymousEvaluation(evaluation))
	}

	return responses
}
