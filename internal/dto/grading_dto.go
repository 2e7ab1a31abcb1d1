package dto

// GradeBreakdown is the trimmed-mean result for one deliverable. A nil
// FinalGrade means no evaluations exist yet.
type GradeBreakdown struct {
	FinalGrade       *float64  `json:"final_grade"`
	TotalEvaluations int       `json:"total_evaluations"`
	ExcludedLowest   *float64  `json:"excluded_lowest,omitempty"`
	ExcludedHighest  *float64  `json:"excluded_highest,omitempty"`
	AllScores        []float64 `json:"all_scores"`
}

// DeliverableGradeResponse is the owner-facing grade view.
type DeliverableGradeResponse struct {
	Deliverable DeliverableResponse `json:"deliverable"`
	GradeInfo   GradeBreakdown      `json:"grade_info"`
}

// DeliverableStats is the oversight view of grading progress for one
// deliverable. Scores are included; evaluator identities are not.
type DeliverableStats struct {
	TotalJuryMembers     int       `json:"total_jury_members"`
	SubmittedEvaluations int       `json:"submitted_evaluations"`
	PendingEvaluations   int       `json:"pending_evaluations"`
	SubmissionRate       string    `json:"submission_rate"`
	FinalGrade           *float64  `json:"final_grade"`
	AverageScore         float64   `json:"average_score"`
	MinScore             *float64  `json:"min_score"`
	MaxScore             *float64  `json:"max_score"`
	AllScores            []float64 `json:"all_scores"`
}

// DeliverableStatsResponse pairs the stats with their deliverable.
type DeliverableStatsResponse struct {
	Deliverable DeliverableResponse `json:"deliverable"`
	Stats       DeliverableStats    `json:"stats"`
}

// DeliverableEvaluations groups a deliverable's anonymized evaluations
// with its computed grade.
type DeliverableEvaluations struct {
	Deliverable      DeliverableResponse   `json:"deliverable"`
	Evaluations      []AnonymousEvaluation `json:"evaluations"`
	FinalGrade       *float64              `json:"final_grade"`
	TotalEvaluations int                   `json:"total_evaluations"`
}

// ProjectEvaluationsResponse is the oversight view across a project.
type ProjectEvaluationsResponse struct {
	Project        ProjectSummary           `json:"project"`
	ProjectAverage *float64                 `json:"project_average"`
	Evaluations    []DeliverableEvaluations `json:"evaluations"`
}
