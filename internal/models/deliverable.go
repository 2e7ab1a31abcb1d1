package models

import "time"

// Deliverable is a gradable unit of project work with a due date and a
// grading lifecycle status.
type Deliverable struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`
	VideoURL    string    `gorm:"size:512" json:"video_url"`
	ServerURL   string    `gorm:"size:512" json:"server_url"`
	Status      string    `gorm:"size:32;not null;default:pending" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Project         Project          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	JuryAssignments []JuryAssignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"jury_assignments,omitempty"`
}

// Lifecycle: pending -> open_for_grading -> grading_closed. Closing is
// terminal; there is no reopen path.
const (
	DeliverableStatusPending        = "pending"
	DeliverableStatusOpenForGrading = "open_for_grading"
	DeliverableStatusGradingClosed  = "grading_closed"
)

// IsOpenForGrading reports whether evaluations may currently be submitted.
func (d Deliverable) IsOpenForGrading() bool {
	return d.Status == DeliverableStatusOpenForGrading
}
