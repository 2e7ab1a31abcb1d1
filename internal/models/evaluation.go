package models

import "time"

// Evaluation is the anonymous score and feedback a jury member submits
// against their assignment. At most one evaluation exists per assignment;
// UpdatedAt anchors the rolling edit window.
type Evaluation struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	JuryAssignmentID uint      `gorm:"not null;uniqueIndex" json:"jury_assignment_id"`
	Score            float64   `gorm:"not null" json:"score"`
	Feedback         string    `gorm:"type:text" json:"feedback"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Assignment JuryAssignment `gorm:"foreignKey:JuryAssignmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// Score bounds accepted from evaluators, inclusive.
const (
	MinScore = 1.0
	MaxScore = 10.0
)
