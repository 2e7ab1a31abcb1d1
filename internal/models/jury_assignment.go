package models

import "time"

// JuryAssignment binds one evaluator to one deliverable. The evaluator is
// never the deliverable's project owner, and a user holds at most one
// assignment per deliverable.
type JuryAssignment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	DeliverableID uint      `gorm:"not null;index;uniqueIndex:idx_deliverable_jury_member" json:"deliverable_id"`
	JuryMemberID  uint      `gorm:"not null;index;uniqueIndex:idx_deliverable_jury_member" json:"jury_member_id"`
	Status        string    `gorm:"size:32;not null;default:assigned" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Deliverable Deliverable `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	JuryMember  User        `gorm:"foreignKey:JuryMemberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Evaluation  *Evaluation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"evaluation,omitempty"`
}

const (
	// AssignmentStatusAssigned means the evaluator has not submitted yet.
	AssignmentStatusAssigned = "assigned"
	// AssignmentStatusSubmitted means an evaluation exists for the assignment.
	AssignmentStatusSubmitted = "submitted"
	// AssignmentStatusWithdrawn is reserved for future cancellation flows.
	AssignmentStatusWithdrawn = "withdrawn"
)
