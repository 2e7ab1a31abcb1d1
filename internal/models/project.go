package models

import "time"

// Project is owned by exactly one user; ownership never transfers.
type Project struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	UserID       uint          `gorm:"not null;index" json:"user_id"`
	Title        string        `gorm:"size:255;not null" json:"title"`
	Description  string        `gorm:"type:text" json:"description"`
	Status       string        `gorm:"size:32;not null;default:draft" json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Creator      User          `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Deliverables []Deliverable `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"deliverables,omitempty"`
}

const (
	// ProjectStatusDraft is the initial project status.
	ProjectStatusDraft = "draft"
	// ProjectStatusActive marks a project released for grading workflows.
	ProjectStatusActive = "active"
)
