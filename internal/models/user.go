package models

import "time"

// User represents a student or professor account. The role never changes
// after creation; only students can sit on a jury.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:255;not null" json:"full_name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:32;not null;default:student" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// RoleStudent marks evaluator-capable users.
	RoleStudent = "student"
	// RoleProfessor marks the oversight role with anonymized read access.
	RoleProfessor = "professor"
)

// IsStudent reports whether the user may be selected as a jury member.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}
