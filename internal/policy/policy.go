package policy

import "github.com/peerjury/peerjury-go-api/internal/models"

// Policy centralizes the ownership and role checks that gate every
// mutating operation, so individual services never repeat ad hoc
// comparisons that could drift apart.
type Policy struct{}

// New returns the capability checker shared by all services.
func New() Policy {
	return Policy{}
}

// CanManageProject reports whether the requester owns the project.
// Ownership never transfers, so this is a pure identity comparison.
func (Policy) CanManageProject(requesterID uint, project models.Project) bool {
	return requesterID != 0 && requesterID == project.UserID
}

// CanManageDeliverable reports whether the requester owns the project the
// deliverable belongs to. Jury selection, content updates and lifecycle
// transitions are all gated by this.
func (p Policy) CanManageDeliverable(requesterID uint, deliverable models.Deliverable) bool {
	return p.CanManageProject(requesterID, deliverable.Project)
}

// CanSubmitEvaluation reports whether the requester holds the assignment.
// Evaluators may only write and read grades under their own assignment.
func (Policy) CanSubmitEvaluation(requesterID uint, assignment models.JuryAssignment) bool {
	return requesterID != 0 && requesterID == assignment.JuryMemberID
}

// CanServeOnJury reports whether the user is eligible for the
// deliverable's jury: evaluator-capable and not the project owner.
func (Policy) CanServeOnJury(user models.User, deliverable models.Deliverable) bool {
	return user.IsStudent() && user.ID != deliverable.Project.UserID
}

// CanOversee reports whether the role grants anonymized oversight access.
func (Policy) CanOversee(role string) bool {
	return role == models.RoleProfessor
}
