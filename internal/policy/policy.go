// Package policy holds the role capability matrix. Handlers and services must
// consult it before mutating state; hiding buttons in a client is not
// authorization.
package policy

import (
	"github.com/college-feedback/feedback-service/internal/errs"
	"github.com/college-feedback/feedback-service/internal/model"
)

type Operation string

const (
	OpCreateFeedback     Operation = "feedback.create"
	OpTransitionFeedback Operation = "feedback.transition"
	OpAssignFeedback     Operation = "feedback.assign"
	OpDeleteFeedback     Operation = "feedback.delete"
	OpManageCategories   Operation = "categories.manage"
	OpManageUsers        Operation = "users.manage"
	OpListUsers          Operation = "users.list"
	OpListAllFeedback    Operation = "feedback.list_all"
)

// allowed maps each operation to the roles permitted to perform it.
// Commenting and rating are not here: they depend on the relationship
// between actor and feedback, see CanComment and CanRate.
var allowed = map[Operation][]model.Role{
	OpCreateFeedback: {model.RoleStudent, model.RoleFaculty, model.RoleStaff, model.RoleAdmin, model.RoleSuperAdmin},

	// Transitions are admin-only regardless of ticket ownership.
	OpTransitionFeedback: {model.RoleAdmin, model.RoleSuperAdmin},
	OpAssignFeedback:     {model.RoleAdmin, model.RoleSuperAdmin},
	OpDeleteFeedback:     {model.RoleAdmin, model.RoleSuperAdmin},
	OpManageCategories:   {model.RoleAdmin, model.RoleSuperAdmin},
	OpManageUsers:        {model.RoleSuperAdmin},
	OpListUsers:          {model.RoleAdmin, model.RoleSuperAdmin},
	OpListAllFeedback:    {model.RoleAdmin, model.RoleSuperAdmin},
}

// Authorize returns ErrForbidden when the matrix denies actor the operation.
func Authorize(actor *model.User, op Operation) error {
	for _, r := range allowed[op] {
		if actor.Role == r {
			return nil
		}
	}
	return errs.ErrForbidden
}

// CanComment reports whether actor may comment on fb: the original
// submitter always may, the assigned admin may, and any admin/superadmin may.
func CanComment(actor *model.User, fb *model.Feedback) bool {
	if actor.Role.Privileged() {
		return true
	}
	if fb.SubmitterID == actor.ID {
		return true
	}
	return fb.AssignedToID != nil && *fb.AssignedToID == actor.ID
}

// CanRate reports whether actor may rate fb: only the original submitter.
func CanRate(actor *model.User, fb *model.Feedback) bool {
	return fb.SubmitterID == actor.ID
}

// CanView reports whether actor may read fb at all. Non-privileged users
// see only their own submissions.
func CanView(actor *model.User, fb *model.Feedback) bool {
	return actor.Role.Privileged() || fb.SubmitterID == actor.ID
}

// SeesSubmitter reports whether actor may see the submitter identity of fb.
// Anonymous submissions hide the submitter from everyone but admins (and the
// submitter themselves).
func SeesSubmitter(actor *model.User, fb *model.Feedback) bool {
	if !fb.IsAnonymous {
		return true
	}
	return actor.Role.Privileged() || fb.SubmitterID == actor.ID
}
