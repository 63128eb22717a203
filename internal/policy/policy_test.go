package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/college-feedback/feedback-service/internal/model"
)

func user(id uint64, role model.Role) *model.User {
	return &model.User{ID: id, Role: role, IsActive: true}
}

func TestAuthorizeMatrix(t *testing.T) {
	student := user(1, model.RoleStudent)
	faculty := user(2, model.RoleFaculty)
	staff := user(3, model.RoleStaff)
	admin := user(4, model.RoleAdmin)
	superadmin := user(5, model.RoleSuperAdmin)

	for _, u := range []*model.User{student, faculty, staff, admin, superadmin} {
		assert.NoError(t, Authorize(u, OpCreateFeedback), "role %s should create feedback", u.Role)
	}

	adminOnly := []Operation{OpTransitionFeedback, OpAssignFeedback, OpDeleteFeedback, OpManageCategories, OpListUsers, OpListAllFeedback}
	for _, op := range adminOnly {
		assert.Error(t, Authorize(student, op), "student denied %s", op)
		assert.Error(t, Authorize(faculty, op), "faculty denied %s", op)
		assert.Error(t, Authorize(staff, op), "staff denied %s", op)
		assert.NoError(t, Authorize(admin, op), "admin allowed %s", op)
		assert.NoError(t, Authorize(superadmin, op), "superadmin allowed %s", op)
	}

	assert.Error(t, Authorize(admin, OpManageUsers))
	assert.NoError(t, Authorize(superadmin, OpManageUsers))
}

func TestTransitionDeniedToSubmitterRegardlessOfOwnership(t *testing.T) {
	submitter := user(7, model.RoleStudent)
	assert.Error(t, Authorize(submitter, OpTransitionFeedback))
}

func TestCanComment(t *testing.T) {
	submitter := user(1, model.RoleStudent)
	other := user(2, model.RoleStudent)
	admin := user(3, model.RoleAdmin)
	assignedStaff := user(4, model.RoleStaff)

	fb := &model.Feedback{ID: 10, SubmitterID: submitter.ID, AssignedToID: &assignedStaff.ID}

	assert.True(t, CanComment(submitter, fb), "submitter always comments")
	assert.True(t, CanComment(admin, fb))
	assert.True(t, CanComment(assignedStaff, fb), "assignee comments")
	assert.False(t, CanComment(other, fb))
}

func TestCanRateSubmitterOnly(t *testing.T) {
	submitter := user(1, model.RoleStudent)
	admin := user(2, model.RoleAdmin)
	fb := &model.Feedback{ID: 10, SubmitterID: submitter.ID}

	assert.True(t, CanRate(submitter, fb))
	assert.False(t, CanRate(admin, fb), "admins do not rate on the submitter's behalf")
}

func TestCanView(t *testing.T) {
	submitter := user(1, model.RoleStudent)
	other := user(2, model.RoleFaculty)
	admin := user(3, model.RoleAdmin)
	fb := &model.Feedback{ID: 10, SubmitterID: submitter.ID}

	assert.True(t, CanView(submitter, fb))
	assert.True(t, CanView(admin, fb))
	assert.False(t, CanView(other, fb))
}

func TestSeesSubmitter(t *testing.T) {
	submitter := user(1, model.RoleStudent)
	other := user(2, model.RoleStudent)
	admin := user(3, model.RoleAdmin)

	open := &model.Feedback{ID: 10, SubmitterID: submitter.ID}
	anon := &model.Feedback{ID: 11, SubmitterID: submitter.ID, IsAnonymous: true}

	assert.True(t, SeesSubmitter(other, open))
	assert.True(t, SeesSubmitter(admin, anon), "admins see through anonymity")
	assert.True(t, SeesSubmitter(submitter, anon), "submitter sees themselves")
	assert.False(t, SeesSubmitter(other, anon))
}
