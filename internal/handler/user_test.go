package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/college-feedback/feedback-service/internal/auth"
	"github.com/college-feedback/feedback-service/internal/errs"
	"github.com/college-feedback/feedback-service/internal/model"
	"github.com/college-feedback/feedback-service/internal/service"
)

func newUserRouter(actor *model.User, svc service.UserServicer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidations()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			auth.SetUser(c, actor)
		}
		c.Next()
	})
	h := NewUserHandler(svc)
	r.GET("/api/v1/users", h.List)
	r.PATCH("/api/v1/users/:id/role", h.ChangeRole)
	return r
}

func superadmin(id uint64) *model.User {
	return &model.User{ID: id, Email: "root@college.edu", Role: model.RoleSuperAdmin, IsActive: true}
}

func TestListUsersEnvelope(t *testing.T) {
	stub := &stubUserService{users: []model.User{{ID: 1}, {ID: 2}}, total: 2}
	r := newUserRouter(admin(4), stub)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"total":2`)
}

func TestListUsersForbiddenForNonAdmin(t *testing.T) {
	r := newUserRouter(student(1), &stubUserService{err: errs.ErrForbidden})
	resp := doJSON(t, r, http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestChangeRole(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		stub := &stubUserService{user: &model.User{ID: 2, Role: model.RoleAdmin}}
		r := newUserRouter(superadmin(1), stub)
		resp := doJSON(t, r, http.MethodPatch, "/api/v1/users/2/role", gin.H{"role": "admin"})
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"role":"admin"`)
	})
	t.Run("unknown role rejected at bind time", func(t *testing.T) {
		r := newUserRouter(superadmin(1), &stubUserService{})
		resp := doJSON(t, r, http.MethodPatch, "/api/v1/users/2/role", gin.H{"role": "dean"})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
	t.Run("admin denied", func(t *testing.T) {
		r := newUserRouter(admin(4), &stubUserService{err: errs.ErrForbidden})
		resp := doJSON(t, r, http.MethodPatch, "/api/v1/users/2/role", gin.H{"role": "admin"})
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
