package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/college-feedback/feedback-service/internal/auth"
	"github.com/college-feedback/feedback-service/internal/errs"
	"github.com/college-feedback/feedback-service/internal/handler"
	"github.com/college-feedback/feedback-service/internal/model"
	"github.com/college-feedback/feedback-service/internal/service"
)

type fixedUsers struct {
	byID map[uint64]*model.User
}

func (f *fixedUsers) Register(ctx context.Context, input service.RegisterInput) (*model.User, error) {
	return nil, errs.ErrEmailTaken
}
func (f *fixedUsers) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	return nil, errs.ErrInvalidCredentials
}
func (f *fixedUsers) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, errs.ErrUserNotFound
}
func (f *fixedUsers) List(ctx context.Context, actor *model.User, limit, offset int) ([]model.User, int64, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	return []model.User{}, 0, nil
}
func (f *fixedUsers) ChangeRole(ctx context.Context, actor *model.User, id uint64, role model.Role) (*model.User, error) {
	return nil, errs.ErrForbidden
}

func requireAdmin(actor *model.User) error {
	if !actor.Role.Privileged() {
		return errs.ErrForbidden
	}
	return nil
}

type emptyCategories struct{}

func (emptyCategories) List(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	return []model.Category{}, nil
}
func (emptyCategories) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	return nil, errs.ErrCategoryNotFound
}
func (emptyCategories) Create(ctx context.Context, actor *model.User, c *model.Category) error {
	return nil
}
func (emptyCategories) Update(ctx context.Context, actor *model.User, id uint64, changes map[string]interface{}) (*model.Category, error) {
	return nil, errs.ErrCategoryNotFound
}
func (emptyCategories) Delete(ctx context.Context, actor *model.User, id uint64) error {
	return nil
}

func buildTestRouter(t *testing.T) (http.Handler, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &fixedUsers{byID: map[uint64]*model.User{
		1: {ID: 1, Email: "student@college.edu", Role: model.RoleStudent, IsActive: true},
		2: {ID: 2, Email: "admin@college.edu", Role: model.RoleAdmin, IsActive: true},
		3: {ID: 3, Email: "gone@college.edu", Role: model.RoleStudent, IsActive: false},
	}}
	jwtManager := auth.NewManager("testsecret", time.Hour)
	mw := auth.NewMiddleware(jwtManager, users)

	r := New(nil, mw, Handlers{
		Auth:       handler.NewAuthHandler(users, jwtManager),
		Feedback:   handler.NewFeedbackHandler(nil),
		Category:   handler.NewCategoryHandler(emptyCategories{}),
		Dashboard:  handler.NewDashboardHandler(nil),
		Attachment: handler.NewAttachmentHandler(nil),
		User:       handler.NewUserHandler(users),
	})
	return r, jwtManager
}

func token(t *testing.T, m *auth.Manager, u *model.User) string {
	t.Helper()
	tok, err := m.GenerateToken(u.ID, u.Email, string(u.Role))
	require.NoError(t, err)
	return tok
}

func get(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestAdminRoutesRBAC(t *testing.T) {
	r, m := buildTestRouter(t)
	studentToken := token(t, m, &model.User{ID: 1, Email: "student@college.edu", Role: model.RoleStudent})
	adminToken := token(t, m, &model.User{ID: 2, Email: "admin@college.edu", Role: model.RoleAdmin})

	// No token
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/users", "").Code)

	// Student role
	assert.Equal(t, http.StatusForbidden, get(r, "/api/v1/users", studentToken).Code)

	// Admin role
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/users", adminToken).Code)
}

func TestSuperadminRoutesDenyAdmin(t *testing.T) {
	r, m := buildTestRouter(t)
	adminToken := token(t, m, &model.User{ID: 2, Email: "admin@college.edu", Role: model.RoleAdmin})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/1/role", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestStaleTokenForDeactivatedUserRejected(t *testing.T) {
	r, m := buildTestRouter(t)
	goneToken := token(t, m, &model.User{ID: 3, Email: "gone@college.edu", Role: model.RoleStudent})
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/categories", goneToken).Code)
}

func TestTamperedTokenRejected(t *testing.T) {
	r, _ := buildTestRouter(t)
	other := auth.NewManager("other-secret", time.Hour)
	forged := token(t, other, &model.User{ID: 2, Email: "admin@college.edu", Role: model.RoleAdmin})
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/users", forged).Code)
}

func TestHealthIsPublic(t *testing.T) {
	r, _ := buildTestRouter(t)
	assert.Equal(t, http.StatusOK, get(r, "/health", "").Code)
}

func TestCategoriesRequireAuthentication(t *testing.T) {
	r, m := buildTestRouter(t)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/categories", "").Code)

	studentToken := token(t, m, &model.User{ID: 1, Email: "student@college.edu", Role: model.RoleStudent})
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/categories", studentToken).Code)
}
