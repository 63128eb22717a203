package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/college-feedback/feedback-service/internal/model"
)

const userContextKey = "auth.user"

// UserLoader resolves a token's user ID to a live account. Implemented by
// service.UserService; an interface here so handler tests can stub it.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Middleware authenticates bearer tokens and attaches the acting user to the
// gin context. There is no ambient global session: everything downstream
// reads the actor from the request context.
type Middleware struct {
	jwtManager *Manager
	users      UserLoader
}

func NewMiddleware(jwtManager *Manager, users UserLoader) *Middleware {
	return &Middleware{jwtManager: jwtManager, users: users}
}

// Authenticate validates the Authorization header and loads the user. The
// account must still exist and be active; a stale token for a deactivated
// user is rejected.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be 'Bearer <token>'"})
			return
		}
		claims, err := m.jwtManager.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account deactivated"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. This is a fast-path
// check only; services re-validate via the policy package.
func (m *Middleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// UserFrom extracts the acting user set by Authenticate.
func UserFrom(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// SetUser injects an acting user directly; used by handler tests.
func SetUser(c *gin.Context, u *model.User) {
	c.Set(userContextKey, u)
}
