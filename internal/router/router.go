package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/college-feedback/feedback-service/api"
	"github.com/college-feedback/feedback-service/internal/auth"
	"github.com/college-feedback/feedback-service/internal/handler"
	"github.com/college-feedback/feedback-service/internal/model"
)

const (
	pathHealth  = "/health"
	pathReady   = "/ready"
	pathSwagger = "/swagger"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Feedback   *handler.FeedbackHandler
	Category   *handler.CategoryHandler
	Dashboard  *handler.DashboardHandler
	Attachment *handler.AttachmentHandler
	User       *handler.UserHandler
}

func New(db *gorm.DB, mw *auth.Middleware, h Handlers) http.Handler {
	handler.RegisterValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(pathHealth, handler.Health)
	r.GET(pathReady, handler.Ready(db))
	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/register", h.Auth.Register)
		v1.POST("/auth/login", h.Auth.Login)
	}

	authed := v1.Group("")
	authed.Use(mw.Authenticate())
	{
		authed.GET("/auth/me", h.Auth.Me)

		authed.GET("/categories", h.Category.List)

		authed.POST("/feedback", h.Feedback.Create)
		authed.GET("/feedback", h.Feedback.List)
		authed.GET("/feedback/dashboard", h.Dashboard.Get)
		authed.GET("/feedback/:id", h.Feedback.Get)
		authed.POST("/feedback/:id/comments", h.Feedback.AddComment)
		authed.GET("/feedback/:id/comments", h.Feedback.ListComments)
		authed.GET("/feedback/:id/history", h.Feedback.History)
		authed.POST("/feedback/:id/rate", h.Feedback.Rate)

		authed.POST("/attachments", h.Attachment.Upload)
	}

	admin := authed.Group("")
	admin.Use(mw.RequireRole(model.RoleAdmin, model.RoleSuperAdmin))
	{
		admin.POST("/categories", h.Category.Create)
		admin.PUT("/categories/:id", h.Category.Update)
		admin.DELETE("/categories/:id", h.Category.Delete)

		admin.PATCH("/feedback/:id/status", h.Feedback.Transition)
		admin.PATCH("/feedback/:id/assign", h.Feedback.Assign)
		admin.DELETE("/feedback/:id", h.Feedback.Delete)

		admin.GET("/users", h.User.List)
	}

	superadmin := authed.Group("")
	superadmin.Use(mw.RequireRole(model.RoleSuperAdmin))
	{
		superadmin.PATCH("/users/:id/role", h.User.ChangeRole)
	}

	return r
}
