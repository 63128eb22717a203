package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/college-feedback/feedback-service/internal/auth"
	"github.com/college-feedback/feedback-service/internal/service"
)

type DashboardHandler struct {
	svc service.DashboardServicer
}

func NewDashboardHandler(svc service.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	snap, err := h.svc.Snapshot(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
