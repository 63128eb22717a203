package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/college-feedback/feedback-service/internal/auth"
	"github.com/college-feedback/feedback-service/internal/model"
	"github.com/college-feedback/feedback-service/internal/service"
)

type CategoryHandler struct {
	svc service.CategoryServicer
}

func NewCategoryHandler(svc service.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) List(c *gin.Context) {
	includeInactive := false
	if user, ok := auth.UserFrom(c); ok && user.Role.Privileged() {
		includeInactive = c.Query("include_inactive") == "true"
	}
	items, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": items})
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Active:      true,
	}
	if err := h.svc.Create(c.Request.Context(), user, category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

type updateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	changes := make(map[string]interface{})
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.Icon != nil {
		changes["icon"] = *req.Icon
	}
	if req.Active != nil {
		changes["active"] = *req.Active
	}
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no changes"})
		return
	}
	category, err := h.svc.Update(c.Request.Context(), user, id, changes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
