package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/college-feedback/feedback-service/internal/auth"
	"github.com/college-feedback/feedback-service/internal/model"
	"github.com/college-feedback/feedback-service/internal/service"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type FeedbackHandler struct {
	svc service.FeedbackServicer
}

func NewFeedbackHandler(svc service.FeedbackServicer) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

type createFeedbackRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	CategoryID  uint64 `json:"category_id" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,priority"`
	IsAnonymous bool   `json:"is_anonymous"`
	Attachment  string `json:"attachment"`
}

func (h *FeedbackHandler) Create(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	var req createFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	fb, err := h.svc.Create(c.Request.Context(), user, service.CreateFeedbackInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Priority:    model.Priority(req.Priority),
		IsAnonymous: req.IsAnonymous,
		Attachment:  req.Attachment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedbackView(user, fb))
}

func (h *FeedbackHandler) Get(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	fb, err := h.svc.GetByID(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedbackView(user, fb))
}

func (h *FeedbackHandler) List(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	filter := service.FeedbackFilter{
		Status:   model.Status(c.Query("status")),
		Priority: model.Priority(c.Query("priority")),
		Search:   c.Query("search"),
		Limit:    defaultListLimit,
	}
	if v := c.Query("category_id"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.CategoryID = parsed
		}
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			filter.Offset = parsed
		}
	}
	items, total, err := h.svc.List(c.Request.Context(), user, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"feedback": feedbackViews(user, items),
		"total":    total,
	})
}

type transitionRequest struct {
	Status string `json:"status" binding:"required,feedback_status"`
}

func (h *FeedbackHandler) Transition(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of pending, in_progress, resolved, closed, rejected"})
		return
	}
	fb, err := h.svc.Transition(c.Request.Context(), user, id, model.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedbackView(user, fb))
}

type assignRequest struct {
	AssignedToID uint64 `json:"assigned_to_id" binding:"required"`
}

func (h *FeedbackHandler) Assign(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	fb, err := h.svc.Assign(c.Request.Context(), user, id, req.AssignedToID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedbackView(user, fb))
}

func (h *FeedbackHandler) Delete(c *gin.Context) {
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

type commentRequest struct {
	Body       string `json:"body" binding:"required"`
	IsInternal bool   `json:"is_internal"`
}

func (h *FeedbackHandler) AddComment(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), user, id, req.Body, req.IsInternal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentView(comment))
}

func (h *FeedbackHandler) ListComments(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	comments, err := h.svc.ListComments(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]commentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, commentView(&comments[i]))
	}
	c.JSON(http.StatusOK, gin.H{"comments": out})
}

func (h *FeedbackHandler) History(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	entries, err := h.svc.History(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]historyResponse, 0, len(entries))
	for i := range entries {
		out = append(out, historyView(&entries[i]))
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}

type rateRequest struct {
	Rating int `json:"rating" binding:"required"`
}

func (h *FeedbackHandler) Rate(c *gin.Context) {
	user, _ := auth.UserFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	fb, err := h.svc.Rate(c.Request.Context(), user, id, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedbackView(user, fb))
}
