// Package handler contains the HTTP transport layer: request binding,
// error-to-status mapping, and response shaping. All decisions about who may
// do what live in the service and policy packages.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/college-feedback/feedback-service/internal/errs"
	"github.com/college-feedback/feedback-service/internal/model"
	"github.com/college-feedback/feedback-service/internal/policy"
)

// respondError translates service errors to HTTP statuses. Unknown errors
// become opaque 500s; internals are not leaked to clients.
func respondError(c *gin.Context, err error) {
	if v, ok := errs.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": v.Fields})
		return
	}
	switch {
	case errors.Is(err, errs.ErrInvalidEnumValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrFeedbackNotFound),
		errors.Is(err, errs.ErrCategoryNotFound),
		errors.Is(err, errs.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type userSummary struct {
	ID         uint64 `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department,omitempty"`
}

func summarize(u *model.User) *userSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &userSummary{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Department: u.Department,
	}
}

type feedbackResponse struct {
	*model.Feedback
	Submitter  *userSummary `json:"submitter,omitempty"`
	AssignedTo *userSummary `json:"assigned_to,omitempty"`
}

// feedbackView shapes a feedback record for a given viewer. The submitter
// identity is dropped entirely for anonymous submissions unless the viewer
// is privileged or is the submitter.
func feedbackView(actor *model.User, fb *model.Feedback) feedbackResponse {
	resp := feedbackResponse{
		Feedback:   fb,
		AssignedTo: summarize(fb.AssignedTo),
	}
	if policy.SeesSubmitter(actor, fb) {
		resp.Submitter = summarize(&fb.Submitter)
	}
	return resp
}

func feedbackViews(actor *model.User, items []model.Feedback) []feedbackResponse {
	out := make([]feedbackResponse, 0, len(items))
	for i := range items {
		out = append(out, feedbackView(actor, &items[i]))
	}
	return out
}

type commentResponse struct {
	*model.Comment
	Author *userSummary `json:"author,omitempty"`
}

func commentView(cm *model.Comment) commentResponse {
	return commentResponse{Comment: cm, Author: summarize(&cm.Author)}
}

type historyResponse struct {
	*model.HistoryEntry
	Actor *userSummary `json:"actor,omitempty"`
}

func historyView(e *model.HistoryEntry) historyResponse {
	return historyResponse{HistoryEntry: e, Actor: summarize(&e.Actor)}
}
