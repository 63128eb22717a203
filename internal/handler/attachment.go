package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/college-feedback/feedback-service/internal/blobstore"
)

const maxAttachmentBytes = 10 << 20 // 10 MiB

type AttachmentHandler struct {
	store *blobstore.Store
}

func NewAttachmentHandler(store *blobstore.Store) *AttachmentHandler {
	return &AttachmentHandler{store: store}
}

// Upload accepts a multipart "file" field, stores it, and returns the object
// key (to reference from a feedback record) plus a presigned download URL.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if fileHeader.Size > maxAttachmentBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds 10 MiB limit"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key, err := h.store.Put(c.Request.Context(), f, contentType)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "attachment storage not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	url, err := h.store.PresignURL(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key, "url": url})
}
