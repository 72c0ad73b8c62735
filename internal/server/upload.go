package server

import (
	"errors"
	"net/http"

	"github.com/galuhdigital/minutes/backend/internal/upload"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *httpHandler) handleUploadImages(c *gin.Context) {
	if h.uploads == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload_unavailable"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	stored, err := h.uploads.StoreAll(form.File["files"])
	switch {
	case errors.Is(err, upload.ErrNoFiles):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no_files"})
		return
	case errors.Is(err, upload.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_file_type"})
		return
	case err != nil:
		h.logger.Error("image upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload_failed"})
		return
	}

	c.JSON(http.StatusCreated, stored)
}
