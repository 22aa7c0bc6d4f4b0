package upload

import (
	"errors"
	"net/http"

	"functionhall/internal/logger"
	"functionhall/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	storage ImageStorage
}

func NewHandler(storage ImageStorage) *Handler {
	return &Handler{storage: storage}
}

// RegisterRoutes expects the approved-vendor group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/vendor/uploads", h.Upload)
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No file provided")
		return
	}
	if fileHeader.Size > MaxFileSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", ErrFileTooLarge.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Could not read file")
		return
	}
	defer file.Close()

	url, err := h.storage.Upload(c.Request.Context(), file)
	switch {
	case err == nil:
		response.Success(c, http.StatusCreated, gin.H{"url": url})
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, ErrInvalidMimeType), errors.Is(err, ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		logger.WithContext(c.Request.Context()).Error("upload failed", "vendor_id", c.GetInt64("user_id"), "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Upload failed")
	}
}
