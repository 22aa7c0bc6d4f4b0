package otp

import (
	"errors"
	"net/http"

	"functionhall/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	g := v1.Group("/auth/otp")
	{
		g.POST("/request", h.Request)
		g.POST("/verify", h.Verify)
	}
}

func (h *Handler) Request(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "phone is required")
		return
	}
	if err := h.service.Request(c.Request.Context(), req.Phone); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "OTP sent"})
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "phone and a 6 digit code are required")
		return
	}
	n, err := h.service.Verify(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true, "customers_updated": n})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCooldown):
		response.Error(c, http.StatusTooManyRequests, "OTP_COOLDOWN", "Please wait before requesting another code")
	case errors.Is(err, ErrDelivery):
		response.Error(c, http.StatusBadGateway, "OTP_DELIVERY_FAILED", "Failed to send OTP")
	case errors.Is(err, ErrUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "OTP_UNAVAILABLE", "Phone verification is unavailable")
	default:
		response.FromError(c, err)
	}
}
