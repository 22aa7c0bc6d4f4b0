package auth

import (
	"errors"
	"net/http"

	"functionhall/internal/domain"
	"functionhall/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/vendors/register", h.RegisterVendor)
		authGroup.POST("/vendors/login", h.LoginVendor)
		authGroup.POST("/customers/register", h.RegisterCustomer)
		authGroup.POST("/customers/login", h.LoginCustomer)
	}
}

// RegisterProtectedRoutes expects an authenticated group.
func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

// RegisterCustomerRoutes expects a customer group.
func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.GET("/customer/profile", h.GetProfile)
	rg.PUT("/customer/profile", h.UpdateProfile)
}

func (h *Handler) RegisterVendor(c *gin.Context) {
	var req RegisterVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name, email, phone, password (min 8) and business_name are required")
		return
	}

	v, err := h.service.RegisterVendor(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"vendor":  v,
		"message": "Registration submitted! Waiting for admin approval.",
	})
}

func (h *Handler) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name, email, phone and password (min 6) are required")
		return
	}

	cust, err := h.service.RegisterCustomer(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"customer": cust,
		"status":   "pending_approval",
		"message":  "Registration submitted! Waiting for admin approval.",
	})
}

func (h *Handler) LoginVendor(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}
	res, err := h.service.LoginVendor(c.Request.Context(), req)
	h.writeLogin(c, res, err)
}

func (h *Handler) LoginCustomer(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}
	res, err := h.service.LoginCustomer(c.Request.Context(), req)
	h.writeLogin(c, res, err)
}

func (h *Handler) writeLogin(c *gin.Context, res *LoginResult, err error) {
	if errors.Is(err, ErrInvalidCredentials) {
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.GetInt64("user_id")

	var (
		me  any
		err error
	)
	if c.GetString("role") == string(domain.RoleCustomer) {
		me, err = h.service.GetCustomer(ctx, id)
	} else {
		me, err = h.service.GetVendor(ctx, id)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"role": c.GetString("role"), "user": me})
}

func (h *Handler) GetProfile(c *gin.Context) {
	cust, err := h.service.GetCustomer(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cust)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cust, err := h.service.UpdateCustomerProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cust)
}
