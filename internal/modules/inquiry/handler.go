package inquiry

import (
	"net/http"

	"functionhall/internal/domain"
	"functionhall/internal/pkg/response"
	"functionhall/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes expects a group running OptionalAuth so signed-in
// customers are linked to their inquiries.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/inquiries", h.Create)
}

func (h *Handler) RegisterVendorRoutes(rg *gin.RouterGroup) {
	rg.GET("/vendor/inquiries", h.ListForVendor)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/inquiries", h.ListAll)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	var customerID *int64
	if domain.Role(c.GetString("role")) == domain.RoleCustomer {
		id := c.GetInt64("user_id")
		customerID = &id
	}

	in, err := h.service.Create(c.Request.Context(), customerID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"inquiry": in, "message": "Enquiry submitted successfully!"})
}

func (h *Handler) ListForVendor(c *gin.Context) {
	page, n := utils.Pagination(c)
	items, total, err := h.service.ListForVendor(c.Request.Context(), c.GetInt64("user_id"), page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.Paged(items, total, n, page))
}

func (h *Handler) ListAll(c *gin.Context) {
	var hallID int64
	if c.Query("hall_id") != "" {
		id, ok := utils.QueryID(c, "hall_id")
		if !ok {
			return
		}
		hallID = id
	}

	page, n := utils.Pagination(c)
	items, total, err := h.service.List(c.Request.Context(), hallID, page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.Paged(items, total, n, page))
}
