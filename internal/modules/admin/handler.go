package admin

import (
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// vendors moderation
	admin.GET("/vendors", h.GetVendors)
	admin.POST("/vendors/:id/approve", h.ApproveVendor)
	admin.POST("/vendors/:id/reject", h.RejectVendor)

	// customers moderation
	admin.GET("/customers", h.GetCustomers)
	admin.POST("/customers/:id/approve", h.ApproveCustomer)
	admin.POST("/customers/:id/reject", h.RejectCustomer)

	// statistics
	admin.GET("/stats", h.GetStats)
}

func (h *Handler) GetVendors(c *gin.Context) {
	var approved *bool
	if raw := c.Query("approved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "approved must be true or false")
			return
		}
		approved = &v
	}

	page, n := utils.Pagination(c)
	vendors, total, err := h.service.ListVendors(c.Request.Context(), approved, page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.Paged(vendors, total, n, page))
}

func (h *Handler) ApproveVendor(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	v, err := h.service.ApproveVendor(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vendor": v, "message": "Vendor approved"})
}

func (h *Handler) RejectVendor(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	v, err := h.service.RejectVendor(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vendor": v, "message": "Vendor rejected"})
}

func (h *Handler) GetCustomers(c *gin.Context) {
	page, n := utils.Pagination(c)
	customers, total, err := h.service.ListCustomers(c.Request.Context(), domain.ApprovalStatus(c.Query("status")), page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.Paged(customers, total, n, page))
}

func (h *Handler) ApproveCustomer(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	cust, err := h.service.ApproveCustomer(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"customer": cust, "message": "Customer approved"})
}

func (h *Handler) RejectCustomer(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	cust, err := h.service.RejectCustomer(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"customer": cust, "message": "Customer rejected"})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
