package booking

import (
	"net/http"

	"functionhall/internal/domain"
	"functionhall/internal/pkg/response"
	"functionhall/internal/pkg/utils"
	"functionhall/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/halls/:id/availability", h.CheckAvailability)
	rg.GET("/halls/:id/calendar", h.Calendar)
}

// RegisterRoutes expects an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:id", h.Get)
	rg.PUT("/bookings/:id", h.UpdateStatus)
}

func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.GET("/my-bookings", h.ListMine)
}

func (h *Handler) RegisterVendorRoutes(rg *gin.RouterGroup) {
	rg.GET("/vendor/bookings", h.ListForVendor)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListAll)
}

func actorFrom(c *gin.Context) Actor {
	return Actor{ID: c.GetInt64("user_id"), Role: domain.Role(c.GetString("role"))}
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date is required")
		return
	}

	res, err := h.service.CheckAvailability(c.Request.Context(), id, date)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Calendar(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	cal, err := h.service.Calendar(c.Request.Context(), id, c.Query("month"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cal)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "hall_id and event_date are required")
		return
	}

	actor := actorFrom(c)
	customerID := actor.ID
	switch actor.Role {
	case domain.RoleCustomer:
	case domain.RoleSuperAdmin:
		if req.CustomerID <= 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "customer_id is required")
			return
		}
		customerID = req.CustomerID
	default:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only customers can book halls")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), CreateBookingInput{
		CustomerID: customerID,
		HallID:     req.HallID,
		EventDate:  req.EventDate,
		PackageID:  req.PackageID,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"booking":      b,
		"total_amount": b.TotalAmount,
		"message":      "Booking request submitted",
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), actorFrom(c), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListMine(c *gin.Context) {
	h.list(c, repository.BookingFilter{CustomerID: c.GetInt64("user_id")})
}

func (h *Handler) ListForVendor(c *gin.Context) {
	h.list(c, repository.BookingFilter{VendorID: c.GetInt64("user_id")})
}

func (h *Handler) ListAll(c *gin.Context) {
	var f repository.BookingFilter
	if raw := c.Query("hall_id"); raw != "" {
		id, ok := utils.QueryID(c, "hall_id")
		if !ok {
			return
		}
		f.HallID = id
	}
	h.list(c, f)
}

func (h *Handler) list(c *gin.Context, f repository.BookingFilter) {
	if raw := c.Query("status"); raw != "" {
		st, ok := domain.ParseBookingStatus(raw)
		if !ok {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status")
			return
		}
		f.Status = st
	}

	page, n := utils.Pagination(c)
	f.Page = page
	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.Paged(items, total, n, page))
}
