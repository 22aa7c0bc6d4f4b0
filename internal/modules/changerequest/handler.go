package changerequest

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

// RegisterVendorRoutes expects a group already guarded for approved vendors.
func (h *Handler) RegisterVendorRoutes(rg *gin.RouterGroup) {
	rg.POST("/vendor-halls/request", h.Submit)
	rg.POST("/vendor-halls/:id/request", h.Submit)
	rg.GET("/vendor-halls/requests", h.ListOwn)
}

// RegisterAdminRoutes expects a super admin group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/hall-requests", h.List)
	rg.GET("/hall-requests/:id", h.Get)
	rg.POST("/hall-requests/:id/approve", h.Approve)
	rg.POST("/hall-requests/:id/reject", h.Reject)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "action_type is required")
		return
	}

	var hallID int64
	if c.Param("id") != "" {
		id, ok := utils.ParamID(c, "id")
		if !ok {
			return
		}
		hallID = id
	} else if req.ActionType != domain.ActionAdd {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "hall id is required for edit and delete")
		return
	}

	cr, err := h.service.Submit(c.Request.Context(), c.GetInt64("user_id"), req.ActionType, hallID, req.Payload)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"request_id": cr.ID,
		"status":     cr.Status,
		"message":    "Request submitted for admin approval",
	})
}

func (h *Handler) ListOwn(c *gin.Context) {
	page, n := utils.Pagination(c)
	items, total, err := h.service.List(c.Request.Context(), repository.ChangeRequestFilter{
		Status:   domain.RequestStatus(c.Query("status")),
		VendorID: c.GetInt64("user_id"),
		Page:     page,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.Paged(items, total, n, page))
}

func (h *Handler) List(c *gin.Context) {
	page, n := utils.Pagination(c)
	items, total, err := h.service.List(c.Request.Context(), repository.ChangeRequestFilter{
		Status: domain.RequestStatus(c.Query("status")),
		Page:   page,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.Paged(items, total, n, page))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	res, err := h.service.Approve(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Reject(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	var req RejectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
	}

	cr, err := h.service.Reject(c.Request.Context(), id, c.GetInt64("user_id"), req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cr)
}
