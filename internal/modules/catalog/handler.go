package catalog

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

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/halls", h.SearchHalls)
	r.GET("/halls/:id", h.GetHall)
	r.GET("/halls/:id/packages", h.GetPackages)
}

// RegisterVendorRoutes expects a vendor group; approval is not required to read own halls.
func (h *Handler) RegisterVendorRoutes(r *gin.RouterGroup) {
	r.GET("/vendor-halls", h.GetMyHalls)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/halls", h.ListAllHalls)
	r.POST("/halls", h.CreateHall)
	r.DELETE("/halls/:id/photos/:photoId", h.DeletePhoto)
	r.POST("/search/reindex", h.Reindex)
}

// SearchHalls handles GET /api/v1/halls with filters
func (h *Handler) SearchHalls(c *gin.Context) {
	p := SearchParams{
		Query:    c.Query("q"),
		Location: c.Query("location"),
		Name:     c.Query("name"),
		Date:     c.Query("date"),
		Sort:     c.Query("sort"),
	}
	if g := c.Query("guests"); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil || n < 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "guests must be a positive number")
			return
		}
		p.Guests = n
	}

	page, n := utils.Pagination(c)
	halls, total, err := h.service.Search(c.Request.Context(), p, page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.Paged(halls, total, n, page))
}

func (h *Handler) GetHall(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	hall, err := h.service.GetHall(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hall)
}

func (h *Handler) GetPackages(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	pkgs, err := h.service.ListPackages(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"packages": pkgs})
}

func (h *Handler) GetMyHalls(c *gin.Context) {
	halls, err := h.service.VendorHalls(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"halls": halls})
}

func (h *Handler) ListAllHalls(c *gin.Context) {
	page, n := utils.Pagination(c)
	halls, total, err := h.service.ListAll(c.Request.Context(), page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, utils.Paged(halls, total, n, page))
}

func (h *Handler) CreateHall(c *gin.Context) {
	var req domain.HallProposal
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	hall, err := h.service.CreateHall(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, hall)
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	hallID, ok := utils.ParamID(c, "id")
	if !ok {
		return
	}
	photoID, ok := utils.ParamID(c, "photoId")
	if !ok {
		return
	}
	if err := h.service.DeletePhoto(c.Request.Context(), hallID, photoID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Photo deleted"})
}

func (h *Handler) Reindex(c *gin.Context) {
	res, err := h.service.Reindex(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
