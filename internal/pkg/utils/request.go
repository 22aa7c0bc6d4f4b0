package utils

import (
	"net/http"
	"strconv"

	"functionhall/internal/pkg/response"
	"functionhall/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ParamID parses a positive int64 path parameter, writing a 400 when it is malformed.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

// QueryID parses a positive int64 query parameter, writing a 400 when it is malformed.
func QueryID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

// Pagination reads ?page= and ?limit= into a repository page.
func Pagination(c *gin.Context) (repository.Page, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return repository.Page{Limit: limit, Offset: (page - 1) * limit}, page
}

// Paged is the listing envelope used by every collection endpoint.
func Paged(items any, total int64, page int, p repository.Page) gin.H {
	return gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": p.Limit,
	}
}
