package middleware

import (
	"net/http"

	"functionhall/internal/domain"
	"functionhall/internal/pkg/response"
	"functionhall/internal/repository"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has one of roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		for _, r := range roles {
			if role.(string) == string(r) {
				c.Next()
				return
			}
		}
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}

// AdminOnly middleware requires the super admin role.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleSuperAdmin)
}

// RequireApprovedVendor re-reads the vendor so that a revoked approval takes
// effect before the token expires.
func RequireApprovedVendor(vendors *repository.VendorRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != string(domain.RoleVendor) {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Vendor account required")
			return
		}

		v, err := vendors.GetByID(c.Request.Context(), c.GetInt64("user_id"))
		if err != nil {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Vendor account not found")
			return
		}
		if !v.CanMutateCatalog() {
			response.CustomError(c, http.StatusForbidden, "VENDOR_NOT_APPROVED", "Your vendor account is awaiting approval")
			return
		}
		c.Next()
	}
}
