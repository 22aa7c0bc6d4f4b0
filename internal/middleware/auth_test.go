package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"functionhall/internal/domain"
	"functionhall/internal/pkg/jwt"
	"functionhall/internal/repository"
	"functionhall/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(t *testing.T, j *jwt.Service, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuth(j))
	router.Use(extra...)
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return router
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	validToken, err := jwtService.GenerateToken(42, "customer")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	w := serve(protectedRouter(t, jwtService), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "customer")
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	w := serve(protectedRouter(t, jwt.New("wrong-secret", time.Hour)), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuth_NoToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := serve(protectedRouter(t, jwt.New("secret", time.Hour)), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
}

func TestJWTAuth_WrongFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	w := serve(protectedRouter(t, jwt.New("secret", time.Hour)), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestJWTAuth_QueryTokenOnlyForWebSocket(t *testing.T) {
	j := jwt.New("secret", time.Hour)
	tok, err := j.GenerateToken(1, "super_admin")
	require.NoError(t, err)
	router := protectedRouter(t, j)

	plain := httptest.NewRequest(http.MethodGet, "/protected?token="+tok, nil)
	assert.Equal(t, http.StatusUnauthorized, serve(router, plain).Code)

	upgrade := httptest.NewRequest(http.MethodGet, "/protected?token="+tok, nil)
	upgrade.Header.Set("Upgrade", "websocket")
	assert.Equal(t, http.StatusOK, serve(router, upgrade).Code)
}

func TestRequireRole(t *testing.T) {
	j := jwt.New("secret", time.Hour)
	router := protectedRouter(t, j, RequireRole(domain.RoleVendor, domain.RoleSuperAdmin))

	for role, want := range map[string]int{
		"vendor":      http.StatusOK,
		"super_admin": http.StatusOK,
		"customer":    http.StatusForbidden,
	} {
		tok, err := j.GenerateToken(5, role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		assert.Equal(t, want, serve(router, req).Code, role)
	}
}

func TestRequireApprovedVendor(t *testing.T) {
	db := testutil.NewDB(t)
	approved := testutil.CreateVendor(t, db, true)
	pending := testutil.CreateVendor(t, db, false)
	admin := testutil.CreateAdmin(t, db)

	j := jwt.New("secret", time.Hour)
	router := protectedRouter(t, j, RequireApprovedVendor(repository.NewVendorRepository(db)))

	cases := []struct {
		id   int64
		role string
		want int
	}{
		{approved.ID, "vendor", http.StatusOK},
		{pending.ID, "vendor", http.StatusForbidden},
		{admin.ID, "super_admin", http.StatusForbidden},
		{9999, "vendor", http.StatusForbidden},
	}
	for _, tc := range cases {
		tok, err := j.GenerateToken(tc.id, tc.role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		assert.Equal(t, tc.want, serve(router, req).Code, "%s %d", tc.role, tc.id)
	}
}

func TestOptionalAuth(t *testing.T) {
	j := jwt.New("secret", time.Hour)
	router := gin.New()
	router.Use(OptionalAuth(j))
	router.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, "%d", c.GetInt64("user_id"))
	})
	tok, err := j.GenerateToken(7, "customer")
	require.NoError(t, err)

	cases := map[string]string{"": "0", "Bearer " + tok: "7", "Bearer broken": "0"}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := serve(router, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, w.Body.String())
	}
}
