package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenancy/backend/internal/infrastructure/auth"
	"github.com/tenancy/backend/internal/infrastructure/config"
)

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-middleware-32chr",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "tenancy-backend-test",
	})
}

func setupJWTRouter(t *testing.T, service *auth.JWTService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware(service))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"role":    GetJWTRole(c),
		})
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	service := newTestJWTService(t)
	router := setupJWTRouter(t, service)

	t.Run("skips configured paths", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects missing authorization header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic abc123")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts valid token and exposes claims", func(t *testing.T) {
		userID := uuid.New()
		token, _, err := service.GenerateAccessToken(userID, auth.RoleOperator)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "operator")
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := auth.NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-for-middleware-32chr",
			AccessTokenExpiration: -time.Minute,
			Issuer:                "tenancy-backend-test",
		})
		token, _, err := expired.GenerateAccessToken(uuid.New(), auth.RoleTenant)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(roles ...auth.Role) *gin.Engine {
		r := gin.New()
		r.POST("/op", RequireRole(roles...), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("allows matching role from header fallback", func(t *testing.T) {
		router := newRouter(auth.RoleOperator)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/op", nil)
		req.Header.Set("X-User-Role", "operator")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects mismatched role", func(t *testing.T) {
		router := newRouter(auth.RoleOperator)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/op", nil)
		req.Header.Set("X-User-Role", "tenant")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("rejects missing role", func(t *testing.T) {
		router := newRouter(auth.RoleOperator, auth.RoleTenant)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/op", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
