package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTenantRouter(cfg TenantMiddlewareConfig) *gin.Engine {
	r := gin.New()
	r.Use(TenantMiddlewareWithConfig(cfg))
	r.GET("/api/v1/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": GetTenantID(c)})
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestTenantMiddleware_ValidHeader(t *testing.T) {
	r := newTenantRouter(DefaultTenantConfig())
	tenantID := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set(TenantHeaderKey, tenantID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tenantID)
}

func TestTenantMiddleware_MissingHeader(t *testing.T) {
	r := newTenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Tenant identification required")
}

func TestTenantMiddleware_MalformedHeader(t *testing.T) {
	r := newTenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set(TenantHeaderKey, "not-a-uuid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid tenant ID format")
}

func TestTenantMiddleware_SkipPaths(t *testing.T) {
	r := newTenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_Optional(t *testing.T) {
	cfg := DefaultTenantConfig()
	cfg.Required = false
	r := newTenantRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetTenantUUID(t *testing.T) {
	tenantID := uuid.New()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(TenantIDKey, tenantID.String())

	got, err := GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, tenantID, got)
}

func TestGetTenantUUID_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	got, err := GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got)
}
