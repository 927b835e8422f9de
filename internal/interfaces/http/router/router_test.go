package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/infrastructure/config"
	"github.com/procureflow/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	cfg := &config.Config{}
	cfg.App.Name = "procureflow"
	cfg.App.Env = "test"
	cfg.HTTP.MaxBodySize = 1 << 20
	cfg.HTTP.CORSAllowOrigins = []string{"https://app.procureflow.example"}

	return New(Dependencies{
		Config: cfg,
		Logger: zap.NewNop(),
	})
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_APIRequiresTenant(t *testing.T) {
	router := newTestRouter()

	paths := []string{
		"/api/v1/purchase-orders",
		"/api/v1/vendors",
		"/api/v1/customers",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_AdminSkipsTenantGuard(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/quote-expiration/status", nil))

	// No scheduler is configured, so the endpoint reports disabled rather
	// than rejecting the request
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"enabled":false`)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/purchase-orders", nil)
	req.Header.Set("Origin", "https://app.procureflow.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.procureflow.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_BodyLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "procureflow"
	cfg.App.Env = "test"
	cfg.HTTP.MaxBodySize = 16

	router := New(Dependencies{Config: cfg, Logger: zap.NewNop()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase-orders", nil)
	req.Header.Set(middleware.TenantHeaderKey, "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")
	req.ContentLength = 1024
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
