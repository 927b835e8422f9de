// Package router assembles the HTTP server from handlers and middleware.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apppartner "github.com/procureflow/backend/internal/application/partner"
	apppricing "github.com/procureflow/backend/internal/application/pricing"
	appprocurement "github.com/procureflow/backend/internal/application/procurement"
	"github.com/procureflow/backend/internal/infrastructure/config"
	"github.com/procureflow/backend/internal/infrastructure/logger"
	"github.com/procureflow/backend/internal/infrastructure/scheduler"
	"github.com/procureflow/backend/internal/infrastructure/telemetry"
	"github.com/procureflow/backend/internal/interfaces/http/handler"
	"github.com/procureflow/backend/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router needs to wire the API.
// Scheduler and MeterProvider may be nil when those subsystems are
// disabled.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB

	OrderService     *appprocurement.PurchaseOrderService
	AssignService    *appprocurement.AssignVendorService
	NegotiateService *appprocurement.NegotiateService
	PricingService   *apppricing.PricingService
	VendorService    *apppartner.VendorService
	CustomerService  *apppartner.CustomerService

	Scheduler     *scheduler.QuoteExpirationScheduler
	MeterProvider *telemetry.MeterProvider
}

// New builds the Gin engine with the full middleware chain and all API
// routes registered.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}
	engine.MaxMultipartMemory = cfg.HTTP.MaxBodySize

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: deps.MeterProvider,
		Enabled:       deps.MeterProvider != nil,
	}))

	api := engine.Group("/api/v1")

	// System routes register before the tenant guard so health checks and
	// admin sweeps stay reachable without a tenant header
	systemHandler := handler.NewSystemHandler(deps.DB, deps.Scheduler, cfg.App.Name)
	systemHandler.RegisterRoutes(engine, api)

	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.SkipPaths = append(tenantCfg.SkipPaths, "/api/v1/admin")
	tenantCfg.Logger = deps.Logger
	api.Use(middleware.TenantMiddlewareWithConfig(tenantCfg))

	orderHandler := handler.NewPurchaseOrderHandler(deps.OrderService, deps.AssignService, deps.NegotiateService)
	orderHandler.RegisterRoutes(api)

	pricingHandler := handler.NewPricingHandler(deps.PricingService)
	pricingHandler.RegisterRoutes(api)

	vendorHandler := handler.NewVendorHandler(deps.VendorService)
	vendorHandler.RegisterRoutes(api)

	customerHandler := handler.NewCustomerHandler(deps.CustomerService)
	customerHandler.RegisterRoutes(api)

	return engine
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}
