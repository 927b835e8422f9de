package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	apppartner "github.com/procureflow/backend/internal/application/partner"
	apppricing "github.com/procureflow/backend/internal/application/pricing"
	appprocurement "github.com/procureflow/backend/internal/application/procurement"
	"github.com/procureflow/backend/internal/domain/pricing"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/infrastructure/config"
	"github.com/procureflow/backend/internal/infrastructure/event"
	"github.com/procureflow/backend/internal/infrastructure/logger"
	"github.com/procureflow/backend/internal/infrastructure/notification"
	"github.com/procureflow/backend/internal/infrastructure/persistence"
	"github.com/procureflow/backend/internal/infrastructure/scheduler"
	"github.com/procureflow/backend/internal/infrastructure/telemetry"
	"github.com/procureflow/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting procurement backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)

	clock := shared.SystemClock{}

	// Application services
	orderService := appprocurement.NewPurchaseOrderService(orderRepo, customerRepo, clock, log)
	assignService := appprocurement.NewAssignVendorService(orderRepo, vendorRepo, clock, log)
	negotiateService := appprocurement.NewNegotiateService(orderRepo, vendorRepo, clock, log)
	expireService := appprocurement.NewExpireQuotesService(orderRepo, vendorRepo, clock, log)
	expireService.SetDryRun(cfg.QuoteExpiration.DryRun)

	calculator := pricing.NewCalculator(pricing.NewTierDiscountEngine(), pricing.NewRegionalTaxCalculator())
	pricingService := apppricing.NewPricingService(orderRepo, customerRepo, calculator, clock, log)

	vendorService := apppartner.NewVendorService(vendorRepo, log)
	customerService := apppartner.NewCustomerService(customerRepo, log)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	orderService.SetEventPublisher(eventBus)
	assignService.SetEventPublisher(eventBus)
	negotiateService.SetEventPublisher(eventBus)
	expireService.SetEventPublisher(eventBus)

	// Telemetry
	var meterProvider *telemetry.MeterProvider
	if cfg.Telemetry.Enabled {
		meterProvider, err = telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize telemetry", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down meter provider", zap.Error(err))
			}
		}()

		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:              meterProvider.Meter("procurement.business"),
			Logger:             log,
			OrderStatsProvider: telemetry.NewGormOrderStatsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		businessMetrics.StartPeriodicCollection(context.Background(), telemetry.NewGormTenantProvider(db.DB), 5*time.Minute)
		defer businessMetrics.Stop()

		orderService.SetMetrics(businessMetrics)
		assignService.SetMetrics(businessMetrics)
		negotiateService.SetMetrics(businessMetrics)
		expireService.SetMetrics(businessMetrics)
		log.Info("Telemetry enabled", zap.String("endpoint", cfg.Telemetry.CollectorEndpoint))
	}

	// Quote expiration notifications go out over Redis Pub/Sub
	notifier, err := notification.NewRedisNotifier(cfg.Redis, notification.WithNotifierLogger(log))
	if err != nil {
		log.Warn("Redis notifier unavailable, quote expiration notifications disabled", zap.Error(err))
	} else {
		defer func() {
			if err := notifier.Close(); err != nil {
				log.Error("Error closing notifier", zap.Error(err))
			}
		}()
		expireService.SetNotificationService(notifier)
	}

	// Quote expiration scheduler
	var quoteScheduler *scheduler.QuoteExpirationScheduler
	if cfg.QuoteExpiration.Enabled {
		quoteScheduler, err = scheduler.NewQuoteExpirationScheduler(scheduler.QuoteExpirationConfig{
			Enabled:       cfg.QuoteExpiration.Enabled,
			CheckInterval: cfg.QuoteExpiration.CheckInterval,
			SweepTimeout:  cfg.Scheduler.JobTimeout,
		}, expireService, log)
		if err != nil {
			log.Fatal("Failed to create quote expiration scheduler", zap.Error(err))
		}
		if err := quoteScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start quote expiration scheduler", zap.Error(err))
		}
		defer func() {
			if err := quoteScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping quote expiration scheduler", zap.Error(err))
			}
		}()
		log.Info("Quote expiration scheduler started",
			zap.Duration("check_interval", cfg.QuoteExpiration.CheckInterval),
			zap.Bool("dry_run", cfg.QuoteExpiration.DryRun),
		)
	}

	engine := router.New(router.Dependencies{
		Config: cfg,
		Logger: log,
		DB:     db.DB,

		OrderService:     orderService,
		AssignService:    assignService,
		NegotiateService: negotiateService,
		PricingService:   pricingService,
		VendorService:    vendorService,
		CustomerService:  customerService,

		Scheduler:     quoteScheduler,
		MeterProvider: meterProvider,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
