package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/beanport/backend/internal/application/catalog"
	fulfillmentapp "github.com/beanport/backend/internal/application/fulfillment"
	partnerapp "github.com/beanport/backend/internal/application/partner"
	quoteapp "github.com/beanport/backend/internal/application/quote"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/infrastructure/auth"
	"github.com/beanport/backend/internal/infrastructure/cache"
	"github.com/beanport/backend/internal/infrastructure/config"
	"github.com/beanport/backend/internal/infrastructure/logger"
	"github.com/beanport/backend/internal/infrastructure/notify"
	"github.com/beanport/backend/internal/infrastructure/persistence"
	"github.com/beanport/backend/internal/interfaces/http/handler"
	"github.com/beanport/backend/internal/interfaces/http/middleware"
	"github.com/beanport/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is stamped at build time via -ldflags "-X main.version=..."
var version = "dev"

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting beanport backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database connection with a zap-backed GORM logger
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
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
	productRepo := persistence.NewGormCoffeeProductRepository(db.DB)
	serviceRepo := persistence.NewGormBusinessServiceRepository(db.DB)
	companyRepo := persistence.NewGormClientCompanyRepository(db.DB)
	rfqRepo := persistence.NewGormRFQRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Inquiry intake store, Redis first with in-memory fallback
	intakeFactory := cache.NewIntakeStoreFactory(cfg.Redis, cfg.Intake, cache.WithLogger(log))
	intakeStore, err := intakeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create intake store", zap.Error(err))
	}

	notifier := notify.NewLogNotifier(log)

	clock := shared.SystemClock{}
	idGen := shared.UUIDGenerator{}

	// Application services
	productService := catalogapp.NewProductService(productRepo, clock, idGen)
	serviceService := catalogapp.NewServiceService(serviceRepo, clock, idGen)
	companyService := partnerapp.NewCompanyService(companyRepo, clock, idGen)
	rfqService := quoteapp.NewRFQService(rfqRepo, intakeStore, notifier, clock, idGen)
	orderService := fulfillmentapp.NewOrderService(orderRepo, rfqRepo, productRepo, companyRepo, clock, idGen)

	// Token issuance and revocation
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis token blacklist unavailable, using in-memory store", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.AccessLog(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/ready",
		},
		Logger: log,
	}
	if blacklist != nil {
		jwtConfig.TokenBlacklist = blacklist
	} else {
		jwtConfig.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		RegisterRoot(handler.NewSystemHandler(db, version)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewServiceHandler(serviceService)).
		Register(handler.NewCompanyHandler(companyService)).
		Register(handler.NewRFQHandler(rfqService)).
		Register(handler.NewOrderHandler(orderService)).
		Setup()

	// Periodic sweep that expires inquiries past their validity window
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runExpirySweep(sweepCtx, rfqService, cfg.Intake.SweepPeriod, log)

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
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runExpirySweep periodically closes inquiries whose validity window has
// passed. Each tick is independent so a failed sweep retries on the next one.
func runExpirySweep(ctx context.Context, rfqService *quoteapp.RFQService, period time.Duration, log *zap.Logger) {
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := rfqService.ExpireOverdue(ctx, "system")
			if err != nil {
				log.Warn("Inquiry expiry sweep failed", zap.Error(err))
				continue
			}
			if expired > 0 {
				log.Info("Expired overdue inquiries", zap.Int("expired", expired))
			}
		}
	}
}
