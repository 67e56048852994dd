package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/healthecon360/analytics-api/config"
	"github.com/healthecon360/analytics-api/internal/email"
	"github.com/healthecon360/analytics-api/internal/handler"
	analyticsHandler "github.com/healthecon360/analytics-api/internal/handler/analytics"
	authHandler "github.com/healthecon360/analytics-api/internal/handler/auth"
	dashboardHandler "github.com/healthecon360/analytics-api/internal/handler/dashboard"
	datasetHandler "github.com/healthecon360/analytics-api/internal/handler/dataset"
	outcomeHandler "github.com/healthecon360/analytics-api/internal/handler/outcome"
	pricingHandler "github.com/healthecon360/analytics-api/internal/handler/pricing"
	recommendationHandler "github.com/healthecon360/analytics-api/internal/handler/recommendation"
	resourceHandler "github.com/healthecon360/analytics-api/internal/handler/resource"
	"github.com/healthecon360/analytics-api/internal/middleware"
	"github.com/healthecon360/analytics-api/internal/repository/postgres"
	"github.com/healthecon360/analytics-api/internal/router"
	analyticsService "github.com/healthecon360/analytics-api/internal/service/analytics"
	authService "github.com/healthecon360/analytics-api/internal/service/auth"
	dashboardService "github.com/healthecon360/analytics-api/internal/service/dashboard"
	datasetService "github.com/healthecon360/analytics-api/internal/service/dataset"
	outcomeService "github.com/healthecon360/analytics-api/internal/service/outcome"
	pricingService "github.com/healthecon360/analytics-api/internal/service/pricing"
	recommendationService "github.com/healthecon360/analytics-api/internal/service/recommendation"
	resourceService "github.com/healthecon360/analytics-api/internal/service/resource"
	"github.com/healthecon360/analytics-api/pkg/auth"
	"github.com/healthecon360/analytics-api/pkg/logger"
	"github.com/healthecon360/analytics-api/pkg/messaging"
	"github.com/healthecon360/analytics-api/pkg/messaging/redis"
	"github.com/healthecon360/analytics-api/pkg/metrics"
	"github.com/healthecon360/analytics-api/pkg/security"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	appMetrics := metrics.NewMetrics("analytics", "api")

	base := postgres.NewBaseRepository(db).WithMetrics(appMetrics)
	userRepo := postgres.NewUserRepository(base)
	tokenRepo := postgres.NewTokenRepository(base)
	pricingRepo := postgres.NewPricingRepository(base)
	resourceRepo := postgres.NewResourceRepository(base)
	outcomeRepo := postgres.NewOutcomeRepository(base)
	recommendationRepo := postgres.NewRecommendationRepository(base)
	dashboardRepo := postgres.NewDashboardRepository(base)

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger, appMetrics)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, insights will not be published")
			broker = nil
		}
	}

	jwtSvc := auth.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
		time.Duration(cfg.JWT.RefreshExpiryHours)*time.Hour,
		cfg.JWT.Issuer,
	)
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)

	var emailSvc email.Service
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewSMTPService(cfg.SMTP, cfg.Server.BaseURL)
	} else {
		emailSvc = email.NoopService{}
	}

	authSvc := authService.NewService(userRepo, tokenRepo, jwtSvc, hasher, emailSvc, appLogger)
	pricingSvc := pricingService.NewService(pricingRepo)
	resourceSvc := resourceService.NewService(resourceRepo)
	outcomeSvc := outcomeService.NewService(outcomeRepo)
	analyticsSvc := analyticsService.NewService(
		pricingRepo, resourceRepo, outcomeRepo, recommendationRepo,
		cfg.Cache.TTL, cfg.Cache.CleanupInterval,
	)
	recommendationSvc := recommendationService.NewService(recommendationRepo, cfg.Engine.TopLimit)
	dashboardSvc := dashboardService.NewService(dashboardRepo)
	datasetSvc := datasetService.NewService(pricingRepo, outcomeRepo, resourceRepo, appLogger).
		WithRefresh(broker, cfg.Engine.RefreshChannel)

	engine := recommendationService.NewEngine(
		analyticsSvc, recommendationRepo, pricingRepo, broker,
		recommendationService.EngineConfig{
			MinPriceCount:  cfg.Engine.MinPriceCount,
			InsightChannel: cfg.Engine.InsightChannel,
		},
		appLogger, appMetrics,
	)

	handler.RegisterValidators()

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}
	if len(cfg.Security.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.Security.AllowedMethods
	}
	if len(cfg.Security.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.Security.AllowedHeaders
	}

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		pricingHandler.NewHandler(pricingSvc),
		resourceHandler.NewHandler(resourceSvc),
		outcomeHandler.NewHandler(outcomeSvc),
		recommendationHandler.NewHandler(recommendationSvc, engine),
		analyticsHandler.NewHandler(analyticsSvc),
		dashboardHandler.NewHandler(dashboardSvc),
		datasetHandler.NewHandler(datasetSvc, appMetrics),
		handler.NewHandler(),
		router.RouterConfig{
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RequestTimeout:   cfg.Server.RequestTimeout,
			CORSConfig:       corsConfig,
			MetricsPrefix:    "analytics_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
