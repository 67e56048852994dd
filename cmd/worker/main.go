package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/healthecon360/analytics-api/config"
	"github.com/healthecon360/analytics-api/internal/repository/postgres"
	analyticsService "github.com/healthecon360/analytics-api/internal/service/analytics"
	recommendationService "github.com/healthecon360/analytics-api/internal/service/recommendation"
	"github.com/healthecon360/analytics-api/pkg/logger"
	"github.com/healthecon360/analytics-api/pkg/messaging"
	"github.com/healthecon360/analytics-api/pkg/messaging/redis"
	"github.com/healthecon360/analytics-api/pkg/metrics"
)

// The worker runs the analysis engine on a schedule, independent of the
// API process, so long passes never compete with request traffic.
func main() {
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

	appMetrics := metrics.NewMetrics("analytics", "worker")

	base := postgres.NewBaseRepository(db).WithMetrics(appMetrics)
	pricingRepo := postgres.NewPricingRepository(base)
	resourceRepo := postgres.NewResourceRepository(base)
	outcomeRepo := postgres.NewOutcomeRepository(base)
	recommendationRepo := postgres.NewRecommendationRepository(base)

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger, appMetrics)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, insights will not be published")
			broker = nil
		}
	}

	analyticsSvc := analyticsService.NewService(
		pricingRepo, resourceRepo, outcomeRepo, recommendationRepo,
		cfg.Cache.TTL, cfg.Cache.CleanupInterval,
	)

	engine := recommendationService.NewEngine(
		analyticsSvc, recommendationRepo, pricingRepo, broker,
		recommendationService.EngineConfig{
			MinPriceCount:  cfg.Engine.MinPriceCount,
			InsightChannel: cfg.Engine.InsightChannel,
		},
		appLogger, appMetrics,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A message on the refresh channel forces a run between scheduled
	// passes, e.g. right after a large import.
	if broker != nil && cfg.Engine.RefreshChannel != "" {
		bus := messaging.NewBrokerAdapter(broker)
		if err := bus.Subscribe(ctx, cfg.Engine.RefreshChannel, func([]byte) error {
			appLogger.Info("refresh requested, running analysis")
			return engine.Run(ctx)
		}); err != nil {
			log.Warn().Err(err).Msg("failed to subscribe to refresh channel")
		}
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		appLogger.Info("shutting down worker")
		cancel()
	}()

	appLogger.Info("starting analysis worker", "interval", cfg.Engine.Interval.String())
	engine.RunPeriodically(ctx, cfg.Engine.Interval)
}
