package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/coinfolio/coinfolio/internal/adapter/exchange/binance"
	httpAdapter "github.com/coinfolio/coinfolio/internal/adapter/http"
	"github.com/coinfolio/coinfolio/internal/adapter/http/handler"
	"github.com/coinfolio/coinfolio/internal/adapter/http/middleware"
	postgresRepo "github.com/coinfolio/coinfolio/internal/adapter/repository/postgres"
	redisRepo "github.com/coinfolio/coinfolio/internal/adapter/repository/redis"
	"github.com/coinfolio/coinfolio/internal/infrastructure/config"
	"github.com/coinfolio/coinfolio/internal/infrastructure/logger"
	"github.com/coinfolio/coinfolio/internal/infrastructure/postgres"
	"github.com/coinfolio/coinfolio/internal/infrastructure/redis"
	"github.com/coinfolio/coinfolio/internal/infrastructure/secrets"
	"github.com/coinfolio/coinfolio/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Credential cipher
	key, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("ENCRYPTION_KEY is not valid hex")
	}
	cipher, err := secrets.NewAESCipher(key)
	if err != nil {
		log.Fatal().Err(err).Msg("ENCRYPTION_KEY must decode to 32 bytes")
	}

	// Initialize repositories
	manualRepo := postgresRepo.NewManualRepository(pool)
	connectionRepo := postgresRepo.NewConnectionRepository(pool)
	snapshotRepo := postgresRepo.NewSnapshotRepository(pool)
	alertRepo := postgresRepo.NewAlertRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Exchange provider (also serves as the spot price source)
	binanceClient := binance.NewClient(cfg.BinanceBaseURL, cfg.BinanceTimeout, log)
	provider := binance.NewProvider(binanceClient, cipher, log)

	// Initialize use cases
	reconcileUC := usecase.NewReconcileUseCase(connectionRepo, provider, manualRepo, provider, cfg.SourceTimeout, log)
	cachedReconciler := usecase.NewCachedReconciler(reconcileUC, cache, cfg.CacheTTL, log)
	manualUC := usecase.NewManualUseCase(manualRepo, idGen, cache, log)
	portfolioUC := usecase.NewPortfolioUseCase(connectionRepo, provider, manualRepo, provider, snapshotRepo, idGen, cache, cfg.SourceTimeout, cfg.CacheTTL, log)
	connectionUC := usecase.NewConnectionUseCase(connectionRepo, cipher, idGen, log)
	alertUC := usecase.NewAlertUseCase(alertRepo, provider, idGen, log)

	// Initialize handlers
	assetHandler := handler.NewAssetHandler(cachedReconciler)
	manualHandler := handler.NewManualHandler(manualUC)
	connectionHandler := handler.NewConnectionHandler(connectionUC, provider)
	portfolioHandler := handler.NewPortfolioHandler(portfolioUC)
	priceHandler := handler.NewPriceHandler(provider)
	alertHandler := handler.NewAlertHandler(alertUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AssetHandler:      assetHandler,
		ManualHandler:     manualHandler,
		ConnectionHandler: connectionHandler,
		PortfolioHandler:  portfolioHandler,
		PriceHandler:      priceHandler,
		AlertHandler:      alertHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		APIToken:          cfg.APIToken,
		Logger:            log,
	})

	// Periodic portfolio snapshots and alert evaluation
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.SnapshotSchedule, func() {
		snapCtx, cancel := context.WithTimeout(context.Background(), cfg.SourceTimeout+10*time.Second)
		defer cancel()
		if err := portfolioUC.TakeSnapshot(snapCtx); err != nil {
			log.Warn().Err(err).Msg("snapshot run failed")
		}
		if err := alertUC.CheckAlerts(snapCtx); err != nil {
			log.Warn().Err(err).Msg("alert evaluation failed")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.SnapshotSchedule).Msg("invalid snapshot schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
