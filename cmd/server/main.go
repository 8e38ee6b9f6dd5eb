package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/internal/infrastructure/config"
	"flightwatch-service/internal/infrastructure/oauth"
	"flightwatch-service/internal/infrastructure/persistence"
	"flightwatch-service/internal/infrastructure/router"
	"flightwatch-service/internal/interface/fl3xx"
	mongoRepo "flightwatch-service/internal/interface/repository"
	"flightwatch-service/internal/interface/webhook"
	"flightwatch-service/internal/usecase"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Flightwatch Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cfg.WebhookToken == "" {
		log.Fatal("WEBHOOK_TOKEN is required, refusing to accept unauthenticated deliveries")
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Aircraft reference data is optional; without it provider idents are
	// stored as delivered.
	var aircraftRepo repository.AircraftRepository
	if cfg.PostgresURI != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		aircraftRepo = mongoRepo.NewGormAircraftRepository(gormDB)
	} else {
		log.Warn("No PostgreSQL DSN configured, aircraft ident canonicalization disabled")
	}

	// Delivery cache is optional; without it every delivery is stored.
	var deliveryCache repository.DeliveryCache
	if redisClient := persistence.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); redisClient != nil {
		deliveryCache = mongoRepo.NewRedisDeliveryCache(redisClient)
	} else {
		log.Warn("No Redis connection, delivery redelivery detection disabled")
	}

	// Set up repositories and metrics
	eventRepo := mongoRepo.NewMongoStatusEventRepository(db)
	appMetrics := metrics.NewMetrics("flightwatch")

	// Set up ingestion
	ingestor := usecase.NewEventIngestor(eventRepo, aircraftRepo, deliveryCache, cfg.EventTTL, cfg.DeliveryCacheTTL, log)

	// Set up the roster source and reconciler
	fl3xxAuth := oauth.NewFl3xxAuth(cfg.Fl3xxToken, log)
	snapshotSource := fl3xx.NewClient(cfg.Fl3xxBaseURL, fl3xxAuth.HTTPClient(ctx), log)
	reconciler := usecase.NewReconciler(snapshotSource, eventRepo, usecase.NewPhaseClassifier(), cfg.ReconcileInterval, appMetrics, log)

	// Start the reconciler in a goroutine
	go reconciler.Start(ctx)

	// Start the event pruner in a goroutine
	pruner := usecase.NewEventPruner(eventRepo, cfg.PruneInterval, appMetrics, log)
	go pruner.Start(ctx)

	// Set up HTTP server
	handler := webhook.NewHandler(ingestor, reconciler, eventRepo, cfg.WebhookToken, cfg.StoreTimeout, appMetrics, log)
	e := router.NewRouter(handler, cfg.WebhookPath)
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port, "webhookPath", cfg.WebhookPath)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Flightwatch Service stopped")
}
