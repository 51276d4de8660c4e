package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/farepilot/farepilot/configs"
	"github.com/farepilot/farepilot/internal/application/services"
	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/farepilot/farepilot/internal/infrastructure/db"
	"github.com/farepilot/farepilot/internal/infrastructure/flightapi"
	"github.com/farepilot/farepilot/internal/infrastructure/health"
	"github.com/farepilot/farepilot/internal/infrastructure/httpserver"
	"github.com/farepilot/farepilot/internal/infrastructure/metrics"
	"github.com/farepilot/farepilot/internal/infrastructure/redis"
	"github.com/farepilot/farepilot/internal/infrastructure/repositories"
	"github.com/farepilot/farepilot/internal/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting farepilot...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	healthCheckers := []ports.HealthChecker{health.NewDBHealthChecker(database)}

	// Select the cache document store backend
	var docStore ports.DocumentStore
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis successfully")

		docStore = redis.NewDocumentStore(redisClient)
		healthCheckers = append(healthCheckers, health.NewRedisHealthChecker(redisClient))
	default:
		docStore = repositories.NewCacheDocumentRepository(database, logger)
	}

	resultCache := services.NewCacheService(docStore, cfg.Cache.Collection, cfg.Cache.TTL, logger, metrics.CacheLookups())

	// Upstream flight API client and retry schedule
	flightClient := flightapi.NewClient(&cfg.Upstream, logger)
	retryConfig := utils.RetryConfig{
		MaxRetries:   cfg.Upstream.MaxRetries,
		InitialDelay: cfg.Upstream.InitialDelay,
		MaxDelay:     cfg.Upstream.MaxDelay,
	}

	// Wire all services with their dependencies
	searchService := services.NewSearchService(resultCache, flightClient, cfg.Upstream.TripType, retryConfig, logger, metrics.UpstreamCalls())
	enrichmentService := services.NewEnrichmentService(resultCache, flightClient, retryConfig, logger, metrics.UpstreamCalls(), metrics.EnrichmentFailures())

	offerRepo := repositories.NewOfferRepository(database, logger)
	offerService := services.NewOfferService(offerRepo, logger, metrics.ComboRequests())

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		SearchService:     searchService,
		EnrichmentService: enrichmentService,
		OfferService:      offerService,
		HealthCheckers:    healthCheckers,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
