package main

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skylark-app/feedback-backend/config"
	"github.com/skylark-app/feedback-backend/handlers"
	"github.com/skylark-app/feedback-backend/internal/media"
	"github.com/skylark-app/feedback-backend/internal/store/sheets"
	"github.com/skylark-app/feedback-backend/logger"
	"github.com/skylark-app/feedback-backend/router"
	"github.com/skylark-app/feedback-backend/services"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Record store client for the feedback sheet
	records := sheets.NewClient(
		cfg.Sheets.BaseURL,
		cfg.Sheets.SpreadsheetID,
		cfg.Sheets.SheetName,
		cfg.Sheets.APIKey,
	)

	// Media uploader is optional. Without credentials the service still
	// accepts text-only feedback; submissions with photos are rejected.
	var uploader media.Uploader
	if cfg.Media.Configured() {
		r2, err := media.NewR2Uploader(
			cfg.Media.AccountID,
			cfg.Media.Bucket,
			cfg.Media.AccessKeyID,
			cfg.Media.SecretAccessKey,
			cfg.Media.PublicBaseURL,
		)
		if err != nil {
			log.Fatalf("Failed to initialize media storage: %v", err)
		}
		uploader = r2
	} else {
		log.Warnw("Media storage not configured, photo uploads are disabled")
	}

	// Redis client with TLS in production
	var redisClient *redis.Client
	var rateLimiter services.SubmissionLimiter
	if cfg.Redis.Address != "" {
		redisOptions := &redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		if cfg.Server.Environment == config.EnvProduction && cfg.Redis.UseTLS {
			redisOptions.TLSConfig = &tls.Config{
				ServerName: cfg.Redis.Address,
				MinVersion: tls.VersionTLS12,
			}
		}
		redisClient = redis.NewClient(redisOptions)
		rateLimiter = services.NewRedisSubmissionLimiter(redisClient, "feedback_rate:")
	} else {
		log.Warnw("Redis not configured, submission rate limiting is disabled")
	}

	// Services
	feedbackService := services.NewFeedbackService(uploader, records)
	iconRegistry := services.NewIconRegistry(cfg.Icons.DefaultName, cfg.Icons.DefaultURL)
	healthService := services.NewHealthService(records, uploader, redisClient, cfg.Server.Version)

	// Make sure the sheet carries the header row before serving traffic.
	// A failure here is logged but not fatal so the service can come up
	// while the record store is briefly unavailable.
	headerCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := feedbackService.EnsureHeaders(headerCtx); err != nil {
		log.Warnw("Could not verify feedback sheet headers", "error", err)
	}
	cancel()

	// Handlers
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, cfg.Upload)
	iconHandler := handlers.NewIconHandler(iconRegistry)
	healthHandler := handlers.NewHealthHandler(healthService, cfg)

	// Router setup
	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		FeedbackHandler: feedbackHandler,
		IconHandler:     iconHandler,
		HealthHandler:   healthHandler,
		RateLimiter:     rateLimiter,
		Logger:          log,
	})

	log.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
