package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msrishav-28/penpal/internal/core"
	httpProtocol "github.com/msrishav-28/penpal/internal/protocols/http"
	wsProtocol "github.com/msrishav-28/penpal/internal/protocols/websocket"
	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/config"
	"github.com/msrishav-28/penpal/pkg/database"
	"github.com/msrishav-28/penpal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("./configs/development.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	logger.Info("Starting penpal server...")

	// Connect to database
	pool, err := database.NewPGXPool(database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		Timeout:         cfg.Database.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	logger.Info("Connected to PostgreSQL database")

	// Optional redis: leaderboard, pub/sub notifications, reading rooms
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warnf("Redis unavailable, continuing without it: %v", err)
			redisClient = nil
		} else {
			logger.Info("Connected to Redis")
		}
		cancel()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	bookRepo := repository.NewBookRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	socialRepo := repository.NewSocialRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	gamRepo := repository.NewGamificationRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)

	logger.Info("Initialized all repositories")

	// Initialize core services
	notifier := core.NewNotifier(notificationRepo, redisClient)
	authSvc := core.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	statsSvc := core.NewStatsService(statsRepo)
	gamificationSvc := core.NewGamificationService(userRepo, statsRepo, gamRepo, activityRepo, notifier, redisClient)
	bookSvc := core.NewBookService(bookRepo)
	sessionSvc := core.NewSessionService(sessionRepo, bookRepo, progressRepo, statsSvc, gamificationSvc, notifier)
	progressSvc := core.NewProgressService(progressRepo, bookRepo, activityRepo, statsSvc, gamificationSvc)
	reviewSvc := core.NewReviewService(reviewRepo, bookRepo, activityRepo, statsSvc, gamificationSvc)
	socialSvc := core.NewSocialService(socialRepo, userRepo, gamificationSvc, notifier)
	activitySvc := core.NewActivityService(activityRepo, socialRepo)
	notificationSvc := core.NewNotificationService(notificationRepo)
	importSvc := core.NewImportService(bookSvc, progressRepo, statsSvc, gamificationSvc)

	logger.Info("Initialized all core services")

	// Reading room hub
	wsHub := wsProtocol.NewHub(redisClient)

	// HTTP REST API server
	httpServer := httpProtocol.NewServer(
		cfg,
		authSvc,
		bookSvc,
		sessionSvc,
		gamificationSvc,
		progressSvc,
		reviewSvc,
		socialSvc,
		activitySvc,
		notificationSvc,
		importSvc,
		wsHub,
	)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("HTTP server panic recovered: %v", r)
			}
		}()
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info(fmt.Sprintf("Starting HTTP server on %s", addr))
		if err := httpServer.Start(addr); err != nil {
			logger.Errorf("HTTP server error: %v", err)
		}
	}()

	logger.Info("Server started, press Ctrl+C to shutdown")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info(fmt.Sprintf("Received signal: %v", sig))

	logger.Info("Shutting down...")
	wsHub.Stop()
	if redisClient != nil {
		redisClient.Close()
	}
	logger.Info("Shutdown complete")
}
