package main

import (
	"context" // context package is needed for Redis operations

	"receipt_system/internal/api"        // Custom package for API handlers
	"receipt_system/internal/config"     // Custom package for configuration
	"receipt_system/internal/db"         // Custom package for the database connection
	"receipt_system/internal/repository" // Custom package for persistence
	"receipt_system/internal/service"    // Custom package for receipt and user services
	"receipt_system/internal/utils"      // Custom package for tokens and idempotency keys

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	// Setup token service from the configured secret and algorithm
	tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL)
	if err != nil {
		logrus.Fatalf("failed to configure tokens: %v", err)
	}

	// Connect to the database
	conn, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	repo := repository.NewRepository(conn)

	// Setup Redis client when configured, it backs Idempotency-Key handling
	var idempotency utils.IdempotencyStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		idempotency = utils.NewRedisIdempotencyStore(redisClient)
	} else {
		logrus.Info("REDIS_ADDR not set, Idempotency-Key header is ignored")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	receipts := service.NewReceiptService(repo, repo, idempotency)
	users := service.NewUserService(repo, tokens)
	r := api.NewRouter(receipts, users, tokens) // Gin router with all routes

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.Info("Server running on " + cfg.AppPort) // Log server start
	// Start the server on port cfg.AppPort
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
