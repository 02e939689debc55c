package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/debtwatch-service/internal/auth"
	"github.com/Dan9191/debtwatch-service/internal/config"
	"github.com/Dan9191/debtwatch-service/internal/handler"
	"github.com/Dan9191/debtwatch-service/internal/integrations/gemini"
	"github.com/Dan9191/debtwatch-service/internal/ratelimit"
	"github.com/Dan9191/debtwatch-service/internal/repository"
	"github.com/Dan9191/debtwatch-service/internal/service"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig(".")
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx := context.Background()

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	repo := repository.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis backs token revocation and rate limiting; both are disabled without it.
	var (
		revocations auth.RevocationStore
		limiter     service.RateLimiter
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatalf("Failed to parse REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("Failed to ping redis: %v", err)
		}
		revocations = auth.NewRedisRevocationStore(rdb, "")
		limiter = ratelimit.NewRedisLimiter(rdb, "", cfg.InferenceRateLimit, cfg.InferenceRateWindow)
	} else {
		logger.Warn("REDIS_URL not set, token revocation and rate limiting are disabled")
	}

	// Initialize layers
	geminiClient := gemini.NewClient(cfg, logger)
	svc := service.NewService(repo, geminiClient, limiter, logger)
	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, revocations)
	h := handler.NewHandler(svc, verifier, repo, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, verifier),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.InferenceTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
}
