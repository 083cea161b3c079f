package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"go-jobboard-backend/config"
	_ "go-jobboard-backend/docs" // Important for Swagger
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/repository/postgres"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/credential"
	"go-jobboard-backend/pkg/database"
	"go-jobboard-backend/pkg/events"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/redis"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/token"
	"go-jobboard-backend/pkg/validation"
)

// @title           Job Board Backend API
// @version         1.0
// @description     Accounts, moderated job postings, applications and messaging.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting job board backend", "port", cfg.Port, "env", cfg.Environment)
	audit := security.InitSecurityLogger("go-jobboard-backend", cfg.Environment)
	defer func() { _ = audit.Sync() }()

	// 3. Setup Database
	ctx := context.Background()
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.EnsureSchema(ctx, dbPool); err != nil {
		logger.Log.Error("Failed to apply schema", "error", err)
		os.Exit(1)
	}

	// 4. Setup Redis (optional)
	var limiter goredis.Scripter
	var trackerStore security.TrackerStore
	var cachePinger usecase.Pinger
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, rate limiting disabled", "error", err)
		}
	} else {
		limiter = redis.Client()
		trackerStore = redis.Client()
		cachePinger = usecase.PingFunc(redis.HealthCheck)
	}
	defer func() { _ = redis.Close() }()

	// 5. Setup Repositories
	timeout := cfg.StoreTimeout()
	accountRepo := postgres.NewAccountRepository(dbPool, timeout)
	postingRepo := postgres.NewPostingRepository(dbPool, timeout)
	applicationRepo := postgres.NewApplicationRepository(dbPool, timeout)
	messageRepo := postgres.NewMessageRepository(dbPool, timeout)

	// 6. Setup UseCases
	validate := validation.New()
	publisher := events.NewPublisher(cfg.AMQPUrl, cfg.EventsQueue)
	hasher := credential.NewHasher(cfg.HashSecret,
		credential.ParamsFrom(cfg.Argon2Time, cfg.Argon2MemoryKiB, cfg.Argon2Threads, cfg.Argon2KeyLen))
	tokens := token.NewIssuer(cfg.TokenSigningSecret, cfg.AccessTokenTTL())
	tracker := security.NewLoginTracker(trackerStore, security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: cfg.FailedLoginWindow(),
		BlockDuration: cfg.FailedLoginBlock(),
	}, audit)

	authUC := usecase.NewAuthUsecase(accountRepo, hasher, tokens, tracker, audit, validate,
		usecase.WithAdminRegistration(cfg.AllowAdminRegistration))
	accountUC := usecase.NewAccountUsecase(accountRepo)
	adminUC := usecase.NewAdminUsecase(accountRepo, audit)
	postingUC := usecase.NewPostingUsecase(postingRepo, accountRepo, publisher, validate)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, postingRepo, publisher)
	messageUC := usecase.NewMessageUsecase(messageRepo, accountRepo, publisher, validate)
	healthUC := usecase.NewHealthUsecase(usecase.PingFunc(dbPool.Ping), cachePinger)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		AccountUC:     accountUC,
		AdminUC:       adminUC,
		PostingUC:     postingUC,
		ApplicationUC: applicationUC,
		MessageUC:     messageUC,
		HealthUC:      healthUC,
		Guard:         usecase.NewGuard(accountRepo, tokens, audit),
		Redis:         limiter,
		Audit:         audit,
		Logger:        logger.Log,
		Config:        cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
