package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eunoia/internal/analysis"
	"eunoia/internal/cache"
	"eunoia/internal/config"
	"eunoia/internal/logging"
	"eunoia/internal/repository"
	"eunoia/internal/service"
	"eunoia/internal/transport/rest"
	"eunoia/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Eunoia AI Backend
// @version 1.0
// @description Mental-health risk assessment from behavioral data and text
// @host localhost:8000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadEnv(config.AppEnv())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel)
	slog.Info("Application starting up...",
		slog.String("port", cfg.HTTPPort),
		slog.String("db", cfg.DBName),
		slog.String("risk_scorer", cfg.RiskScorer),
		slog.String("model_backend", cfg.Models.Backend),
		slog.Bool("llm_recommendations", cfg.Recommender.IsEnabled()))

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		slog.Error("Failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		slog.Error("Failed to ping MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("Connected to MongoDB")

	db := mongoClient.Database(cfg.DBName)

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	assessmentRepo := repository.NewAssessmentRepo(db)
	behavioralRepo := repository.NewBehavioralRepo(db)

	indexCtx, indexCancel := context.WithTimeout(ctx, 10*time.Second)
	defer indexCancel()
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		slog.Error("Failed to create user indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := assessmentRepo.EnsureIndexes(indexCtx); err != nil {
		slog.Warn("Failed to create assessment indexes", slog.String("error", err.Error()))
	}

	// Redis is optional: without it history is read straight from MongoDB
	var history cache.HistoryCache = cache.NoopHistoryCache{}
	var cachePinger service.Pinger
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unreachable, history cache disabled", slog.String("error", err.Error()))
		} else {
			slog.Info("Connected to Redis")
			history = cache.NewHistoryCache(rdb)
		}
		cachePinger = service.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// Models are loaded once and shared read-only
	registry := analysis.LoadRegistry(ctx, cfg.Models)
	defer registry.Close()

	scorer, err := analysis.NewScorer(cfg.RiskScorer)
	if err != nil {
		slog.Error("Invalid risk scorer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	defer wsHub.Close()

	// Initialize services
	analyzer := analysis.NewAnalyzer(registry, cfg.Models.Timeout())
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	assessmentSvc := service.NewAssessmentService(
		analyzer,
		scorer,
		service.NewRecommender(cfg.Recommender),
		assessmentRepo,
		behavioralRepo,
		history,
		wsHub,
	)
	userSvc := service.NewUserService(userRepo)
	healthSvc := service.NewHealthService(
		service.PingerFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }),
		cachePinger,
		registry,
	)

	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		AssessmentService: assessmentSvc,
		UserService:       userSvc,
		HealthService:     healthSvc,
		WSHub:             wsHub,
		AllowedOrigins:    cfg.AllowedOrigins,
		AuthRatePerMin:    cfg.AuthRatePerMin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", slog.String("addr", srv.Addr))
		slog.Info("Endpoints",
			slog.Any("public", []string{"GET /", "GET /health", "POST /auth/register", "POST /auth/login"}),
			slog.Any("bearer", []string{"POST /ai/risk-assessment", "POST /ai/analyze-text", "GET /user/profile", "GET /user/assessments"}),
			slog.String("ws", "GET /ws/assessments?token="))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("ListenAndServe failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("Server exited")
}
