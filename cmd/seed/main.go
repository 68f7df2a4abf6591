package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"eunoia/internal/analysis"
	"eunoia/internal/config"
	"eunoia/internal/logging"
	"eunoia/internal/model"
	"eunoia/internal/repository"
	"eunoia/internal/service"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	demoEmail    = "demo@eunoia.local"
	demoPassword = "demo-password"
)

func main() {
	config.LoadEnv(config.AppEnv())
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		slog.Error("Failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.DBName)
	userRepo := repository.NewUserRepo(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		slog.Error("Failed to create indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	token, err := authSvc.Register(ctx, &model.RegisterRequest{
		FirstName: "Demo",
		LastName:  "User",
		Email:     demoEmail,
		Password:  demoPassword,
		Location:  "Nowhere",
		Age:       28,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		token, err = authSvc.Login(ctx, &model.LoginRequest{Email: demoEmail, Password: demoPassword})
	}
	if err != nil {
		slog.Error("Failed to create demo user", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Lexical analysis only, the seed must not depend on model downloads
	analyzer := analysis.NewAnalyzer(analysis.NewRegistry(nil, nil), 0)
	assessmentSvc := service.NewAssessmentService(
		analyzer,
		analysis.NewWeightedScorer(analysis.DefaultWeights()),
		service.RuleRecommender{},
		repository.NewAssessmentRepo(db),
		repository.NewBehavioralRepo(db),
		nil,
		nil,
	)

	sleep, activity, mood, stress := 6.0, 2, 3, 4
	assessment, err := assessmentSvc.Assess(ctx, &model.BehavioralDataRequest{
		UserID: token.UserID,
		SocialMediaPosts: []string{
			"Long week, feeling a bit worried about deadlines",
			"Went for a walk with friends, that helped",
		},
		SleepHours:    &sleep,
		ActivityLevel: &activity,
		MoodRating:    &mood,
		StressLevel:   &stress,
	})
	if err != nil {
		slog.Error("Failed to create sample assessment", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Demo user %s (password %q), id %s\n", demoEmail, demoPassword, token.UserID)
	fmt.Printf("Sample assessment %s: %.2f %s\n", assessment.ID, assessment.RiskScore, assessment.RiskLevel)
	fmt.Printf("Bearer token: %s\n", token.AccessToken)
}
