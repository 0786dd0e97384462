package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Negibkaya/Mias-sema/config"
	_ "github.com/Negibkaya/Mias-sema/docs" // Important for Swagger
	v1 "github.com/Negibkaya/Mias-sema/internal/delivery/http/v1"
	"github.com/Negibkaya/Mias-sema/internal/repository/postgres"
	"github.com/Negibkaya/Mias-sema/internal/repository/redisrepo"
	"github.com/Negibkaya/Mias-sema/internal/scoring"
	"github.com/Negibkaya/Mias-sema/internal/usecase"
	"github.com/Negibkaya/Mias-sema/pkg/database"
	"github.com/Negibkaya/Mias-sema/pkg/logger"
	"github.com/Negibkaya/Mias-sema/pkg/redis"
	"github.com/Negibkaya/Mias-sema/pkg/telegram"

	"github.com/go-playground/validator/v10"
)

// @title           Team Matching API
// @version         1.0
// @description     Backend for AI-assisted team matching.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Debug)
	logger.Log.Info("Starting team matching backend", "port", cfg.Port, "scoring_provider", cfg.ScoringProvider)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Log.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	userRepo := postgres.NewUserRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)
	llmRepo := postgres.NewLLMRequestRepository(dbPool)
	codeStore := redisrepo.NewLoginCodeStore(redisClient)

	scorer, err := newScorer(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to configure scoring backend", "error", err)
		os.Exit(1)
	}

	notifier := telegram.NewNotifier(cfg.TGServiceURL)
	if !notifier.IsConfigured() {
		logger.Log.Warn("Telegram notifier not configured - member notifications disabled")
	}

	validate := validator.New()
	authUC := usecase.NewAuthUsecase(userRepo, codeStore, cfg.JWTSecret, time.Duration(cfg.JWTExpireMinutes)*time.Minute)
	userUC := usecase.NewUserUsecase(userRepo)
	projectUC := usecase.NewProjectUsecase(projectRepo, userRepo, notifier, validate, logger.Log)
	matchUC := usecase.NewMatchUsecase(projectRepo, userRepo, llmRepo, scorer, logger.Log)

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		ProjectUC: projectUC,
		MatchUC:   matchUC,
		Config:    cfg,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	logger.Log.Info("Server exited")
}

// newScorer builds the configured scoring backend. The provider is a
// deployment decision; nothing downstream branches on it.
func newScorer(ctx context.Context, cfg *config.Config) (*scoring.Scorer, error) {
	timeout := time.Duration(cfg.ScoringTimeoutSeconds) * time.Second

	switch cfg.ScoringProvider {
	case config.ProviderOpenRouter:
		gen, err := scoring.NewOpenRouterGenerator(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
		if err != nil {
			return nil, err
		}
		return scoring.NewScorer(gen, timeout, logger.Log), nil
	case config.ProviderGemini:
		gen, err := scoring.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return scoring.NewScorer(gen, timeout, logger.Log), nil
	default:
		return nil, fmt.Errorf("unknown scoring provider %q", cfg.ScoringProvider)
	}
}
