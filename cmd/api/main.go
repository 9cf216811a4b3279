// The api command runs the career coach API service: feature endpoints,
// usage metering, history, and stats.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/Fozan3060/ai-career-coach/internal/agentrun"
	"github.com/Fozan3060/ai-career-coach/internal/api"
	"github.com/Fozan3060/ai-career-coach/internal/config"
	"github.com/Fozan3060/ai-career-coach/internal/database"
	"github.com/Fozan3060/ai-career-coach/internal/handler"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
	"github.com/Fozan3060/ai-career-coach/internal/metrics"
	"github.com/Fozan3060/ai-career-coach/internal/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.API.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.API.Name)), nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sql.DB) int {
	m := metrics.New(cfg.API.Name)

	dispatcher := agentrun.Instrument(agentrun.NewClient(agentrun.Options{
		Host:         cfg.Dispatch.Host,
		SigningKey:   cfg.Dispatch.SigningKey,
		PollInterval: cfg.Dispatch.PollInterval,
		MaxAttempts:  cfg.Dispatch.MaxAttempts,
	}, log), m)

	historyRepo := database.NewHistoryRepository(db)
	usageRepo := database.NewUsageRepository(db)
	userRepo := database.NewUserRepository(db)
	statsRepo := database.NewStatsRepository(db)

	uploader, err := createUploader(cfg, log)
	if err != nil {
		log.Error("Failed to create object storage client", logger.Error(err))
		return 1
	}

	handlers := &api.Handlers{
		Chat:        handler.NewChatHandler(dispatcher, log),
		Resume:      handler.NewResumeHandler(dispatcher, historyRepo, uploader, nil, log),
		Roadmap:     handler.NewRoadmapHandler(dispatcher, historyRepo, log),
		CoverLetter: handler.NewCoverLetterHandler(dispatcher, historyRepo, log),
		Usage:       handler.NewUsageHandler(usageRepo, cfg.Usage.FreeTierLimit, m, log),
		History:     handler.NewHistoryHandler(historyRepo, log),
		Stats:       handler.NewStatsHandler(statsRepo, log),
		User:        handler.NewUserHandler(userRepo, log),
		Health:      handler.NewHealthHandler(db),
	}

	server := api.NewServer(&cfg.API, log, func(router *gin.Engine) {
		api.SetupRoutes(router, handlers, cfg.Auth.JWTSecret, m)
	})

	if err := server.Run(context.Background()); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("API service exited cleanly")
	return 0
}

// createUploader builds the resume object store, or returns nil when storage
// is disabled.
func createUploader(cfg *config.Config, log logger.Logger) (storage.Uploader, error) {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled, resume files will not be retained")
		return nil, nil
	}
	return storage.NewS3Uploader(context.Background(), &cfg.Storage)
}
