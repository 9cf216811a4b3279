// The agent-runner command runs the agent execution service. It accepts
// dispatched events from the API service, runs the named agent against the
// configured model provider, and serves run status to pollers.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Fozan3060/ai-career-coach/internal/agents"
	"github.com/Fozan3060/ai-career-coach/internal/api"
	"github.com/Fozan3060/ai-career-coach/internal/config"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
	"github.com/Fozan3060/ai-career-coach/internal/metrics"
	"github.com/Fozan3060/ai-career-coach/internal/runner"

	"github.com/gin-gonic/gin"
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

	rdb, err := runner.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Error("Failed to connect to redis", logger.Error(err))
		return 1
	}
	defer func() { _ = rdb.Close() }()

	log.Info("Redis connected", logger.String("address", cfg.Redis.Address))

	provider, err := agents.NewProvider(context.Background(), &cfg.LLM)
	if err != nil {
		log.Error("Failed to create model provider", logger.Error(err))
		return 1
	}

	registry := runner.NewRegistry(rdb, cfg.Dispatch.RunTTL)
	executor := runner.NewExecutor(registry, provider, log)
	h := runner.NewHandler(registry, executor, log)
	m := metrics.New(cfg.Runner.Name)

	server := api.NewServer(&cfg.Runner, log, func(router *gin.Engine) {
		runner.SetupRoutes(router, h, cfg.Dispatch.SigningKey, m)
	})

	if err := server.Run(context.Background()); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Agent runner exited cleanly")
	return 0
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
		Development: cfg.Runner.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Runner.Name)), nil
}
