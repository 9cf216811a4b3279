// Package config loads the application configuration from a YAML file with
// environment variable overrides. A single Config serves the API service, the
// agent runner, and the migrate tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultAPIName       = "career-coach-api"
	defaultAPIPort       = 8080
	defaultRunnerName    = "agent-runner"
	defaultRunnerPort    = 8288
	defaultVersion       = "0.1.0"
	defaultLoggingLevel  = "info"
	defaultDBHost        = "localhost"
	defaultDBPort        = 5432
	defaultDBName        = "career_coach"
	defaultDBUser        = "postgres"
	defaultDBSSLMode     = "disable"
	defaultRedisAddress  = "localhost:6379"
	defaultFreeTierLimit = 3
	defaultPollAttempts  = 60
	defaultRunTTLMinutes = 60
	defaultLLMProvider   = "gemini"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// defaultPollInterval is the delay between run status queries.
const defaultPollInterval = 500 * time.Millisecond

// Config holds the application configuration.
type Config struct {
	API      ServiceConfig  `yaml:"api"`
	Runner   ServiceConfig  `yaml:"runner"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	LLM      LLMConfig      `yaml:"llm"`
	Storage  StorageConfig  `yaml:"storage"`
	Usage    UsageConfig    `yaml:"usage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds per-service HTTP settings.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `yaml:"port"`
	Debug   bool   `yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// MigrateURL returns the URL form of the DSN used by golang-migrate.
func (d *DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// RedisConfig holds the run-registry Redis settings.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AuthConfig holds JWT session validation settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// DispatchConfig holds the settings the API service uses to reach the agent
// runner and to poll dispatched runs.
type DispatchConfig struct {
	Host         string        `yaml:"host"`
	SigningKey   string        `yaml:"signing_key"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxAttempts  int           `yaml:"max_attempts"`
	RunTTL       time.Duration `yaml:"run_ttl"`
}

// LLMConfig selects and configures the model provider.
type LLMConfig struct {
	Provider        string `yaml:"provider"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	GeminiModel     string `yaml:"gemini_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`
}

// StorageConfig holds S3-compatible object storage settings for uploaded
// resume files. Endpoint is optional; when set it points at an R2/minio-style
// host instead of AWS.
type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PublicURL string `yaml:"public_url"`
}

// UsageConfig holds metering settings.
type UsageConfig struct {
	FreeTierLimit int `yaml:"free_tier_limit"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML config at path, applies defaults, then applies
// environment variable overrides (a .env file is loaded first if present).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// GetConfigPath returns the config path from CONFIG_PATH or the default.
func GetConfigPath(defaultPath string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultPath
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.API, defaultAPIName, defaultAPIPort)
	setServiceDefaults(&cfg.Runner, defaultRunnerName, defaultRunnerPort)
	setDatabaseDefaults(&cfg.Database)
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	setDispatchDefaults(&cfg.Dispatch)
	setLLMDefaults(&cfg.LLM)
	if cfg.Usage.FreeTierLimit == 0 {
		cfg.Usage.FreeTierLimit = defaultFreeTierLimit
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLoggingLevel
	}
}

func setServiceDefaults(svc *ServiceConfig, name string, port int) {
	if svc.Name == "" {
		svc.Name = name
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = port
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

func setDispatchDefaults(d *DispatchConfig) {
	if d.Host == "" {
		d.Host = fmt.Sprintf("http://localhost:%d", defaultRunnerPort)
	}
	if d.PollInterval == 0 {
		d.PollInterval = defaultPollInterval
	}
	if d.MaxAttempts == 0 {
		d.MaxAttempts = defaultPollAttempts
	}
	if d.RunTTL == 0 {
		d.RunTTL = defaultRunTTLMinutes * time.Minute
	}
}

func setLLMDefaults(l *LLMConfig) {
	if l.Provider == "" {
		l.Provider = defaultLLMProvider
	}
	if l.GeminiModel == "" {
		l.GeminiModel = defaultGeminiModel
	}
}

// applyEnvOverrides applies environment variables on top of file values.
// Env always wins so deployments can keep secrets out of config.yml.
func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Database.Host, "POSTGRES_HOST")
	overrideInt(&cfg.Database.Port, "POSTGRES_PORT")
	overrideString(&cfg.Database.User, "POSTGRES_USER")
	overrideString(&cfg.Database.Password, "POSTGRES_PASSWORD")
	overrideString(&cfg.Database.Database, "POSTGRES_DB")
	overrideString(&cfg.Database.SSLMode, "POSTGRES_SSLMODE")

	overrideString(&cfg.Redis.Address, "REDIS_ADDRESS")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideInt(&cfg.Redis.DB, "REDIS_DB")

	overrideString(&cfg.Auth.JWTSecret, "JWT_SECRET")

	overrideString(&cfg.Dispatch.Host, "AGENT_RUNNER_HOST")
	overrideString(&cfg.Dispatch.SigningKey, "AGENT_RUNNER_SIGNING_KEY")

	overrideString(&cfg.LLM.Provider, "LLM_PROVIDER")
	overrideString(&cfg.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	overrideString(&cfg.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")

	overrideString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	overrideString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	overrideString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	overrideString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")

	overrideInt(&cfg.API.Port, "API_PORT")
	overrideInt(&cfg.Runner.Port, "AGENT_RUNNER_PORT")
	overrideBool(&cfg.API.Debug, "APP_DEBUG")
	overrideString(&cfg.Logging.Level, "LOG_LEVEL")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "true" || v == "1" || v == "yes"
	}
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if c.Runner.Port <= 0 || c.Runner.Port > 65535 {
		return fmt.Errorf("runner.port %d out of range", c.Runner.Port)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Dispatch.SigningKey == "" {
		return errors.New("dispatch.signing_key is required")
	}
	return nil
}
