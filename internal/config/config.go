package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Values come from BACKOFFICE_*
// environment variables, falling back to an optional YAML file, falling back
// to built-in development defaults.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Server   ServerConfig   `yaml:"server"`
	Slack    SlackConfig    `yaml:"slack"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"` //nolint:gosec // G117: DB connection config
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"maxConns"`
}

// RedisConfig holds Redis connection settings. The live admin-log feed is
// only served when Redis is enabled.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"` //nolint:gosec // G117: Redis connection config
	DB       int    `yaml:"db"`
}

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret     string        `yaml:"secret"` //nolint:gosec // G117: JWT signing secret config
	AccessTTL  time.Duration `yaml:"accessTTL"`
	RefreshTTL time.Duration `yaml:"refreshTTL"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	PublicURL       string        `yaml:"publicURL"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	CORSOrigins     []string      `yaml:"corsOrigins"`
	RateLimit       RateLimit     `yaml:"rateLimit"`
}

// RateLimit holds token bucket settings for the public and authenticated APIs.
type RateLimit struct {
	PublicRPS   float64 `yaml:"publicRPS"`
	PublicBurst int     `yaml:"publicBurst"`
	UserRPS     float64 `yaml:"userRPS"`
	UserBurst   int     `yaml:"userBurst"`
}

// SlackConfig holds escalation alert settings. Alerts are disabled when the
// bot token is empty.
type SlackConfig struct {
	BotToken  string `yaml:"botToken"`
	ChannelID string `yaml:"channelID"`
}

// Enabled reports whether escalation alerts should be sent.
func (c SlackConfig) Enabled() bool {
	return c.BotToken != "" && c.ChannelID != ""
}

// LogConfig holds zerolog settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the built-in configuration. It is safe for local
// development only: the JWT secret is intentionally empty.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "backoffice",
			DBName:   "backoffice_dev",
			SSLMode:  "disable",
			MaxConns: 25,
		},
		Redis: RedisConfig{
			Enabled: true,
			Addr:    "localhost:6379",
		},
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{"http://localhost:5173"},
			RateLimit: RateLimit{
				PublicRPS:   5,
				PublicBurst: 10,
				UserRPS:     50,
				UserBurst:   100,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration. A .env file in the working directory is loaded
// first when present; it never overrides variables already set. path names an
// optional YAML file whose values replace the built-in defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: .env: %w", err)
	}

	base := Defaults()
	if path != "" {
		if err := readFile(path, &base); err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	}

	cfg, err := fromEnv(base)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

func readFile(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// fromEnv overlays BACKOFFICE_* variables on base.
func fromEnv(base Config) (*Config, error) {
	var err error
	cfg := base

	if cfg.Database.Port, err = getEnvInt("BACKOFFICE_DB_PORT", base.Database.Port); err != nil {
		return nil, err
	}
	if cfg.Database.MaxConns, err = getEnvInt("BACKOFFICE_DB_MAX_CONNS", base.Database.MaxConns); err != nil {
		return nil, err
	}
	if cfg.Redis.Enabled, err = getEnvBool("BACKOFFICE_REDIS_ENABLED", base.Redis.Enabled); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getEnvInt("BACKOFFICE_REDIS_DB", base.Redis.DB); err != nil {
		return nil, err
	}
	if cfg.JWT.AccessTTL, err = getEnvDuration("BACKOFFICE_JWT_ACCESS_TTL", base.JWT.AccessTTL); err != nil {
		return nil, err
	}
	if cfg.JWT.RefreshTTL, err = getEnvDuration("BACKOFFICE_JWT_REFRESH_TTL", base.JWT.RefreshTTL); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = getEnvDuration("BACKOFFICE_SERVER_READ_TIMEOUT", base.Server.ReadTimeout); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getEnvDuration("BACKOFFICE_SERVER_WRITE_TIMEOUT", base.Server.WriteTimeout); err != nil {
		return nil, err
	}
	if cfg.Server.ShutdownTimeout, err = getEnvDuration("BACKOFFICE_SERVER_SHUTDOWN_TIMEOUT", base.Server.ShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.Server.RateLimit.PublicRPS, err = getEnvFloat("BACKOFFICE_RATE_PUBLIC_RPS", base.Server.RateLimit.PublicRPS); err != nil {
		return nil, err
	}
	if cfg.Server.RateLimit.PublicBurst, err = getEnvInt("BACKOFFICE_RATE_PUBLIC_BURST", base.Server.RateLimit.PublicBurst); err != nil {
		return nil, err
	}
	if cfg.Server.RateLimit.UserRPS, err = getEnvFloat("BACKOFFICE_RATE_USER_RPS", base.Server.RateLimit.UserRPS); err != nil {
		return nil, err
	}
	if cfg.Server.RateLimit.UserBurst, err = getEnvInt("BACKOFFICE_RATE_USER_BURST", base.Server.RateLimit.UserBurst); err != nil {
		return nil, err
	}

	cfg.Database.Host = getEnv("BACKOFFICE_DB_HOST", base.Database.Host)
	cfg.Database.User = getEnv("BACKOFFICE_DB_USER", base.Database.User)
	cfg.Database.Password = getEnv("BACKOFFICE_DB_PASSWORD", base.Database.Password)
	cfg.Database.DBName = getEnv("BACKOFFICE_DB_NAME", base.Database.DBName)
	cfg.Database.SSLMode = getEnv("BACKOFFICE_DB_SSLMODE", base.Database.SSLMode)
	cfg.Redis.Addr = getEnv("BACKOFFICE_REDIS_ADDR", base.Redis.Addr)
	cfg.Redis.Password = getEnv("BACKOFFICE_REDIS_PASSWORD", base.Redis.Password)
	cfg.JWT.Secret = getEnv("BACKOFFICE_JWT_SECRET", base.JWT.Secret)
	cfg.Server.Addr = getEnv("BACKOFFICE_SERVER_ADDR", base.Server.Addr)
	cfg.Server.PublicURL = getEnv("BACKOFFICE_PUBLIC_URL", base.Server.PublicURL)
	cfg.Server.CORSOrigins = getEnvList("BACKOFFICE_CORS_ORIGINS", base.Server.CORSOrigins)
	cfg.Slack.BotToken = getEnv("BACKOFFICE_SLACK_BOT_TOKEN", base.Slack.BotToken)
	cfg.Slack.ChannelID = getEnv("BACKOFFICE_SLACK_CHANNEL", base.Slack.ChannelID)
	cfg.Log.Level = getEnv("BACKOFFICE_LOG_LEVEL", base.Log.Level)
	cfg.Log.Format = getEnv("BACKOFFICE_LOG_FORMAT", base.Log.Format)

	return &cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("BACKOFFICE_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("BACKOFFICE_JWT_SECRET must be at least 32 characters")
	}

	if c.Database.SSLMode == "disable" {
		log.Warn().Msg("BACKOFFICE_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("BACKOFFICE_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("BACKOFFICE_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("BACKOFFICE_JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("BACKOFFICE_JWT_REFRESH_TTL must be positive, got %s", c.JWT.RefreshTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("BACKOFFICE_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("BACKOFFICE_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("BACKOFFICE_SERVER_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.Server.RateLimit.PublicRPS <= 0 || c.Server.RateLimit.PublicBurst < 1 {
		return errors.New("BACKOFFICE_RATE_PUBLIC_RPS and BACKOFFICE_RATE_PUBLIC_BURST must be positive")
	}
	if c.Server.RateLimit.UserRPS <= 0 || c.Server.RateLimit.UserBurst < 1 {
		return errors.New("BACKOFFICE_RATE_USER_RPS and BACKOFFICE_RATE_USER_BURST must be positive")
	}
	if c.Slack.BotToken != "" && c.Slack.ChannelID == "" {
		return errors.New("BACKOFFICE_SLACK_CHANNEL is required when BACKOFFICE_SLACK_BOT_TOKEN is set")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("BACKOFFICE_LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
