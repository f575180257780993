package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Slot     SlotConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name            string
	Version         string
	Port            int
	Env             string
	LogLevel        string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// SlotConfig fixes the civil timezone and the loggable part of the day
type SlotConfig struct {
	Timezone   string
	WorkWindow slot.Window
}

// fileConfig is the optional YAML overlay read from ACTIVITY_CONFIG_PATH.
type fileConfig struct {
	App struct {
		Name        string   `yaml:"name"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"app"`
	Slot struct {
		Timezone   string `yaml:"timezone"`
		WorkWindow string `yaml:"work_window"`
	} `yaml:"slot"`
}

// Load builds the configuration from defaults, then the YAML overlay, then the
// environment (including a .env file when present). Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{
		App: AppConfig{
			Name:        "hris-activity",
			Version:     "v1.0.0",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Slot: SlotConfig{
			Timezone:   "Africa/Lagos",
			WorkWindow: slot.DefaultWindow,
		},
	}

	if path := os.Getenv("ACTIVITY_CONFIG_PATH"); path != "" {
		if err := config.applyFile(path); err != nil {
			return nil, err
		}
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_activity"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	config.App.Name = getEnv("APP_NAME", config.App.Name)
	config.App.Port = appPort
	config.App.Env = getEnv("APP_ENV", "development")
	config.App.LogLevel = getEnv("LOG_LEVEL", "info")
	config.App.ShutdownTimeout = shutdownTimeout
	if origins := getEnvSlice("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		config.App.CORSOrigins = origins
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Slot.Timezone = getEnv("ACTIVITY_TIMEZONE", config.Slot.Timezone)
	if raw := os.Getenv("ACTIVITY_WORK_WINDOW"); raw != "" {
		w, err := slot.ParseWindow(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ACTIVITY_WORK_WINDOW %q: %w", raw, err)
		}
		config.Slot.WorkWindow = w
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.App.Name != "" {
		c.App.Name = fc.App.Name
	}
	if len(fc.App.CORSOrigins) > 0 {
		c.App.CORSOrigins = fc.App.CORSOrigins
	}
	if fc.Slot.Timezone != "" {
		c.Slot.Timezone = fc.Slot.Timezone
	}
	if fc.Slot.WorkWindow != "" {
		w, err := slot.ParseWindow(fc.Slot.WorkWindow)
		if err != nil {
			return fmt.Errorf("config file %s: work_window %q: %w", path, fc.Slot.WorkWindow, err)
		}
		c.Slot.WorkWindow = w
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.Slot.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Slot.Timezone, err)
	}
	if err := c.Slot.WorkWindow.Validate(); err != nil {
		return err
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("invalid pool size: min %d, max %d", c.Database.MinConns, c.Database.MaxConns)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return nil
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
