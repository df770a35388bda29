package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-simpler.org/env"
)

// Defaults for the frontend/backend pairing.
const (
	DefaultBackendURL  = "http://localhost:3000"
	DefaultFrontendURL = "http://localhost:5173"
	DefaultJWTTTL      = 60 * time.Minute
)

// Config holds runtime configuration for the backend, sourced from env vars.
type Config struct {
	Port        string        `env:"PORT" default:"3000"`
	DatabaseURL string        `env:"DATABASE_URL" default:"authflow.db"`
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER" default:"authflow-backend"`
	JWTTTL      time.Duration
	FrontendURL string        `env:"FRONTEND_URL" default:"http://localhost:5173"`
	LogLevel    string        `env:"LOG_LEVEL" default:"info"`
	LogFormat   string        `env:"LOG_FORMAT" default:"text"`

	// Raw JWT_TTL_MINUTES; invalid or non-positive values fall back to DefaultJWTTTL.
	JWTTTLMinutes string `env:"JWT_TTL_MINUTES" default:"60"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg.Port = fallback(cfg.Port, "3000")
	cfg.DatabaseURL = fallback(cfg.DatabaseURL, "authflow.db")
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.JWTIssuer = fallback(cfg.JWTIssuer, "authflow-backend")
	cfg.FrontendURL = strings.TrimRight(fallback(cfg.FrontendURL, DefaultFrontendURL), "/")
	cfg.LogLevel = fallback(cfg.LogLevel, "info")
	cfg.LogFormat = fallback(cfg.LogFormat, "text")

	cfg.JWTTTL = DefaultJWTTTL
	if ttlMinutes, err := strconv.Atoi(strings.TrimSpace(cfg.JWTTTLMinutes)); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// ClientConfig holds settings for the session client.
type ClientConfig struct {
	BackendURL     string        `env:"BACKEND_URL" default:"http://localhost:3000"`
	SessionDB      string        `env:"SESSION_DB"`
	RequestTimeout time.Duration
	LogLevel       string        `env:"LOG_LEVEL" default:"warn"`
	LogFormat      string        `env:"LOG_FORMAT" default:"text"`

	// Raw REQUEST_TIMEOUT as a Go duration; invalid values fall back to 10s.
	RequestTimeoutRaw string `env:"REQUEST_TIMEOUT" default:"10s"`
}

// LoadClient reads client configuration from the environment. Every field has a default.
func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Load(&cfg, nil); err != nil {
		return ClientConfig{}, fmt.Errorf("load environment: %w", err)
	}

	cfg.BackendURL = strings.TrimRight(fallback(cfg.BackendURL, DefaultBackendURL), "/")
	cfg.SessionDB = fallback(cfg.SessionDB, defaultSessionDB())
	cfg.LogLevel = fallback(cfg.LogLevel, "warn")
	cfg.LogFormat = fallback(cfg.LogFormat, "text")

	cfg.RequestTimeout = 10 * time.Second
	if d, err := time.ParseDuration(strings.TrimSpace(cfg.RequestTimeoutRaw)); err == nil && d > 0 {
		cfg.RequestTimeout = d
	}

	return cfg, nil
}

func defaultSessionDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.db"
	}
	return filepath.Join(dir, "authflow", "session.db")
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
