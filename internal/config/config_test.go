package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("JWT_TTL_MINUTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.HTTPAddress())
	assert.Equal(t, "authflow.db", cfg.DatabaseURL)
	assert.Equal(t, DefaultFrontendURL, cfg.FrontendURL)
	assert.Equal(t, "authflow-backend", cfg.JWTIssuer)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "  s3cret  ")
	t.Setenv("PORT", "8081")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("JWT_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, ":8081", cfg.HTTPAddress())
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
}

func TestLoad_InvalidTTLFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_MINUTES", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", " ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadClient(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("SESSION_DB", "/tmp/session.db")
	t.Setenv("REQUEST_TIMEOUT", "")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
	assert.Equal(t, "/tmp/session.db", cfg.SessionDB)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)

	t.Setenv("BACKEND_URL", "http://api.local:9000/")
	t.Setenv("REQUEST_TIMEOUT", "2s")

	cfg, err = LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://api.local:9000", cfg.BackendURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestLoad_UnsetUsesTagDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	for _, name := range []string{"PORT", "DATABASE_URL", "JWT_ISSUER", "FRONTEND_URL", "LOG_LEVEL", "LOG_FORMAT", "JWT_TTL_MINUTES"} {
		unsetenv(t, name)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "authflow.db", cfg.DatabaseURL)
	assert.Equal(t, "authflow-backend", cfg.JWTIssuer)
	assert.Equal(t, DefaultFrontendURL, cfg.FrontendURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultJWTTTL, cfg.JWTTTL)
}

func TestLoadClient_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	unsetenv(t, "BACKEND_URL")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
}

// unsetenv removes name for the duration of the test.
func unsetenv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "")
	require.NoError(t, os.Unsetenv(name))
}
