package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("SWAGGER_ENABLED", "false")
	t.Setenv("FRONTEND_URL", "http://localhost:5173/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5, cfg.StoreTimeoutSeconds)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout())
	assert.False(t, cfg.SwaggerEnabled)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	assert.Equal(t, "jobboard.events", cfg.EventsQueue)
}

func TestDurations(t *testing.T) {
	cfg := &Config{StoreTimeoutSeconds: 2, AccessTokenTTLMinutes: 0}
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout())
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL())

	cfg.AccessTokenTTLMinutes = 15
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
}

func TestFailedLoginWindowIsIndependent(t *testing.T) {
	t.Setenv("FAILED_LOGIN_WINDOW_MINUTES", "5")
	t.Setenv("FAILED_LOGIN_BLOCK_MINUTES", "60")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.FailedLoginWindow())
	assert.Equal(t, time.Hour, cfg.FailedLoginBlock())
}

func TestAdminRegistrationDefaultsOffInProduction(t *testing.T) {
	t.Setenv("SERVICE_ENV", "production")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.AllowAdminRegistration)

	t.Setenv("ALLOW_ADMIN_REGISTRATION", "true")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.AllowAdminRegistration)

	t.Setenv("SERVICE_ENV", "development")
	t.Setenv("ALLOW_ADMIN_REGISTRATION", "")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.AllowAdminRegistration)
}
