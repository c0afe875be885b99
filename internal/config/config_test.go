package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("RESIDENCY_MAX_USERS", "")
	t.Setenv("RESIDENCY_MAX_ADMINS", "")
	t.Setenv("PHOTO_MAX_BYTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Postgres.DSN)
	assert.Equal(t, SessionBackendMemory, cfg.Auth.SessionBackend)
	assert.Equal(t, 15, cfg.Residency.MaxUsers)
	assert.Equal(t, 15, cfg.Residency.MaxAdmins)
	assert.Equal(t, int64(5*1024*1024), cfg.Photos.MaxBytes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_BACKEND", "REDIS")
	t.Setenv("RESIDENCY_MAX_USERS", "3")
	t.Setenv("AUTH_SESSION_TTL_MINUTES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
	assert.Equal(t, SessionBackendRedis, cfg.Auth.SessionBackend)
	assert.Equal(t, 3, cfg.Residency.MaxUsers)
	assert.Equal(t, 5*time.Minute, cfg.Auth.SessionTTL())
}

func TestLoad_RejectsUnknownSessionBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "memcached")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsLimitsAboveCeiling(t *testing.T) {
	t.Setenv("RESIDENCY_MAX_USERS", "20")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("RESIDENCY_MAX_USERS", "")
	t.Setenv("RESIDENCY_MAX_ADMINS", "16")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate_AcceptsLoweredLimits(t *testing.T) {
	cfg := &Config{
		Auth:      AuthConfig{SessionBackend: SessionBackendMemory},
		Residency: ResidencyConfig{MaxUsers: 3, MaxAdmins: MaxResidencyMembers},
		Photos:    PhotoConfig{MaxBytes: 1},
	}
	assert.NoError(t, cfg.Validate())
}
