package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORE_DRIVER", "JWT_ACCESS_TTL", "JWT_REFRESH_TTL", "AUTH_COOKIE_MAX_AGE",
		"BCRYPT_COST", "STORAGE_DIR", "BACKEND_SERVER_PATH", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":5000", cfg.Server.Addr())
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "30m", cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "60m", cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, "24h", cfg.Auth.CookieMaxAge)
	assert.Equal(t, "10", cfg.Auth.BcryptCost)
	assert.Equal(t, "/", cfg.Auth.CookiePath)
	assert.Equal(t, "storage", cfg.Storage.Dir)
	assert.Equal(t, "http://localhost:5000", cfg.Storage.PublicURL)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test, ,http://b.test ")
	t.Setenv("BACKEND_SERVER_PATH", "https://api.example.com/")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, "access", cfg.Auth.AccessTokenSecret)
	assert.Equal(t, "refresh", cfg.Auth.RefreshTokenSecret)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "https://api.example.com", cfg.Storage.PublicURL)
}
