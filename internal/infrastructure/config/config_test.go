package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 15*time.Minute, cfg.AuthCodeDuration)
		assert.Equal(t, 2*time.Hour, cfg.AccessTokenDuration)
		assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenDuration)
		assert.Equal(t, 8080, cfg.ServerPort)
	})

	t.Run("overrides from environment", func(t *testing.T) {
		t.Setenv("OAUTH_CODE_DURATION", "5m")
		t.Setenv("OAUTH_ACCESS_TOKEN_DURATION", "30m")
		t.Setenv("OAUTH_REFRESH_TOKEN_DURATION", "48h")
		t.Setenv("AUTH_CLIENT_URL", "https://login.example.com")
		t.Setenv("PORT", "9090")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 5*time.Minute, cfg.AuthCodeDuration)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenDuration)
		assert.Equal(t, 48*time.Hour, cfg.RefreshTokenDuration)
		assert.Equal(t, "https://login.example.com", cfg.AuthClientURL)
		assert.Equal(t, 9090, cfg.ServerPort)
	})

	t.Run("invalid db port", func(t *testing.T) {
		t.Setenv("DB_PORT", "invalid")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Setenv("OAUTH_ACCESS_TOKEN_DURATION", "invalid")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
