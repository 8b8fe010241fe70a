package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProductionConfig() *Config {
	return &Config{
		JWTSecret:  strings.Repeat("s", 40),
		Port:       "8460",
		DBPassword: "a-real-password",
		DBSSLMode:  "require",
		Env:        "production",
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid production config", func(t *testing.T) {
		assert.NoError(t, validProductionConfig().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("default jwt secret rejected in production", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("short jwt secret rejected in production", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.JWTSecret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("default db password rejected in production", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())
	})

	t.Run("development tolerates weak values", func(t *testing.T) {
		cfg := &Config{
			JWTSecret:  "dev-secret",
			Port:       "8460",
			DBPassword: "password",
			Env:        "development",
		}
		assert.NoError(t, cfg.Validate())
	})
}
