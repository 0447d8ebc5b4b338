package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smokestack/backend/internal/domain/pos"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "smokestack-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "data/pos_mappings.db", cfg.Store.Path)
	assert.Equal(t, "data/menu.json", cfg.Menu.SnapshotPath)
	assert.InDelta(t, 0.08, cfg.Order.TaxRate, 1e-9)
	// CORS origins stay empty until explicitly configured.
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("tax rate out of range", func(t *testing.T) {
		cfg := base()
		cfg.Order.TaxRate = 1.5
		assert.Error(t, cfg.validate())
	})

	t.Run("unknown pos environment", func(t *testing.T) {
		cfg := base()
		cfg.POS.Environment = "staging"
		assert.Error(t, cfg.validate())
	})

	t.Run("production target requires URL and token", func(t *testing.T) {
		cfg := base()
		cfg.POS.Environment = "production"
		assert.Error(t, cfg.validate())

		cfg.POS.ProductionBaseURL = "https://pos.example.com"
		assert.Error(t, cfg.validate())

		cfg.POS.ProductionAccessToken = "secret"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production deployment requires admin token", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.POS.Environment = "sandbox"
		cfg.POS.SandboxAccessToken = "sbx"
		assert.Error(t, cfg.validate())

		cfg.Admin.ExportToken = "admin-secret"
		assert.NoError(t, cfg.validate())
	})

	t.Run("wildcard CORS rejected in production", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.POS.Environment = "sandbox"
		cfg.Admin.ExportToken = "admin-secret"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())

		cfg.HTTP.CORSAllowOrigins = []string{"https://order.example.com"}
		assert.NoError(t, cfg.validate())
	})
}

func TestResolveEnvironmentAndCredentials(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.POS.SandboxAccessToken = "sbx-token"
	cfg.POS.ProductionBaseURL = "https://pos.example.com"
	cfg.POS.ProductionAccessToken = "prd-token"

	assert.Equal(t, pos.EnvironmentSandbox, cfg.ResolveEnvironment())
	assert.Equal(t, cfg.POS.SandboxBaseURL, cfg.POSBaseURL(pos.EnvironmentSandbox))
	assert.Equal(t, "sbx-token", cfg.POSAccessToken(pos.EnvironmentSandbox))

	cfg.POS.Environment = "production"
	assert.Equal(t, pos.EnvironmentProduction, cfg.ResolveEnvironment())
	assert.Equal(t, "https://pos.example.com", cfg.POSBaseURL(pos.EnvironmentProduction))
	assert.Equal(t, "prd-token", cfg.POSAccessToken(pos.EnvironmentProduction))
}
