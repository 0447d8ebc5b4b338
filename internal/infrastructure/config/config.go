package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/smokestack/backend/internal/domain/pos"
)

// Config holds all application configuration
type Config struct {
	App   AppConfig
	Log   LogConfig
	HTTP  HTTPConfig
	POS   POSConfig
	Store StoreConfig
	Menu  MenuConfig
	Order OrderConfig
	Admin AdminConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// POSConfig holds point-of-sale integration settings. Sandbox and production
// carry separate endpoints and credentials; the resolved environment decides
// which pair a run uses, and the two are never mixed.
type POSConfig struct {
	// Environment explicitly selects "sandbox" or "production".
	// Empty falls back to the deployment mode (see ResolveEnvironment).
	Environment           string
	SandboxBaseURL        string
	SandboxAccessToken    string
	ProductionBaseURL     string
	ProductionAccessToken string
	TimeoutSeconds        int
}

// StoreConfig holds ID-mapping store settings
type StoreConfig struct {
	// Path is the SQLite database file holding the POS ID mappings
	Path string
}

// MenuConfig holds local catalog settings
type MenuConfig struct {
	// SnapshotPath is the JSON file with the authored menu catalog
	SnapshotPath string
}

// OrderConfig holds checkout settings
type OrderConfig struct {
	// TaxRate is the sales tax rate applied to subtotals (e.g. 0.08)
	TaxRate float64
}

// AdminConfig holds administrative trigger settings
type AdminConfig struct {
	// ExportToken gates the catalog export endpoint
	ExportToken string
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with SMOKESTACK_ prefix (e.g. SMOKESTACK_POS_ENVIRONMENT)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SMOKESTACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		POS: POSConfig{
			Environment:           v.GetString("pos.environment"),
			SandboxBaseURL:        v.GetString("pos.sandbox_base_url"),
			SandboxAccessToken:    v.GetString("pos.sandbox_access_token"),
			ProductionBaseURL:     v.GetString("pos.production_base_url"),
			ProductionAccessToken: v.GetString("pos.production_access_token"),
			TimeoutSeconds:        v.GetInt("pos.timeout_seconds"),
		},
		Store: StoreConfig{
			Path: v.GetString("store.path"),
		},
		Menu: MenuConfig{
			SnapshotPath: v.GetString("menu.snapshot_path"),
		},
		Order: OrderConfig{
			TaxRate: v.GetFloat64("order.tax_rate"),
		},
		Admin: AdminConfig{
			ExportToken: v.GetString("admin.export_token"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "smokestack-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	// NOTE: CORS origins are intentionally not defaulted to "*". An empty
	// list rejects all cross-origin requests until explicitly configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID", "X-Admin-Token"}
	}
	if cfg.POS.SandboxBaseURL == "" {
		cfg.POS.SandboxBaseURL = "https://sandbox.pos.example.com"
	}
	if cfg.POS.TimeoutSeconds == 0 {
		cfg.POS.TimeoutSeconds = 30
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "data/pos_mappings.db"
	}
	if cfg.Menu.SnapshotPath == "" {
		cfg.Menu.SnapshotPath = "data/menu.json"
	}
	if cfg.Order.TaxRate == 0 {
		cfg.Order.TaxRate = 0.08
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Order.TaxRate < 0 || c.Order.TaxRate >= 1 {
		return fmt.Errorf("order.tax_rate must be in [0, 1), got %f", c.Order.TaxRate)
	}
	if e := c.POS.Environment; e != "" && e != string(pos.EnvironmentSandbox) && e != string(pos.EnvironmentProduction) {
		return fmt.Errorf("pos.environment must be %q or %q, got %q",
			pos.EnvironmentSandbox, pos.EnvironmentProduction, e)
	}

	// Targeting the live POS requires everything to be explicit.
	if c.ResolveEnvironment() == pos.EnvironmentProduction {
		if c.POS.ProductionBaseURL == "" {
			return fmt.Errorf("pos.production_base_url is required when targeting production")
		}
		if c.POS.ProductionAccessToken == "" {
			return fmt.Errorf("pos.production_access_token is required when targeting production")
		}
	}

	if c.App.Env == "production" {
		if c.Admin.ExportToken == "" {
			return fmt.Errorf("admin.export_token is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("http.cors_allow_origins cannot be '*' in production")
			}
		}
	}
	return nil
}

// ResolveEnvironment selects the POS environment for this process. The
// default-to-sandbox policy lives in the domain layer; this just feeds it the
// runtime configuration.
func (c *Config) ResolveEnvironment() pos.Environment {
	return pos.ResolveEnvironment(c.POS.Environment, c.App.Env)
}

// POSBaseURL returns the base URL for the resolved environment
func (c *Config) POSBaseURL(env pos.Environment) string {
	if env == pos.EnvironmentProduction {
		return c.POS.ProductionBaseURL
	}
	return c.POS.SandboxBaseURL
}

// POSAccessToken returns the access token for the resolved environment
func (c *Config) POSAccessToken(env pos.Environment) string {
	if env == pos.EnvironmentProduction {
		return c.POS.ProductionAccessToken
	}
	return c.POS.SandboxAccessToken
}
