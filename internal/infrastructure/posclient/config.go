package posclient

import (
	"errors"

	"github.com/smokestack/backend/internal/domain/pos"
)

// Config holds configuration for the POS HTTP API. One Config targets
// exactly one environment; the base URL and token are for that environment
// only, so credentials cannot cross between sandbox and production.
type Config struct {
	// Environment is the POS target this config is for
	Environment pos.Environment
	// BaseURL is the API endpoint for the environment
	BaseURL string
	// AccessToken is the bearer token for API authorization
	AccessToken string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for POS client configuration
var (
	ErrConfigInvalidEnvironment = errors.New("posclient: invalid environment")
	ErrConfigMissingBaseURL     = errors.New("posclient: base URL is required")
	ErrConfigMissingAccessToken = errors.New("posclient: access token is required")
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if !c.Environment.IsValid() {
		return ErrConfigInvalidEnvironment
	}
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.AccessToken == "" {
		return ErrConfigMissingAccessToken
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
