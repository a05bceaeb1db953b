package config

import (
	"fmt"
	"os"
	"slices"
)

// applyFallbacks fills in values that viper's AutomaticEnv cannot map
// cleanly, such as well-known provider environment variables.
func (c *Config) applyFallbacks() {
	if c.AI.APIKey == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			c.AI.APIKey = key
		}
	}
	if c.Vault.Token == "" {
		if token := os.Getenv("VAULT_TOKEN"); token != "" {
			c.Vault.Token = token
		}
	}
	if c.Vault.Address == "" {
		if addr := os.Getenv("VAULT_ADDR"); addr != "" {
			c.Vault.Address = addr
		}
	}
}

// Validate checks the configuration for internal consistency. It does not
// require an API key to be present; that is enforced lazily when the
// generative provider is constructed, so purely deterministic commands
// keep working without one.
func (c *Config) Validate() error {
	if c.AI.Provider != "gemini" {
		return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.maxRetries must be non-negative, got %d", c.AI.MaxRetries)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2, got %g", c.AI.Temperature)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive")
	}
	if cb := c.AI.CircuitBreaker; cb.Enabled {
		if cb.FailureThreshold <= 0 || cb.FailureThreshold > 1 {
			return fmt.Errorf("ai.circuitBreaker.failureThreshold must be in (0, 1], got %g", cb.FailureThreshold)
		}
	}

	if c.Analysis.GenAITimeout <= 0 {
		return fmt.Errorf("analysis.genaiTimeout must be positive")
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("app.defaultFormat %q is not in app.supportedFormats", c.App.DefaultFormat)
	}
	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf("app.maxFileSize must be positive")
	}

	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RequestsPerMin <= 0 {
			return fmt.Errorf("server.rateLimit.requestsPerMin must be positive when rate limiting is enabled")
		}
		if c.Server.RateLimit.BurstCapacity <= 0 {
			return fmt.Errorf("server.rateLimit.burstCapacity must be positive when rate limiting is enabled")
		}
	}

	return c.Server.TLS.Validate()
}

// RequireAPIKey ensures a Gemini API key has been resolved through one of
// the configured sources.
func (c *Config) RequireAPIKey() error {
	if c.AI.APIKey == "" {
		return fmt.Errorf("no API key configured: set ai.apiKey, GEMINI_API_KEY, or enable Vault")
	}
	return nil
}
