package ai

import (
	"context"
	"fmt"

	"resumedoctor/internal/config"
	rdErrors "resumedoctor/internal/errors"
)

// NewProvider creates the configured generative provider. Only Gemini is
// supported today; the factory exists so the pipeline depends on the
// Provider interface rather than a concrete client.
func NewProvider(ctx context.Context, cfg *config.Config, logger *rdErrors.Logger) (Provider, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, &cfg.AI, cfg.Observability.HealthCheck.AIModelCheckTimeout, logger)
	default:
		return nil, rdErrors.NewConfigError(rdErrors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.AI.Provider), nil)
	}
}
