package ai

import (
	"context"

	"resumedoctor/internal/types"
)

// Provider is the narrow interface over the external generative model.
// SynthesizeFeedback returns token usage information - callers can ignore
// it if not needed.
type Provider interface {
	SynthesizeFeedback(ctx context.Context, input types.SynthesisInput) (types.SynthesisOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
