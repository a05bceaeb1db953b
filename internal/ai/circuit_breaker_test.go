package ai

import (
	"errors"
	"testing"
	"time"

	"resumedoctor/internal/config"
	rdErrors "resumedoctor/internal/errors"

	"google.golang.org/genai"
)

func enabledBreakerConfig() *config.AIConfig {
	return &config.AIConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          30 * time.Second,
			MinRequests:      5,
			FailureThreshold: 0.6,
		},
	}
}

func TestSynthesisCircuitBreakerStats(t *testing.T) {
	cb := NewSynthesisCircuitBreaker(enabledBreakerConfig(), nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil when enabled")
	}

	stats := cb.GetStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "ai-synthesis" {
		t.Errorf("Expected circuit breaker name 'ai-synthesis', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	enabled, ok := stats["enabled"].(bool)
	if !ok {
		t.Fatal("Circuit breaker enabled status not found")
	}
	if !enabled {
		t.Error("Circuit breaker should be enabled")
	}

	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestModelCircuitBreakerIndependentFromSynthesis(t *testing.T) {
	cfg := enabledBreakerConfig()
	logger, err := rdErrors.New("error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	synthCB := NewSynthesisCircuitBreaker(cfg, logger)
	modelCB := NewModelCircuitBreaker(cfg, logger)

	if synthCB == nil || modelCB == nil {
		t.Fatal("Both circuit breakers should be created when enabled")
	}

	synthStats := synthCB.GetStats()
	modelStats := modelCB.GetModelStats()

	if synthStats["name"] == modelStats["name"] {
		t.Error("Synthesis and model circuit breakers should have distinct names")
	}

	// Trip only the synthesis breaker and verify the model breaker still
	// reports healthy.
	for range 10 {
		_, _ = synthCB.Execute(func() (*genai.GenerateContentResponse, error) {
			return nil, errors.New("simulated upstream failure")
		})
	}

	if synthCB.IsHealthy() {
		t.Error("Synthesis circuit breaker should open after sustained failures")
	}
	if !modelCB.IsModelHealthy() {
		t.Error("Model circuit breaker must not be affected by synthesis failures")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	disabledConfig := &config.AIConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled: false,
		},
	}

	if cb := NewSynthesisCircuitBreaker(disabledConfig, nil); cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}
	if cb := NewModelCircuitBreaker(disabledConfig, nil); cb != nil {
		t.Fatal("Model circuit breaker should be nil when disabled")
	}
}

func TestNilCircuitBreakerPassesThrough(t *testing.T) {
	var cb *SynthesisCircuitBreaker

	want := &genai.GenerateContentResponse{}
	got, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != want {
		t.Error("Nil breaker should execute the function directly")
	}

	if !cb.IsHealthy() {
		t.Error("Nil breaker reports healthy")
	}
	stats := cb.GetStats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("Nil breaker stats should report enabled=false")
	}
}
