package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler reports service health including generative model and
// certificate status. The deterministic pipeline has no external
// dependencies, so an unavailable model only degrades the service.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "resumedoctor",
		"version": s.Version,
	}

	modelAvailable := s.checkModelHealth(response)
	certHealthy := s.checkCertificateHealth(response)

	if !modelAvailable {
		// The rule-based track still serves requests; results carry the
		// fallback summary instead of generative feedback.
		response["status"] = "degraded"
	}
	if !certHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkModelHealth fills in generative model and circuit breaker status
// and reports whether the model is available.
func (s *Server) checkModelHealth(response map[string]any) bool {
	if s.Provider == nil {
		response["ai_model"] = map[string]any{
			"available": false,
			"error":     "No generative provider configured",
		}
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.getHealthCheckTimeout())
	defer cancel()

	modelInfo := s.Provider.GetModelInfo(ctx)
	response["ai_model"] = modelInfo

	if stats, ok := s.Provider.(interface{ GetCircuitBreakerStats() map[string]any }); ok {
		response["circuit_breakers"] = stats.GetCircuitBreakerStats()
	}

	return modelInfo.Available
}

// checkCertificateHealth fills in TLS certificate status and reports
// whether the certificate is healthy. No reloader means no TLS, which is
// healthy by definition.
func (s *Server) checkCertificateHealth(response map[string]any) bool {
	if s.CertReloader == nil {
		return true
	}

	timeToExpiry := s.CertReloader.TimeToExpiry()

	certStatus := map[string]any{
		"time_to_expiry":       timeToExpiry.String(),
		"time_to_expiry_hours": int(timeToExpiry.Hours()),
		"watcher_running":      s.CertReloader.IsRunning(),
	}

	healthy := true
	switch {
	case timeToExpiry <= 0:
		healthy = false
		certStatus["status"] = "expired"
	case timeToExpiry <= 24*time.Hour:
		healthy = false
		certStatus["status"] = "critical"
	case timeToExpiry <= 7*24*time.Hour:
		certStatus["status"] = "warning"
	default:
		certStatus["status"] = "ok"
	}
	certStatus["healthy"] = healthy

	response["certificates"] = certStatus
	return healthy
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumedoctor",
		"version": s.Version,
		"server": map[string]any{
			"max_upload_size_bytes": s.MaxUploadSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
		Code:    code,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
