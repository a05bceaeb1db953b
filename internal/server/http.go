package server

import (
	"time"

	"resumedoctor/internal/ai"
	"resumedoctor/internal/analysis"
	"resumedoctor/internal/config"
	rdErrors "resumedoctor/internal/errors"
)

// ErrorResponse represents an error response body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Server holds configuration and dependencies for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate hot reload
	CertReloader *CertReloader

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Upload size limit
	MaxUploadSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Analysis dependencies
	Pipeline *analysis.Pipeline
	Provider ai.Provider

	// Logger
	Logger *rdErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host          string
	Port          string
	Version       string
	TLSConfig     config.TLSConfig
	APIKeys       []string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxUploadSize int64
	RateLimit     *config.RateLimitConfig
}

// NewServer creates a new Server instance. The provider may be nil, in
// which case every analysis degrades to the deterministic fallback and
// the health endpoint reports the generative track as unavailable.
func NewServer(appCfg *config.Config, cfg ServerConfig, pipeline *analysis.Pipeline, provider ai.Provider, logger *rdErrors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:          cfg.Host,
		Port:          cfg.Port,
		Version:       cfg.Version,
		AppConfig:     appCfg,
		TLSConfig:     cfg.TLSConfig,
		APIKeys:       apiKeyMap,
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		IdleTimeout:   cfg.IdleTimeout,
		MaxUploadSize: cfg.MaxUploadSize,
		RateLimit:     cfg.RateLimit,
		RateLimiter:   rateLimiter,
		Pipeline:      pipeline,
		Provider:      provider,
		Logger:        logger,
	}
}
