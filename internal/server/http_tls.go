package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"resumedoctor/internal/config"
)

// configureTLS sets up the HTTP server's TLS configuration based on the
// configured mode.
func (s *Server) configureTLS(httpServer *http.Server) error {
	switch s.TLSConfig.Mode {
	case config.TLSModeServer, config.TLSModeMutual:
	case config.TLSModeDisabled, "":
		s.Logger.Info("TLS disabled, serving plain HTTP", "address", httpServer.Addr)
		return nil
	default:
		return fmt.Errorf("invalid TLS mode: %s", s.TLSConfig.Mode)
	}

	if s.TLSConfig.AutoReload.Enabled {
		reloader, err := NewCertReloader(
			s.TLSConfig.CertFile,
			s.TLSConfig.KeyFile,
			s.TLSConfig.AutoReload.DebounceDelay,
			s.Logger,
		)
		if err != nil {
			return err
		}
		if err := reloader.Start(); err != nil {
			return fmt.Errorf("failed to start certificate reloader: %w", err)
		}
		s.CertReloader = reloader
	}

	tlsConfig, err := s.buildTLSConfig()
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	httpServer.TLSConfig = tlsConfig

	s.Logger.Info("TLS enabled",
		"mode", s.TLSConfig.Mode,
		"auto_reload", s.TLSConfig.AutoReload.Enabled,
		"address", httpServer.Addr)

	return nil
}

// buildTLSConfig creates the TLS configuration
func (s *Server) buildTLSConfig() (*tls.Config, error) {
	minVersion, err := s.TLSConfig.MinTLSVersion()
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		MinVersion: minVersion,
	}

	if s.CertReloader != nil {
		tlsConfig.GetCertificate = s.CertReloader.GetCertificate
	} else {
		cert, err := tls.LoadX509KeyPair(s.TLSConfig.CertFile, s.TLSConfig.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load server cert/key: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if s.TLSConfig.Mode == config.TLSModeMutual {
		caCert, err := os.ReadFile(s.TLSConfig.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if ok := caCertPool.AppendCertsFromPEM(caCert); !ok {
			return nil, fmt.Errorf("failed to append CA cert")
		}
		tlsConfig.ClientCAs = caCertPool
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	} else {
		tlsConfig.ClientAuth = tls.NoClientCert
	}

	return tlsConfig, nil
}
