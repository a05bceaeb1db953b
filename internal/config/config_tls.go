package config

import (
	"crypto/tls"
	"fmt"
	"os"
)

// TLS modes
const (
	TLSModeDisabled = "disabled"
	TLSModeServer   = "server"
	TLSModeMutual   = "mutual"
)

// IsEnabled reports whether the server should terminate TLS.
func (t *TLSConfig) IsEnabled() bool {
	return t.Mode == TLSModeServer || t.Mode == TLSModeMutual
}

// Validate checks the TLS configuration for consistency and verifies that
// referenced certificate files exist.
func (t *TLSConfig) Validate() error {
	switch t.Mode {
	case TLSModeDisabled, "":
		return nil
	case TLSModeServer, TLSModeMutual:
	default:
		return fmt.Errorf("invalid TLS mode: %q (must be %q, %q, or %q)",
			t.Mode, TLSModeDisabled, TLSModeServer, TLSModeMutual)
	}

	if t.CertFile == "" {
		return fmt.Errorf("TLS mode %q requires certFile", t.Mode)
	}
	if t.KeyFile == "" {
		return fmt.Errorf("TLS mode %q requires keyFile", t.Mode)
	}
	if err := checkFileReadable(t.CertFile); err != nil {
		return fmt.Errorf("TLS certFile: %w", err)
	}
	if err := checkFileReadable(t.KeyFile); err != nil {
		return fmt.Errorf("TLS keyFile: %w", err)
	}

	if t.Mode == TLSModeMutual {
		if t.CAFile == "" {
			return fmt.Errorf("TLS mode %q requires caFile for client certificate verification", TLSModeMutual)
		}
		if err := checkFileReadable(t.CAFile); err != nil {
			return fmt.Errorf("TLS caFile: %w", err)
		}
	}

	if _, err := t.MinTLSVersion(); err != nil {
		return err
	}

	return nil
}

// MinTLSVersion maps the configured minimum version string to the
// crypto/tls constant.
func (t *TLSConfig) MinTLSVersion() (uint16, error) {
	switch t.MinVersion {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("invalid TLS minVersion: %q (must be \"1.2\" or \"1.3\")", t.MinVersion)
	}
}

func checkFileReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
