package config

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempPEM creates a placeholder certificate file for path validation tests
func writeTempPEM(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("-----BEGIN PLACEHOLDER-----\n"), 0600))
	return path
}

func TestTLSConfigValidate(t *testing.T) {
	tempDir := t.TempDir()
	certFile := writeTempPEM(t, tempDir, "cert.pem")
	keyFile := writeTempPEM(t, tempDir, "key.pem")
	caFile := writeTempPEM(t, tempDir, "ca.pem")

	tests := []struct {
		name        string
		tls         TLSConfig
		expectError bool
		errorMsg    string
	}{
		{
			name:        "disabled mode",
			tls:         TLSConfig{Mode: "disabled"},
			expectError: false,
		},
		{
			name:        "empty mode treated as disabled",
			tls:         TLSConfig{},
			expectError: false,
		},
		{
			name: "server mode valid",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: certFile,
				KeyFile:  keyFile,
			},
			expectError: false,
		},
		{
			name: "mutual mode valid",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: certFile,
				KeyFile:  keyFile,
				CAFile:   caFile,
			},
			expectError: false,
		},
		{
			name:        "invalid mode",
			tls:         TLSConfig{Mode: "sideways"},
			expectError: true,
			errorMsg:    "invalid TLS mode",
		},
		{
			name: "server mode missing certificate",
			tls: TLSConfig{
				Mode:    "server",
				KeyFile: keyFile,
			},
			expectError: true,
			errorMsg:    "requires certFile",
		},
		{
			name: "server mode missing key",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: certFile,
			},
			expectError: true,
			errorMsg:    "requires keyFile",
		},
		{
			name: "server mode unreadable certificate",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: filepath.Join(tempDir, "missing.pem"),
				KeyFile:  keyFile,
			},
			expectError: true,
			errorMsg:    "TLS certFile",
		},
		{
			name: "mutual mode missing ca",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: certFile,
				KeyFile:  keyFile,
			},
			expectError: true,
			errorMsg:    "requires caFile",
		},
		{
			name: "invalid min version",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   certFile,
				KeyFile:    keyFile,
				MinVersion: "1.1",
			},
			expectError: true,
			errorMsg:    "invalid TLS minVersion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tls.Validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMinTLSVersion(t *testing.T) {
	tests := []struct {
		name        string
		minVersion  string
		expected    uint16
		expectError bool
	}{
		{name: "default is 1.2", minVersion: "", expected: tls.VersionTLS12},
		{name: "explicit 1.2", minVersion: "1.2", expected: tls.VersionTLS12},
		{name: "explicit 1.3", minVersion: "1.3", expected: tls.VersionTLS13},
		{name: "unsupported 1.0", minVersion: "1.0", expectError: true},
		{name: "garbage value", minVersion: "tls13", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := TLSConfig{MinVersion: tt.minVersion}
			version, err := cfg.MinTLSVersion()

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, version)
			}
		})
	}
}

func TestTLSConfigIsEnabled(t *testing.T) {
	assert.False(t, (&TLSConfig{Mode: "disabled"}).IsEnabled())
	assert.False(t, (&TLSConfig{}).IsEnabled())
	assert.True(t, (&TLSConfig{Mode: "server"}).IsEnabled())
	assert.True(t, (&TLSConfig{Mode: "mutual"}).IsEnabled())
}
