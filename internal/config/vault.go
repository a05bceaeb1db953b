package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"
)

// VaultConfig holds HashiCorp Vault integration configuration. Vault is
// only consulted for the Gemini API key; all other settings come from the
// config file and environment.
type VaultConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Address    string        `mapstructure:"address"`
	Token      string        `mapstructure:"token"`
	TokenFile  string        `mapstructure:"tokenFile"`
	Namespace  string        `mapstructure:"namespace"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MountPath  string        `mapstructure:"mountPath"`
	SecretPath string        `mapstructure:"secretPath"`
}

const vaultAPIKeyField = "gemini_api_key"

// LoadSecretsFromVault hydrates the API key from Vault when enabled.
// Vault takes precedence over any key already resolved from the config
// file or environment.
func (c *Config) LoadSecretsFromVault(ctx context.Context) error {
	if !c.Vault.Enabled {
		return nil
	}

	client, err := newVaultClient(&c.Vault)
	if err != nil {
		return fmt.Errorf("failed to create vault client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Vault.Timeout)
	defer cancel()

	secret, err := client.KVv2(c.Vault.MountPath).Get(ctx, c.Vault.SecretPath)
	if err != nil {
		return fmt.Errorf("failed to read secret %s/%s: %w", c.Vault.MountPath, c.Vault.SecretPath, err)
	}

	key, ok := secret.Data[vaultAPIKeyField].(string)
	if !ok || key == "" {
		return fmt.Errorf("secret %s/%s has no %q field", c.Vault.MountPath, c.Vault.SecretPath, vaultAPIKeyField)
	}

	c.AI.APIKey = key
	return nil
}

func newVaultClient(vc *VaultConfig) (*vault.Client, error) {
	vaultConfig := vault.DefaultConfig()
	if vc.Address != "" {
		vaultConfig.Address = vc.Address
	}
	if vc.Timeout > 0 {
		vaultConfig.Timeout = vc.Timeout
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, err
	}

	token := vc.Token
	if token == "" && vc.TokenFile != "" {
		data, err := os.ReadFile(vc.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(data))
	}
	if token == "" {
		return nil, fmt.Errorf("no vault token configured")
	}
	client.SetToken(token)

	if vc.Namespace != "" {
		client.SetNamespace(vc.Namespace)
	}

	return client, nil
}
