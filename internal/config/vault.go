package config

import (
	"fmt"
	"os"
	"strings"

	"resumatch/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault
type VaultSecrets struct {
	// GeminiKey is the path to the Gemini API key secret. The secret data
	// is expected to carry the key under the "apiKey" field.
	GeminiKey string `mapstructure:"geminiKey"`
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from configuration. Returns
// (nil, nil) when Vault integration is disabled.
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	if logger != nil {
		logger.Debug("Vault client initialized",
			"address", vaultConfig.Address,
			"namespace", config.Namespace)
	}

	return &VaultClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// resolveVaultToken resolves the Vault token from config, token file or the
// VAULT_TOKEN environment variable, in that order.
func resolveVaultToken(config VaultConfig) (string, error) {
	if config.Token != "" {
		return config.Token, nil
	}

	if config.TokenFile != "" {
		data, err := os.ReadFile(config.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file %s: %w", config.TokenFile, err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", fmt.Errorf("vault token file %s is empty", config.TokenFile)
		}
		return token, nil
	}

	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		return token, nil
	}

	return "", fmt.Errorf("no vault token configured (set vault.token, vault.tokenFile or VAULT_TOKEN)")
}

// GetGeminiAPIKey reads the Gemini API key from the configured secret path.
func (vc *VaultClient) GetGeminiAPIKey() (string, error) {
	if vc.config.Secrets.GeminiKey == "" {
		return "", fmt.Errorf("vault.secrets.geminiKey path not configured")
	}

	secret, err := vc.client.Logical().Read(vc.config.Secrets.GeminiKey)
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", vc.config.Secrets.GeminiKey, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret %s not found", vc.config.Secrets.GeminiKey)
	}

	// KV v2 secrets nest the payload under "data".
	data := secret.Data
	if nested, ok := secret.Data["data"].(map[string]any); ok {
		data = nested
	}

	key, ok := data["apiKey"].(string)
	if !ok || key == "" {
		return "", fmt.Errorf("secret %s has no apiKey field", vc.config.Secrets.GeminiKey)
	}

	return key, nil
}

// ResolveSecrets overlays Vault-held secrets onto the configuration. Called
// after LoadConfig when Vault is enabled; config-file and environment values
// are kept as fallbacks when the lookup fails.
func (c *Config) ResolveSecrets(logger *errors.Logger) error {
	vc, err := NewVaultClient(c.Vault, logger)
	if err != nil {
		return err
	}
	if vc == nil {
		return nil
	}

	if c.Vault.Secrets.GeminiKey != "" {
		key, err := vc.GetGeminiAPIKey()
		if err != nil {
			if logger != nil {
				logger.Warn("Failed to resolve Gemini API key from Vault, keeping configured value",
					"error", err.Error())
			}
		} else {
			c.Backend.Gemini.APIKey = key
			if logger != nil {
				logger.Debug("Gemini API key resolved from Vault")
			}
		}
	}

	return nil
}
