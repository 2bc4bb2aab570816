/*
Package config handles loading and saving askdeck configuration.

Configuration is stored in ~/.askdeck.json. The Anthropic API key is never
stored in the file; it is read from the environment (optionally via .env)
so the config can be committed or shared safely.

Schema:

	{
	  "catalogPath": "/path/to/catalog.json",
	  "catalogUrl": "https://example.com/catalog.json",
	  "databasePath": "",
	  "serverAddr": ":8080",
	  "settings": {
	    "sessionPoolSize": 100,
	    "fallbackModel": "",
	    "fallbackMaxTokens": 1024,
	    "fallbackTimeoutSeconds": 30,
	    "logLevel": "info"
	  }
	}
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config represents the root configuration structure.
type Config struct {
	// CatalogPath points at a local catalog JSON file. Empty means use the
	// built-in sample catalog.
	CatalogPath string `json:"catalogPath,omitempty"`

	// CatalogURL is the remote endpoint `askdeck catalog refresh` pulls from.
	CatalogURL string `json:"catalogUrl,omitempty"`

	// DatabasePath overrides the default ~/.askdeck/history.db location.
	DatabasePath string `json:"databasePath,omitempty"`

	// ServerAddr is the HTTP listen address for `askdeck serve`.
	ServerAddr string `json:"serverAddr,omitempty"`

	// Settings contains tunable options.
	Settings *Settings `json:"settings,omitempty"`
}

// Settings contains tunable configuration options.
type Settings struct {
	// SessionPoolSize is the max number of concurrently tracked sessions.
	SessionPoolSize int `json:"sessionPoolSize,omitempty"`

	// FallbackModel overrides the default fallback model name.
	FallbackModel string `json:"fallbackModel,omitempty"`

	// FallbackMaxTokens caps one fallback response.
	FallbackMaxTokens int `json:"fallbackMaxTokens,omitempty"`

	// FallbackTimeoutSeconds bounds one fallback call.
	FallbackTimeoutSeconds int `json:"fallbackTimeoutSeconds,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`
}

// NewConfig creates a new configuration with default settings.
func NewConfig() *Config {
	return &Config{
		ServerAddr: ":8080",
		Settings: &Settings{
			SessionPoolSize:        100,
			FallbackMaxTokens:      1024,
			FallbackTimeoutSeconds: 30,
			LogLevel:               "info",
		},
	}
}

// GetDefaultConfigPath returns the path to ~/.askdeck.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".askdeck.json"), nil
}

// Bootstrap loads a .env file if present. Missing files are not an error.
func Bootstrap() {
	_ = godotenv.Load()
}

// APIKey returns the Anthropic API key from the environment, or empty.
func APIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// Load reads the configuration from the default path. A missing file yields
// the default configuration rather than an error.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFrom(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Settings == nil {
		cfg.Settings = NewConfig().Settings
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}

	return &cfg, nil
}

// Save writes the configuration to the specified path.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
