// Package config provides process configuration for the console.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultModel is used when OPENAI_MODEL is not set.
	DefaultModel = "gpt-4o-mini"

	// DefaultAPIBaseURL is the public OpenAI-compatible endpoint.
	DefaultAPIBaseURL = "https://api.openai.com/v1"

	// DefaultStorageDir holds logs and other local state.
	DefaultStorageDir = ".filechat"
)

// Config holds all runtime settings.
type Config struct {
	// API settings
	APIBaseURL string `mapstructure:"api_base_url"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`

	// Local storage (log files)
	StorageDir string `mapstructure:"storage_dir"`
}

// Load reads configuration from an optional JSON file plus environment
// variables. Environment values override the file; defaults fill the rest.
// An empty configPath searches the storage dir and the working directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("model", DefaultModel)
	v.SetDefault("storage_dir", DefaultStorageDir)

	v.BindEnv("api_key", "OPENAI_API_KEY")
	v.BindEnv("model", "OPENAI_MODEL")
	v.BindEnv("api_base_url", "OPENAI_API_BASE")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(DefaultStorageDir)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// Config file is optional; only a malformed file is fatal.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// MaskAPIKey renders a key safe for display. Empty keys get a sentinel,
// short keys are fully masked, longer keys keep their first and last three
// characters with the total length preserved.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 6 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", len(key)-6) + key[len(key)-3:]
}

// Summary returns the config line shown in the conversation header.
// The key is always masked.
func (c *Config) Summary() string {
	return fmt.Sprintf("Current configuration: api_base=%s, model=%s, api_key=%s",
		c.APIBaseURL, c.Model, MaskAPIKey(c.APIKey))
}
