package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Loader handles configuration loading
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load reads the optional config file and binds the model environment
// variables. MODEL_NAME, BASE_URL, and API_KEY always win over file values.
func (l *Loader) Load() (*Config, error) {
	configPath := l.configPath
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".lumen", "lumen.json")
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	// Exact env names; the model endpoint contract uses no prefix.
	if err := v.BindEnv("model.name", "MODEL_NAME"); err != nil {
		return nil, fmt.Errorf("failed to bind MODEL_NAME: %w", err)
	}
	if err := v.BindEnv("model.base_url", "BASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind BASE_URL: %w", err)
	}
	if err := v.BindEnv("model.api_key", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind API_KEY: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".lumen")
	}

	if cfg.Memory.Backend == "sqlite" && cfg.Memory.Path == "" {
		cfg.Memory.Path = filepath.Join(cfg.DataDir, "checkpoints.db")
	}

	return cfg, nil
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	loader := NewLoader(configPath)
	return loader.Load()
}
