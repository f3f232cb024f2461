package config

import "fmt"

// Validate checks the configuration for values that would only fail later
// inside a model call.
func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return fmt.Errorf("model name is required (set MODEL_NAME)")
	}
	if c.Model.APIKey == "" {
		return fmt.Errorf("api key is required (set API_KEY)")
	}
	switch c.Model.Provider {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported provider: %s", c.Model.Provider)
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	}
	if c.Model.MaxTokens < 0 {
		return fmt.Errorf("max tokens cannot be negative")
	}
	switch c.Memory.Backend {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("unsupported memory backend: %s", c.Memory.Backend)
	}
	return nil
}
