package config

// Config represents the main lumen configuration
type Config struct {
	// Model client settings
	Model ModelConfig `json:"model" mapstructure:"model"`

	// Agent behavior
	Agent AgentConfig `json:"agent" mapstructure:"agent"`

	// Conversation memory
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// ModelConfig holds model client configuration. Name, BaseURL, and APIKey
// are bound to the MODEL_NAME, BASE_URL, and API_KEY environment variables.
type ModelConfig struct {
	Provider    string  `json:"provider" mapstructure:"provider"` // openai, anthropic
	Name        string  `json:"name" mapstructure:"name"`
	BaseURL     string  `json:"base_url" mapstructure:"base_url"`
	APIKey      string  `json:"api_key" mapstructure:"api_key"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
}

// AgentConfig holds agent behavior settings
type AgentConfig struct {
	SystemPrompt string `json:"system_prompt" mapstructure:"system_prompt"`
	MaxTurns     int    `json:"max_turns" mapstructure:"max_turns"`
	MaxRetries   int    `json:"max_retries" mapstructure:"max_retries"`
}

// MemoryConfig holds checkpoint store configuration
type MemoryConfig struct {
	Backend string `json:"backend" mapstructure:"backend"` // memory, sqlite
	Path    string `json:"path" mapstructure:"path"`       // sqlite database path
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:    "openai",
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Agent: AgentConfig{
			MaxTurns:   10,
			MaxRetries: 3,
		},
		Memory: MemoryConfig{
			Backend: "memory",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Redaction: true,
		},
	}
}
