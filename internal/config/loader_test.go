package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should return defaults when no file exists", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		require.NoError(t, err)

		assert.Equal(t, "openai", cfg.Model.Provider)
		assert.Equal(t, 0.7, cfg.Model.Temperature)
		assert.Equal(t, "memory", cfg.Memory.Backend)
		assert.Equal(t, 10, cfg.Agent.MaxTurns)
	})

	t.Run("should bind model environment variables", func(t *testing.T) {
		t.Setenv("MODEL_NAME", "gpt-4o-mini")
		t.Setenv("BASE_URL", "https://gateway.example.com/v1")
		t.Setenv("API_KEY", "sk-test-key")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		require.NoError(t, err)

		assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
		assert.Equal(t, "https://gateway.example.com/v1", cfg.Model.BaseURL)
		assert.Equal(t, "sk-test-key", cfg.Model.APIKey)
	})

	t.Run("should read the config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "lumen.json")
		content := `{
			"model": {"provider": "anthropic", "name": "claude-sonnet", "api_key": "file-key"},
			"memory": {"backend": "sqlite"},
			"agent": {"system_prompt": "Be brief.", "max_turns": 5}
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "anthropic", cfg.Model.Provider)
		assert.Equal(t, "claude-sonnet", cfg.Model.Name)
		assert.Equal(t, "Be brief.", cfg.Agent.SystemPrompt)
		assert.Equal(t, 5, cfg.Agent.MaxTurns)
	})

	t.Run("environment should win over the file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "lumen.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"model": {"name": "from-file"}}`), 0600))

		t.Setenv("MODEL_NAME", "from-env")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Model.Name)
	})

	t.Run("should default the sqlite path under the data dir", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "lumen.json")
		content := `{"data_dir": "` + dir + `", "memory": {"backend": "sqlite"}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "checkpoints.db"), cfg.Memory.Path)
	})

	t.Run("should fail on malformed json", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "lumen.json")
		require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}
