package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoDefinition() Definition {
	return Definition{
		Name:        "echo",
		Description: "Echoes the input back.",
		Parameters: []Parameter{
			{Name: "text", Type: "string", Description: "Text to echo", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			text, _ := args["text"].(string)
			return text, nil
		},
	}
}

func TestRegister(t *testing.T) {
	t.Run("should register a valid tool", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(echoDefinition()))

		assert.Equal(t, 1, registry.Count())
		assert.NotNil(t, registry.Get("echo"))
	})

	t.Run("should reject duplicate names", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(echoDefinition()))

		err := registry.Register(echoDefinition())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("should reject empty name", func(t *testing.T) {
		def := echoDefinition()
		def.Name = ""
		assert.Error(t, NewRegistry().Register(def))
	})

	t.Run("should reject missing description", func(t *testing.T) {
		def := echoDefinition()
		def.Description = ""
		assert.Error(t, NewRegistry().Register(def))
	})

	t.Run("should reject nil handler", func(t *testing.T) {
		def := echoDefinition()
		def.Handler = nil
		assert.Error(t, NewRegistry().Register(def))
	})

	t.Run("should reject unsupported parameter type", func(t *testing.T) {
		def := echoDefinition()
		def.Parameters = []Parameter{{Name: "x", Type: "tuple"}}
		err := NewRegistry().Register(def)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported type")
	})
}

func TestSpecs(t *testing.T) {
	t.Run("should expose required fields in the input schema", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(echoDefinition()))

		specs, err := registry.Specs("echo")
		require.NoError(t, err)
		require.Len(t, specs, 1)

		assert.Equal(t, "echo", specs[0].Name)
		assert.Equal(t, "object", specs[0].InputSchema["type"])
		assert.Equal(t, []string{"text"}, specs[0].InputSchema["required"])
	})

	t.Run("should default to all registered tools", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(echoDefinition()))

		specs, err := registry.Specs()
		require.NoError(t, err)
		assert.Len(t, specs, 1)
	})

	t.Run("should fail on unknown tool", func(t *testing.T) {
		_, err := NewRegistry().Specs("missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tool not found")
	})
}

func TestExecute(t *testing.T) {
	t.Run("should run the handler with valid arguments", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(echoDefinition()))

		result := registry.Execute(context.Background(), "echo", map[string]interface{}{"text": "hello"}, time.Second)

		assert.Empty(t, result.Error)
		assert.Equal(t, "hello", result.Output)
	})

	t.Run("should report unknown tools in the result", func(t *testing.T) {
		result := NewRegistry().Execute(context.Background(), "missing", nil, time.Second)
		assert.Contains(t, result.Error, "tool not found")
	})

	t.Run("should reject arguments missing a required field", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(echoDefinition()))

		result := registry.Execute(context.Background(), "echo", map[string]interface{}{}, time.Second)
		assert.Contains(t, result.Error, "argument validation failed")
	})

	t.Run("should reject arguments of the wrong type", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(echoDefinition()))

		result := registry.Execute(context.Background(), "echo", map[string]interface{}{"text": 42}, time.Second)
		assert.Contains(t, result.Error, "argument validation failed")
	})

	t.Run("should report handler errors in the result", func(t *testing.T) {
		registry := NewRegistry()
		def := echoDefinition()
		def.Name = "fails"
		def.Handler = func(ctx context.Context, args map[string]interface{}) (string, error) {
			return "", errors.New("boom")
		}
		require.NoError(t, registry.Register(def))

		result := registry.Execute(context.Background(), "fails", map[string]interface{}{"text": "x"}, time.Second)
		assert.Equal(t, "boom", result.Error)
	})

	t.Run("should time out slow handlers", func(t *testing.T) {
		registry := NewRegistry()
		def := echoDefinition()
		def.Name = "slow"
		def.Handler = func(ctx context.Context, args map[string]interface{}) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(5 * time.Second):
				return "done", nil
			}
		}
		require.NoError(t, registry.Register(def))

		result := registry.Execute(context.Background(), "slow", map[string]interface{}{"text": "x"}, 50*time.Millisecond)
		assert.Contains(t, result.Error, "timeout")
	})
}

func TestList(t *testing.T) {
	t.Run("should return sorted names", func(t *testing.T) {
		registry := NewRegistry()

		for _, name := range []string{"zeta", "alpha"} {
			def := echoDefinition()
			def.Name = name
			require.NoError(t, registry.Register(def))
		}

		assert.Equal(t, []string{"alpha", "zeta"}, registry.List())
	})
}
