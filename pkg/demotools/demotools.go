// Package demotools registers the stub tools used by the example sessions.
// Handlers are side-effect-free and return templated strings.
package demotools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/danapr/lumen/pkg/tool"
)

type profile struct {
	Name        string
	Preferences map[string]string
}

// Fixed demo dataset. Lookups for unknown ids fall back to an empty profile.
var profiles = map[string]profile{
	"user_123": {Name: "Alice", Preferences: map[string]string{"theme": "dark", "language": "en"}},
	"user_456": {Name: "Bob", Preferences: map[string]string{"theme": "light", "language": "zh"}},
}

// Register adds the demo tools to a registry.
func Register(registry *tool.Registry) error {
	if registry == nil {
		return errors.New("tool registry is required")
	}

	tools := []tool.Definition{
		weatherTool(),
		userProfileTool(),
		savePreferenceTool(),
	}

	for _, def := range tools {
		if err := registry.Register(def); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", def.Name, err)
		}
	}
	return nil
}

func weatherTool() tool.Definition {
	return tool.Definition{
		Name:        "get_weather",
		Description: "Get weather for a location.",
		Parameters: []tool.Parameter{
			{Name: "location", Type: "string", Description: "City or place name", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			location, _ := args["location"].(string)
			return fmt.Sprintf("The weather in %s is sunny.", location), nil
		},
	}
}

func userProfileTool() tool.Definition {
	return tool.Definition{
		Name:        "get_user_profile",
		Description: "Get a user's profile including stored preferences.",
		Parameters: []tool.Parameter{
			{Name: "user_id", Type: "string", Description: "User identifier", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			userID, _ := args["user_id"].(string)
			p, ok := profiles[userID]
			if !ok {
				return "User: Unknown, Prefs: {}", nil
			}
			return fmt.Sprintf("User: %s, Prefs: %s", p.Name, formatPrefs(p.Preferences)), nil
		},
	}
}

func savePreferenceTool() tool.Definition {
	return tool.Definition{
		Name:        "save_user_preference",
		Description: "Save a user preference key/value pair.",
		Parameters: []tool.Parameter{
			{Name: "user_id", Type: "string", Description: "User identifier", Required: true},
			{Name: "key", Type: "string", Description: "Preference key", Required: true},
			{Name: "value", Type: "string", Description: "Preference value", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			userID, _ := args["user_id"].(string)
			key, _ := args["key"].(string)
			value, _ := args["value"].(string)
			return fmt.Sprintf("Saved preference: %s - %s: %s", userID, key, value), nil
		},
	}
}

// formatPrefs renders preferences deterministically so tool output is stable
// across runs.
func formatPrefs(prefs map[string]string) string {
	if len(prefs) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q: %q", k, prefs[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
