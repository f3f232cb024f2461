package tool

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// Parameter defines a single tool argument.
type Parameter struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
}

// Handler is the function signature for tool execution. Handlers receive
// validated arguments and return a string result for the model.
type Handler func(ctx context.Context, args map[string]interface{}) (string, error)

// Definition defines a tool's metadata and handler.
type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Handler     Handler     `json:"-"`
}

// Spec is the schema-level view of a tool handed to model providers.
type Spec struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// Result represents the outcome of one tool execution.
type Result struct {
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Registry manages tool registration and execution.
type Registry struct {
	tools   map[string]*Definition
	schemas map[string]*gojsonschema.Schema
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]*Definition),
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Register validates a definition, compiles its argument schema, and adds it
// to the registry. Re-registering an existing name is an error.
func (r *Registry) Register(def Definition) error {
	if err := validateDefinition(def); err != nil {
		return fmt.Errorf("invalid tool definition: %w", err)
	}

	schemaDoc := inputSchema(def.Parameters)
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaDoc))
	if err != nil {
		return fmt.Errorf("failed to compile schema for %s: %w", def.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool already registered: %s", def.Name)
	}

	r.tools[def.Name] = &def
	r.schemas[def.Name] = schema

	log.Info().Str("tool", def.Name).Msg("Tool registered")

	return nil
}

// Get returns a tool definition by name, or nil when absent.
func (r *Registry) Get(name string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// List returns all registered tool names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Specs returns provider-facing specs for the named tools, or for every
// registered tool when names is empty.
func (r *Registry) Specs(names ...string) ([]Spec, error) {
	if len(names) == 0 {
		names = r.List()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]Spec, 0, len(names))
	for _, name := range names {
		def, ok := r.tools[name]
		if !ok {
			return nil, fmt.Errorf("tool not found: %s", name)
		}
		specs = append(specs, Spec{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: inputSchema(def.Parameters),
		})
	}
	return specs, nil
}

// Execute validates arguments against the tool's schema and runs the handler
// under a timeout. Failures are reported in the Result rather than returned,
// so the agent loop can surface them to the model as tool output.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}, timeout time.Duration) Result {
	start := time.Now()

	r.mu.RLock()
	def := r.tools[name]
	schema := r.schemas[name]
	r.mu.RUnlock()

	if def == nil {
		log.Error().Str("tool", name).Msg("Tool not found")
		return Result{
			Error:    fmt.Sprintf("tool not found: %s", name),
			Duration: time.Since(start),
		}
	}

	if args == nil {
		args = map[string]interface{}{}
	}

	validation, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return Result{
			Error:    fmt.Sprintf("argument validation failed: %v", err),
			Duration: time.Since(start),
		}
	}
	if !validation.Valid() {
		detail := ""
		for _, desc := range validation.Errors() {
			if detail != "" {
				detail += "; "
			}
			detail += desc.String()
		}
		log.Error().Str("tool", name).Str("detail", detail).Msg("Argument validation failed")
		return Result{
			Error:    fmt.Sprintf("argument validation failed: %s", detail),
			Duration: time.Since(start),
		}
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Debug().Str("tool", name).Msg("Executing tool")

	outputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		output, err := def.Handler(timeoutCtx, args)
		if err != nil {
			errChan <- err
		} else {
			outputChan <- output
		}
	}()

	select {
	case output := <-outputChan:
		duration := time.Since(start)
		log.Debug().Str("tool", name).Dur("duration", duration).Msg("Tool execution completed")
		return Result{Output: output, Duration: duration}

	case err := <-errChan:
		duration := time.Since(start)
		log.Error().Str("tool", name).Dur("duration", duration).Err(err).Msg("Tool execution failed")
		return Result{Error: err.Error(), Duration: duration}

	case <-timeoutCtx.Done():
		duration := time.Since(start)
		log.Error().Str("tool", name).Dur("duration", duration).Msg("Tool execution timeout")
		return Result{
			Error:    fmt.Sprintf("tool execution timeout after %v", timeout),
			Duration: duration,
		}
	}
}

func validateDefinition(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if def.Description == "" {
		return fmt.Errorf("tool description cannot be empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool handler cannot be nil")
	}
	for _, param := range def.Parameters {
		if param.Name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		switch param.Type {
		case "string", "number", "integer", "boolean", "array", "object":
		default:
			return fmt.Errorf("parameter %s has unsupported type %q", param.Name, param.Type)
		}
	}
	return nil
}

// inputSchema builds a JSON Schema object document from a parameter list.
func inputSchema(params []Parameter) map[string]interface{} {
	properties := make(map[string]interface{}, len(params))
	required := []string{}

	for _, param := range params {
		prop := map[string]interface{}{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Default != nil {
			prop["default"] = param.Default
		}
		properties[param.Name] = prop
		if param.Required {
			required = append(required, param.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
