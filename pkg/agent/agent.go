package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/danapr/lumen/pkg/checkpoint"
	"github.com/danapr/lumen/pkg/state"
	"github.com/danapr/lumen/pkg/tool"
)

const (
	defaultMaxTurns    = 10
	defaultMaxRetries  = 3
	defaultToolTimeout = 30 * time.Second
)

// Config bundles everything an agent needs. The bundle is fixed at New;
// nothing is mutated afterwards.
type Config struct {
	Provider Provider
	Registry *tool.Registry
	Saver    checkpoint.Saver
	Logger   zerolog.Logger

	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
	Tools        []string // tool names exposed to the model; empty means all registered
	MaxTurns     int      // tool-loop bound per invocation
	MaxRetries   int      // per-call retry budget for retryable provider errors
	ToolTimeout  time.Duration
	StateSchema  string // optional JSON Schema applied to state extension values
}

// Agent executes conversation turns. Construct with New.
type Agent struct {
	provider Provider
	registry *tool.Registry
	saver    checkpoint.Saver
	logger   zerolog.Logger
	cfg      Config
	schema   *gojsonschema.Schema
}

// InvokeOptions carries per-invocation settings.
type InvokeOptions struct {
	// ThreadID scopes which persisted state is merged and updated. Empty
	// means the call is stateless even when a saver is configured.
	ThreadID string
}

// New creates an agent from the configuration bundle.
func New(cfg Config) (*Agent, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be between 0 and 1")
	}
	if cfg.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	}
	if len(cfg.Tools) > 0 && cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is required when tools are configured")
	}

	var schema *gojsonschema.Schema
	if cfg.StateSchema != "" {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(cfg.StateSchema))
		if err != nil {
			return nil, fmt.Errorf("invalid state schema: %w", err)
		}
		schema = compiled
	}

	return &Agent{
		provider: cfg.Provider,
		registry: cfg.Registry,
		saver:    cfg.Saver,
		logger:   cfg.Logger,
		cfg:      cfg,
		schema:   schema,
	}, nil
}

// Invoke sends one user turn and blocks until the model, including any tool
// calls it triggers, has finished. The returned state holds the full message
// history of the thread plus merged extension values.
func (a *Agent) Invoke(ctx context.Context, input state.State, opts InvokeOptions) (state.State, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	runID := uuid.NewString()
	logger := a.logger.With().
		Str("run_id", runID).
		Str("thread_id", opts.ThreadID).
		Logger()

	if err := input.Validate(); err != nil {
		return state.State{}, fmt.Errorf("invalid input state: %w", err)
	}
	if len(input.Messages) == 0 {
		return state.State{}, fmt.Errorf("input state must contain at least one message")
	}
	if err := a.validateValues(input); err != nil {
		return state.State{}, err
	}

	// Seed from the checkpointed state when this call is thread-scoped.
	current := input
	if a.saver != nil && opts.ThreadID != "" {
		prior, err := a.saver.Get(ctx, opts.ThreadID)
		if err != nil {
			return state.State{}, fmt.Errorf("failed to load checkpoint: %w", err)
		}
		current = state.Merge(prior, input)
		logger.Debug().
			Int("prior_messages", len(prior.Messages)).
			Int("merged_messages", len(current.Messages)).
			Msg("Merged checkpointed state")
	}

	specs, err := a.toolSpecs()
	if err != nil {
		return state.State{}, err
	}

	usage := &TokenUsage{}

	maxTurns := a.cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}

	done := false
	for turn := 0; turn < maxTurns; turn++ {
		select {
		case <-ctx.Done():
			return state.State{}, ctx.Err()
		default:
		}

		response, err := a.completeWithRetry(ctx, logger, Request{
			Model:        a.cfg.Model,
			Messages:     current.Messages,
			Tools:        specs,
			Temperature:  a.cfg.Temperature,
			MaxTokens:    a.cfg.MaxTokens,
			SystemPrompt: a.cfg.SystemPrompt,
		})
		if err != nil {
			return state.State{}, err
		}
		usage.Add(response.Usage)

		if len(response.ToolCalls) == 0 {
			current = current.Append(state.Message{
				Role:    "assistant",
				Content: response.Content,
				Metadata: map[string]interface{}{
					"model": a.cfg.Model,
				},
			})
			done = true
			break
		}

		if a.registry == nil {
			return state.State{}, fmt.Errorf("model requested tool %q but no registry is configured", response.ToolCalls[0].Name)
		}

		current = current.Append(state.Message{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		for _, call := range response.ToolCalls {
			result := a.registry.Execute(ctx, call.Name, call.Arguments, a.cfg.ToolTimeout)
			content := result.Output
			if result.Error != "" {
				content = result.Error
			}
			current = current.Append(state.Message{
				Role:       "tool",
				Content:    content,
				ToolCallID: call.ID,
			})
		}
	}

	if !done {
		return state.State{}, fmt.Errorf("maximum tool execution turns (%d) exceeded", maxTurns)
	}

	if a.saver != nil && opts.ThreadID != "" {
		if err := a.saver.Put(ctx, opts.ThreadID, current); err != nil {
			return state.State{}, fmt.Errorf("failed to save checkpoint: %w", err)
		}
	}

	logger.Info().
		Int("messages", len(current.Messages)).
		Int("input_tokens", usage.InputTokens).
		Int("output_tokens", usage.OutputTokens).
		Msg("Invocation completed")

	return current, nil
}

// toolSpecs resolves the configured tool names to provider specs.
func (a *Agent) toolSpecs() ([]tool.Spec, error) {
	if a.registry == nil {
		return nil, nil
	}
	if len(a.cfg.Tools) == 0 && a.registry.Count() == 0 {
		return nil, nil
	}
	specs, err := a.registry.Specs(a.cfg.Tools...)
	if err != nil {
		return nil, fmt.Errorf("failed to build tools: %w", err)
	}
	return specs, nil
}

// validateValues applies the optional state schema to extension values.
func (a *Agent) validateValues(st state.State) error {
	if a.schema == nil {
		return nil
	}
	values := st.Values
	if values == nil {
		values = map[string]interface{}{}
	}
	result, err := a.schema.Validate(gojsonschema.NewGoLoader(values))
	if err != nil {
		return fmt.Errorf("state validation failed: %w", err)
	}
	if !result.Valid() {
		detail := ""
		for _, desc := range result.Errors() {
			if detail != "" {
				detail += "; "
			}
			detail += desc.String()
		}
		return fmt.Errorf("state does not match schema: %s", detail)
	}
	return nil
}

// completeWithRetry calls the provider with exponential backoff on
// retryable errors: 1s, 2s, 4s.
func (a *Agent) completeWithRetry(ctx context.Context, logger zerolog.Logger, request Request) (*Response, error) {
	maxRetries := a.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		response, err := a.provider.Complete(ctx, request)
		if err == nil {
			return response, nil
		}

		lastErr = err

		if !IsRetryableError(err) {
			return nil, err
		}
		if attempt == maxRetries-1 {
			break
		}

		delay := time.Duration(1000*(1<<attempt)) * time.Millisecond
		logger.Info().
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying after error")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, lastErr)
}
