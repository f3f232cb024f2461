package agent

import (
	"context"
	"strings"

	"github.com/danapr/lumen/pkg/state"
	"github.com/danapr/lumen/pkg/tool"
)

// Provider is an interface for chat-completion model APIs.
type Provider interface {
	// Complete performs one blocking model call.
	Complete(ctx context.Context, request Request) (*Response, error)

	// Name returns the provider name.
	Name() string
}

// Request contains the parameters for one model call.
type Request struct {
	Model        string
	Messages     []state.Message
	Tools        []tool.Spec
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// Response contains the model's reply for one call.
type Response struct {
	Content   string
	ToolCalls []state.ToolCall
	Usage     *TokenUsage
}

// TokenUsage tracks token consumption for one call.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add accumulates usage across the calls of one invocation.
func (u *TokenUsage) Add(other *TokenUsage) {
	if other == nil {
		return
	}
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// IsRetryableError reports whether a provider error is transient enough to
// retry: network resets, rate limits, and server-side failures.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "ECONNRESET") || strings.Contains(msg, "ETIMEDOUT") {
		return true
	}
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		return true
	}
	for _, code := range []string{"500", "502", "503", "504"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}
