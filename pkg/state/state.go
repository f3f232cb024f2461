package state

import (
	"fmt"
	"time"
)

// Message represents a single conversation turn
type Message struct {
	Role       string                 `json:"role"`
	Content    string                 `json:"content"`
	ToolCalls  []ToolCall             `json:"tool_calls,omitempty"`
	ToolCallID string                 `json:"tool_call_id,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// ToolCall represents a model-requested tool invocation
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// State is the conversation state carried across turns of one thread.
// Messages is the fixed core and is append-only within a thread; Values is
// an open extension map for caller-defined fields (user id, preferences,
// interaction counters and the like).
type State struct {
	Messages []Message              `json:"messages"`
	Values   map[string]interface{} `json:"values,omitempty"`
}

// New returns an empty state with an initialized extension map.
func New() State {
	return State{Values: make(map[string]interface{})}
}

// Clone returns a deep copy of the state. Tool call argument maps and
// message metadata are copied shallowly one level down, which is enough to
// keep callers from aliasing checkpointed history.
func (s State) Clone() State {
	out := State{}
	if s.Messages != nil {
		out.Messages = make([]Message, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	if s.Values != nil {
		out.Values = make(map[string]interface{}, len(s.Values))
		for k, v := range s.Values {
			out.Values[k] = v
		}
	}
	return out
}

// Merge combines a prior checkpointed state with an incoming turn: incoming
// messages are appended after the prior history, and incoming values overlay
// prior values key by key. Neither input is mutated.
func Merge(prior, incoming State) State {
	out := prior.Clone()
	out.Messages = append(out.Messages, incoming.Messages...)
	if len(incoming.Values) > 0 {
		if out.Values == nil {
			out.Values = make(map[string]interface{}, len(incoming.Values))
		}
		for k, v := range incoming.Values {
			out.Values[k] = v
		}
	}
	return out
}

// Append returns a copy of the state with msg added to the history.
func (s State) Append(msg Message) State {
	out := s.Clone()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	out.Messages = append(out.Messages, msg)
	return out
}

// LastMessage returns the most recent message and true, or a zero message
// and false when the history is empty.
func (s State) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Validate checks the structural invariants every turn relies on.
func (s State) Validate() error {
	for i, msg := range s.Messages {
		if msg.Role == "" {
			return fmt.Errorf("message %d has empty role", i)
		}
		if msg.Content == "" && len(msg.ToolCalls) == 0 {
			return fmt.Errorf("message %d has no content and no tool calls", i)
		}
	}
	return nil
}

// Int reads an integer extension value, tolerating the float64 that JSON
// round-trips produce.
func (s State) Int(key string) (int, bool) {
	v, ok := s.Values[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// String reads a string extension value.
func (s State) String(key string) (string, bool) {
	v, ok := s.Values[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// UserMessage is a convenience constructor for a user turn.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content, Timestamp: time.Now()}
}
