package checkpoint

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/danapr/lumen/pkg/state"
)

// Saver persists and retrieves conversation state keyed by thread id.
type Saver interface {
	// Get returns the latest state for a thread. Unknown threads yield an
	// empty state with no error.
	Get(ctx context.Context, threadID string) (state.State, error)

	// Put records the state as the newest checkpoint for a thread.
	Put(ctx context.Context, threadID string, st state.State) error

	// Threads lists thread ids with at least one checkpoint.
	Threads(ctx context.Context) ([]string, error)
}

// ValidateThreadID rejects thread ids that could not serve as storage keys.
func ValidateThreadID(threadID string) error {
	if threadID == "" {
		return fmt.Errorf("thread id cannot be empty")
	}
	if strings.ContainsAny(threadID, "/\\") || strings.Contains(threadID, "..") {
		return fmt.Errorf("thread id cannot contain path separators or '..'")
	}
	if strings.Contains(threadID, "\x00") {
		return fmt.Errorf("thread id cannot contain null bytes")
	}
	return nil
}

// MemorySaver keeps checkpoints in process memory. State does not survive
// process exit; it matches the semantics of an in-memory checkpointer used
// for demos and tests.
type MemorySaver struct {
	states map[string]state.State
	order  []string
	mu     sync.RWMutex
}

// NewMemorySaver creates an empty in-memory saver.
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{states: make(map[string]state.State)}
}

// Get returns a copy of the latest state for a thread.
func (m *MemorySaver) Get(ctx context.Context, threadID string) (state.State, error) {
	if err := ValidateThreadID(threadID); err != nil {
		return state.State{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.states[threadID]
	if !ok {
		return state.New(), nil
	}
	return st.Clone(), nil
}

// Put stores a copy of the state for a thread.
func (m *MemorySaver) Put(ctx context.Context, threadID string, st state.State) error {
	if err := ValidateThreadID(threadID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.states[threadID]; !exists {
		m.order = append(m.order, threadID)
	}
	m.states[threadID] = st.Clone()
	return nil
}

// Threads lists thread ids in first-seen order.
func (m *MemorySaver) Threads(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.order))
	copy(out, m.order)
	return out, nil
}
