package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danapr/lumen/pkg/state"
)

func TestMemorySaver(t *testing.T) {
	ctx := context.Background()

	t.Run("should return empty state for unknown thread", func(t *testing.T) {
		saver := NewMemorySaver()

		st, err := saver.Get(ctx, "thread_001")
		require.NoError(t, err)
		assert.Empty(t, st.Messages)
	})

	t.Run("should round-trip state", func(t *testing.T) {
		saver := NewMemorySaver()

		stored := state.State{
			Messages: []state.Message{{Role: "user", Content: "hi"}},
			Values:   map[string]interface{}{"interaction_count": 1},
		}
		require.NoError(t, saver.Put(ctx, "thread_001", stored))

		loaded, err := saver.Get(ctx, "thread_001")
		require.NoError(t, err)
		require.Len(t, loaded.Messages, 1)
		assert.Equal(t, "hi", loaded.Messages[0].Content)
		assert.Equal(t, 1, loaded.Values["interaction_count"])
	})

	t.Run("should isolate threads", func(t *testing.T) {
		saver := NewMemorySaver()

		require.NoError(t, saver.Put(ctx, "thread_a", state.State{
			Messages: []state.Message{{Role: "user", Content: "a"}},
		}))

		st, err := saver.Get(ctx, "thread_b")
		require.NoError(t, err)
		assert.Empty(t, st.Messages)
	})

	t.Run("should return defensive copies", func(t *testing.T) {
		saver := NewMemorySaver()

		require.NoError(t, saver.Put(ctx, "thread_001", state.State{
			Messages: []state.Message{{Role: "user", Content: "original"}},
		}))

		loaded, err := saver.Get(ctx, "thread_001")
		require.NoError(t, err)
		loaded.Messages[0].Content = "mutated"

		again, err := saver.Get(ctx, "thread_001")
		require.NoError(t, err)
		assert.Equal(t, "original", again.Messages[0].Content)
	})

	t.Run("should list threads in first-seen order", func(t *testing.T) {
		saver := NewMemorySaver()

		require.NoError(t, saver.Put(ctx, "t1", state.New()))
		require.NoError(t, saver.Put(ctx, "t2", state.New()))
		require.NoError(t, saver.Put(ctx, "t1", state.New()))

		threads, err := saver.Threads(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"t1", "t2"}, threads)
	})

	t.Run("should reject invalid thread ids", func(t *testing.T) {
		saver := NewMemorySaver()

		for _, id := range []string{"", "a/b", "a\\b", "..", "x\x00y"} {
			assert.Error(t, saver.Put(ctx, id, state.New()), "id %q", id)
		}
	})
}
