package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/danapr/lumen/pkg/agent"
	"github.com/danapr/lumen/pkg/state"
)

const memorySystemPrompt = "You are a helpful assistant that remembers user preferences. " +
	"Always consider the user's preferences when making recommendations."

// customStateSchema constrains the extension fields the memory session
// carries alongside the message history.
const customStateSchema = `{
	"type": "object",
	"properties": {
		"user_id": {"type": "string"},
		"user_name": {"type": "string"},
		"preferences": {"type": "object"},
		"interaction_count": {"type": "integer"}
	}
}`

var memoryThreadID string

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Run a three-turn session on one thread with persistent memory",
	Long: `Runs three scripted turns against the model with the profile and
preference tools registered, a system prompt, custom state fields, and a
checkpoint store. All turns share one thread id, so each turn sees the
history of the previous ones.`,
	RunE: runMemory,
}

func init() {
	memoryCmd.Flags().StringVar(&memoryThreadID, "thread", "", "thread id (default: a generated uuid)")
	rootCmd.AddCommand(memoryCmd)
}

func runMemory(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.log.Close()

	saver, closeSaver, err := rt.newSaver()
	if err != nil {
		return err
	}
	defer closeSaver()

	ag, err := rt.newAgent(
		memorySystemPrompt,
		[]string{"get_user_profile", "save_user_preference"},
		saver,
		customStateSchema,
	)
	if err != nil {
		return err
	}

	threadID := memoryThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	turns := []struct {
		title   string
		content string
		values  map[string]interface{}
	}{
		{
			title:   "first turn",
			content: "Hi, my name is Alice and I prefer dark theme",
			values: map[string]interface{}{
				"user_id":           "user_123",
				"user_name":         "Alice",
				"preferences":       map[string]interface{}{"theme": "dark"},
				"interaction_count": 1,
			},
		},
		{
			title:   "second turn (same thread)",
			content: "What theme do you think I prefer?",
			values: map[string]interface{}{
				"user_id":           "user_123",
				"user_name":         "Alice",
				"preferences":       map[string]interface{}{"theme": "dark"},
				"interaction_count": 2,
			},
		},
		{
			title:   "third turn (same thread)",
			content: "Save my language preference as Chinese",
			values: map[string]interface{}{
				"user_id":           "user_123",
				"user_name":         "Alice",
				"preferences":       map[string]interface{}{"theme": "dark", "language": "zh"},
				"interaction_count": 3,
			},
		},
	}

	for _, turn := range turns {
		fmt.Fprintf(out, "=== %s ===\n", turn.title)

		result, err := ag.Invoke(ctx, state.State{
			Messages: []state.Message{state.UserMessage(turn.content)},
			Values:   turn.values,
		}, agent.InvokeOptions{ThreadID: threadID})
		if err != nil {
			return err
		}

		if last, ok := result.LastMessage(); ok {
			fmt.Fprintf(out, "Agent Response: %s\n", last.Content)
		}
		if count, ok := result.Int("interaction_count"); ok {
			fmt.Fprintf(out, "Interaction Count: %d\n", count)
		}
		fmt.Fprintf(out, "Message History Length: %d\n\n", len(result.Messages))
	}

	fmt.Fprintf(out, "Thread: %s\n", threadID)
	return nil
}
