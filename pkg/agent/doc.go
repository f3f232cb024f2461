// Package agent runs blocking, tool-calling conversation turns against a
// chat-completion provider, with optional thread-scoped memory.
//
// Invariants:
// - Agent configuration is immutable after New.
// - When a saver and thread id are present, prior state is loaded and merged
//   before the model loop and persisted after it.
// - Message history only ever grows within a thread.
// - Tool calls route through the tool registry only.
//
// Usage:
//
//	ag, _ := agent.New(agent.Config{Provider: p, Registry: reg, Model: "gpt-4o"})
//	st, _ := ag.Invoke(ctx, state.State{
//		Messages: []state.Message{state.UserMessage("hello")},
//	}, agent.InvokeOptions{ThreadID: "thread_001"})
//	_ = st
package agent
