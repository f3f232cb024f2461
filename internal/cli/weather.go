package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danapr/lumen/pkg/agent"
	"github.com/danapr/lumen/pkg/state"
)

var weatherCmd = &cobra.Command{
	Use:   "weather [question]",
	Short: "Ask a stateless one-turn question with the weather tool",
	Long: `Sends a single user turn to the model with the get_weather tool
registered. No thread id is used, so each call starts from an empty
history.`,
	RunE: runWeather,
}

func init() {
	rootCmd.AddCommand(weatherCmd)
}

func runWeather(cmd *cobra.Command, args []string) error {
	question := "What is the weather in Tokyo?"
	if len(args) > 0 {
		question = strings.Join(args, " ")
	}

	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.log.Close()

	ag, err := rt.newAgent("", []string{"get_weather"}, nil, "")
	if err != nil {
		return err
	}

	result, err := ag.Invoke(cmd.Context(), state.State{
		Messages: []state.Message{state.UserMessage(question)},
	}, agent.InvokeOptions{})
	if err != nil {
		return err
	}

	if last, ok := result.LastMessage(); ok {
		fmt.Fprintln(cmd.OutOrStdout(), last.Content)
	}
	return nil
}
