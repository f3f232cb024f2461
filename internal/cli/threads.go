package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List persisted conversation threads",
	RunE:  runThreads,
}

func init() {
	rootCmd.AddCommand(threadsCmd)
}

func runThreads(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.log.Close()

	if rt.cfg.Memory.Backend != "sqlite" {
		return fmt.Errorf("thread listing requires the sqlite memory backend (current: %s)", rt.cfg.Memory.Backend)
	}

	saver, closeSaver, err := rt.newSaver()
	if err != nil {
		return err
	}
	defer closeSaver()

	threads, err := saver.Threads(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(threads) == 0 {
		fmt.Fprintln(out, "No threads found.")
		return nil
	}
	for _, id := range threads {
		fmt.Fprintln(out, id)
	}
	return nil
}
