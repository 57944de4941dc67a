// Command gesturereplay replays scripted pointer and key input against a
// headless chart and prints the resulting window updates.
package main

import (
	"os"

	"tracegraph/internal/version"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "gesturereplay SCRIPT",
		Short:        "Replay a gesture script against a headless chart",
		Version:      version.String(),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Level: level})

			script, err := LoadScript(args[0])
			if err != nil {
				return err
			}
			final, err := Replay(script, cmd.OutOrStdout(), logger)
			if err != nil {
				return err
			}
			logger.Info("replay finished", "events", len(script.Events), "view", final.View())
			return nil
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	return cmd
}
