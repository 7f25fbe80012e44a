package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var runTimeout time.Duration

var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Run a command with logged start, duration, and exit status",
	Long: `Run an external command, recording its start, duration, and exit status
in the sysward log. A non-zero exit status from the command becomes this
process's exit status.

Use --timeout to bound how long the command may run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Log == nil {
			return fmt.Errorf("logger not initialized")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, runTimeout)
			defer cancel()
		}

		code, err := Log.LogCommand(ctx, args[0], args[1:]...)
		if err != nil {
			return fmt.Errorf("run %s: %w", args[0], err)
		}
		if code != 0 {
			osExit(code)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Kill the command after this duration (0 = no limit)")
	rootCmd.AddCommand(runCmd)
}
