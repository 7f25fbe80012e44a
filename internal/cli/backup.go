package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list, and prune backups",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create <path> [path...]",
	Short: "Archive the given paths into the backup directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Backups == nil {
			return fmt.Errorf("backup manager not initialized")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		path, err := Backups.Create(ctx, args...)
		if err != nil {
			return fmt.Errorf("creating backup: %w", err)
		}
		fmt.Printf("backup written to %s\n", path)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing backups, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Backups == nil {
			return fmt.Errorf("backup manager not initialized")
		}
		archives, err := Backups.List()
		if err != nil {
			return fmt.Errorf("listing backups: %w", err)
		}
		if len(archives) == 0 {
			fmt.Println("no backups found")
			return nil
		}
		for _, a := range archives {
			fmt.Printf("%s  %8.1f MB  %s\n",
				a.ModTime.Format("2006-01-02 15:04"), float64(a.Size)/(1<<20), a.Path)
		}
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove backups older than the retention window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Backups == nil {
			return fmt.Errorf("backup manager not initialized")
		}
		removed, err := Backups.Prune()
		if err != nil {
			return fmt.Errorf("pruning backups: %w", err)
		}
		fmt.Printf("removed %d backup(s)\n", removed)
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}
