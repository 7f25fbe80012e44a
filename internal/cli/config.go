package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sysward/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and modify sysward configuration",
	Long: `Inspect and modify the sysward configuration file.

Values resolve with a fixed precedence: a non-empty environment variable
wins over the configuration file, which wins over the built-in default.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the resolved value for a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("config store not initialized")
		}
		fmt.Println(Config.Resolve(args[0], config.Default(args[0])))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a key in the configuration file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("config store not initialized")
		}
		if err := Config.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("setting %s: %w", args[0], err)
		}
		fmt.Printf("%s=%s written to %s\n", args[0], args[1], Config.Path())
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Archive the current file and restore built-in defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("config store not initialized")
		}
		if err := Config.Reset(); err != nil {
			return fmt.Errorf("resetting configuration: %w", err)
		}
		fmt.Printf("defaults restored to %s\n", Config.Path())
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check thresholds and required directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("config store not initialized")
		}
		failures := Config.Validate()
		if len(failures) == 0 {
			fmt.Println("configuration valid")
			return nil
		}
		for _, f := range failures {
			fmt.Printf("  %s\n", f)
		}
		return fmt.Errorf("%d validation failure(s)", len(failures))
	},
}

var configExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Copy the configuration file to a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("config store not initialized")
		}
		if err := Config.ExportTo(args[0]); err != nil {
			return fmt.Errorf("exporting configuration: %w", err)
		}
		fmt.Printf("configuration exported to %s\n", args[0])
		return nil
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Replace the configuration file with the file at a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("config store not initialized")
		}
		if err := Config.ImportFrom(args[0]); err != nil {
			return fmt.Errorf("importing configuration: %w", err)
		}
		fmt.Printf("configuration imported from %s\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configResetCmd,
		configValidateCmd, configExportCmd, configImportCmd)
	rootCmd.AddCommand(configCmd)
}
