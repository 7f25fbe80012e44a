package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"sysward/internal/analyze"
	"sysward/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Analyze, report on, and rotate sysward logs",
}

var logsAnalyzeFile string

var logsAnalyzeCmd = &cobra.Command{
	Use:   "analyze <pattern>",
	Short: "Count and summarize log lines matching a pattern",
	Long: `Count log lines matching a pattern, show the most recent matches, and
bucket matches by hour of day.

The pattern is a regular expression; an invalid expression falls back to
plain substring matching.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := Analyzer
		if logsAnalyzeFile != "" {
			a = analyze.New(logsAnalyzeFile)
		}
		if a == nil {
			return fmt.Errorf("log analyzer not initialized")
		}

		res, err := a.Analyze(args[0])
		if err != nil {
			return fmt.Errorf("analyzing log: %w", err)
		}

		fmt.Printf("pattern: %s\nmatches: %d\n", res.Pattern, res.Total)
		if len(res.ByHour) > 0 {
			fmt.Println("\nby hour:")
			for _, hc := range res.ByHour {
				fmt.Printf("  %02d:00  %d\n", hc.Hour, hc.Count)
			}
		}
		if len(res.Recent) > 0 {
			fmt.Println("\nmost recent matches:")
			for _, line := range res.Recent {
				fmt.Printf("  %s\n", line)
			}
		}
		return nil
	},
}

var (
	logsReportWindow int
	logsReportOut    string
)

var logsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a summary report of recent log activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Analyzer == nil {
			return fmt.Errorf("log analyzer not initialized")
		}

		out := logsReportOut
		if out == "" {
			dir := "."
			if Settings != nil {
				dir = Settings.LogDir
			}
			out = filepath.Join(dir, "sysward-report-"+time.Now().Format("20060102-150405")+".txt")
		}

		if err := Analyzer.Report(logsReportWindow, out); err != nil {
			return fmt.Errorf("generating report: %w", err)
		}
		fmt.Printf("report written to %s\n", out)
		return nil
	},
}

var logsRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate oversized log files in the log directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Settings == nil {
			return fmt.Errorf("settings not initialized")
		}
		if err := logging.Rotate(Settings.LogDir, Settings.MaxLogSize, Settings.MaxLogFiles); err != nil {
			return fmt.Errorf("rotating logs: %w", err)
		}
		fmt.Printf("rotation complete in %s\n", Settings.LogDir)
		return nil
	},
}

func init() {
	logsAnalyzeCmd.Flags().StringVar(&logsAnalyzeFile, "file", "", "Analyze this file instead of the active log")
	logsReportCmd.Flags().IntVar(&logsReportWindow, "window", 24, "Report window in hours")
	logsReportCmd.Flags().StringVar(&logsReportOut, "out", "", "Report output path (default: timestamped file in the log directory)")
	logsCmd.AddCommand(logsAnalyzeCmd, logsReportCmd, logsRotateCmd)
	rootCmd.AddCommand(logsCmd)
}
