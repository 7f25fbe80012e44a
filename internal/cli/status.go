package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sysward/internal/logging"
	"sysward/internal/sysinfo"
)

var statusOutput string

// statusReport is the yaml-facing shape of a health check.
type statusReport struct {
	Taken    string          `yaml:"taken"`
	CPU      float64         `yaml:"cpu_percent"`
	Memory   float64         `yaml:"memory_percent"`
	Load     [3]float64      `yaml:"load"`
	Disks    []statusDisk    `yaml:"disks"`
	Findings []statusFinding `yaml:"findings,omitempty"`
}

type statusDisk struct {
	Mount   string  `yaml:"mount"`
	Percent float64 `yaml:"percent"`
	FreeGB  float64 `yaml:"free_gb"`
}

type statusFinding struct {
	Subsystem string `yaml:"subsystem"`
	Severity  string `yaml:"severity"`
	Message   string `yaml:"message"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Sample host metrics and check them against thresholds",
	Long: `Sample CPU, memory, load, and disk usage, and compare each against the
configured warning and critical thresholds. Violations are recorded in
the sysward log, which drives alerting for critical findings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Prober == nil {
			return fmt.Errorf("prober not initialized")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		snap, err := Prober.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("sampling host metrics: %w", err)
		}

		var findings []sysinfo.Finding
		if Settings != nil {
			findings = sysinfo.Check(snap, configuredThresholds())
		}
		logFindings(findings)

		switch statusOutput {
		case "yaml":
			return printStatusYAML(snap, findings)
		case "text", "":
			printStatusText(snap, findings)
			return nil
		default:
			return fmt.Errorf("unknown output format %q (want text or yaml)", statusOutput)
		}
	},
}

// configuredThresholds maps the loaded settings onto check bounds. Callers
// guard against nil Settings.
func configuredThresholds() sysinfo.Thresholds {
	return sysinfo.Thresholds{
		CPUWarning:     Settings.CPUWarning,
		CPUCritical:    Settings.CPUCritical,
		MemoryWarning:  Settings.MemoryWarning,
		MemoryCritical: Settings.MemoryCritical,
		DiskWarning:    Settings.DiskWarning,
		DiskCritical:   Settings.DiskCritical,
		LoadWarning:    Settings.LoadWarning,
		LoadCritical:   Settings.LoadCritical,
	}
}

// logFindings records each violation so that critical findings alert.
func logFindings(findings []sysinfo.Finding) {
	if Log == nil {
		return
	}
	for _, f := range findings {
		level := logging.Warn
		if f.Severity == sysinfo.SeverityCritical {
			level = logging.Critical
		}
		Log.WithOrigin("status").Log(level, f.Message)
	}
}

func printStatusText(snap *sysinfo.Snapshot, findings []sysinfo.Finding) {
	fmt.Printf("cpu:    %.1f%%\n", snap.CPUPercent)
	fmt.Printf("memory: %.1f%%\n", snap.MemoryPercent)
	fmt.Printf("load:   %.2f %.2f %.2f\n", snap.Load1, snap.Load5, snap.Load15)
	for _, d := range snap.Disks {
		fmt.Printf("disk:   %-12s %.1f%% used, %.1f GB free\n",
			d.Mount, d.Percent, float64(d.FreeBytes)/(1<<30))
	}

	if len(findings) == 0 {
		fmt.Println("\nall checks passed")
		return
	}
	fmt.Println()
	for _, f := range findings {
		fmt.Printf("%-8s %s\n", "["+string(f.Severity)+"]", f.Message)
	}
}

func printStatusYAML(snap *sysinfo.Snapshot, findings []sysinfo.Finding) error {
	report := statusReport{
		Taken:  snap.Taken.Format("2006-01-02 15:04:05"),
		CPU:    snap.CPUPercent,
		Memory: snap.MemoryPercent,
		Load:   [3]float64{snap.Load1, snap.Load5, snap.Load15},
	}
	for _, d := range snap.Disks {
		report.Disks = append(report.Disks, statusDisk{
			Mount:   d.Mount,
			Percent: d.Percent,
			FreeGB:  float64(d.FreeBytes) / (1 << 30),
		})
	}
	for _, f := range findings {
		report.Findings = append(report.Findings, statusFinding{
			Subsystem: f.Subsystem,
			Severity:  string(f.Severity),
			Message:   f.Message,
		})
	}

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	_ = enc.Close()
	fmt.Print(b.String())
	return nil
}

func init() {
	statusCmd.Flags().StringVar(&statusOutput, "output", "text", "Output format (text or yaml)")
	rootCmd.AddCommand(statusCmd)
}
