package analyze

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	reportErrorSamples    = 10
	reportCriticalSamples = 5
)

// Report summarizes log activity within the last windowHours and writes a
// plain-text document to outPath: summary counts followed by the most recent
// ERROR and CRITICAL samples inside the window.
func (a *Analyzer) Report(windowHours int, outPath string) error {
	f, err := os.Open(a.LogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, a.LogPath)
		}
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	now := a.Now()
	cutoff := now.Add(-time.Duration(windowHours) * time.Hour)

	var total, warnings, errors, criticals int
	var errorLines, criticalLines []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ts, err := time.ParseInLocation(timeFormat, m[1], time.Local)
		if err != nil || ts.Before(cutoff) {
			continue
		}

		total++
		switch m[3] {
		case "WARN":
			warnings++
		case "ERROR":
			errors++
			errorLines = append(errorLines, line)
			if len(errorLines) > reportErrorSamples {
				errorLines = errorLines[1:]
			}
		case "CRITICAL":
			criticals++
			criticalLines = append(criticalLines, line)
			if len(criticalLines) > reportCriticalSamples {
				criticalLines = criticalLines[1:]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning log file: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "sysward log report\n")
	fmt.Fprintf(&b, "generated: %s\n", now.Format(timeFormat))
	fmt.Fprintf(&b, "window:    last %d hours (since %s)\n", windowHours, cutoff.Format(timeFormat))
	fmt.Fprintf(&b, "log file:  %s\n\n", a.LogPath)
	fmt.Fprintf(&b, "total entries: %d\n", total)
	fmt.Fprintf(&b, "warnings:      %d\n", warnings)
	fmt.Fprintf(&b, "errors:        %d\n", errors)
	fmt.Fprintf(&b, "critical:      %d\n\n", criticals)

	fmt.Fprintf(&b, "last %d ERROR entries:\n", reportErrorSamples)
	if len(errorLines) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, line := range errorLines {
		b.WriteString("  " + line + "\n")
	}

	fmt.Fprintf(&b, "\nlast %d CRITICAL entries:\n", reportCriticalSamples)
	if len(criticalLines) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, line := range criticalLines {
		b.WriteString("  " + line + "\n")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
