package sysinfo

import "fmt"

// Severity classifies a finding.
type Severity string

const (
	SeverityWarning  Severity = "WARN"
	SeverityCritical Severity = "CRITICAL"
)

// Thresholds holds the warning and critical bounds a snapshot is checked
// against. Percent values except the load pair, which are load averages.
type Thresholds struct {
	CPUWarning     float64
	CPUCritical    float64
	MemoryWarning  float64
	MemoryCritical float64
	DiskWarning    float64
	DiskCritical   float64
	LoadWarning    float64
	LoadCritical   float64
}

// Finding is one threshold violation.
type Finding struct {
	Subsystem string
	Severity  Severity
	Message   string
	Value     float64
}

// Check evaluates a snapshot against thresholds. A metric at or above its
// critical bound yields a single critical finding, not an additional
// warning. A zero threshold disables that bound.
func Check(s *Snapshot, t Thresholds) []Finding {
	var findings []Finding

	add := func(subsystem string, value, warn, crit float64, format string) {
		switch {
		case crit > 0 && value >= crit:
			findings = append(findings, Finding{
				Subsystem: subsystem,
				Severity:  SeverityCritical,
				Message:   fmt.Sprintf(format, value) + fmt.Sprintf(" (critical threshold %g)", crit),
				Value:     value,
			})
		case warn > 0 && value >= warn:
			findings = append(findings, Finding{
				Subsystem: subsystem,
				Severity:  SeverityWarning,
				Message:   fmt.Sprintf(format, value) + fmt.Sprintf(" (warning threshold %g)", warn),
				Value:     value,
			})
		}
	}

	add("cpu", s.CPUPercent, t.CPUWarning, t.CPUCritical, "cpu usage at %.1f%%")
	add("memory", s.MemoryPercent, t.MemoryWarning, t.MemoryCritical, "memory usage at %.1f%%")
	add("load", s.Load1, t.LoadWarning, t.LoadCritical, "1-minute load at %.2f")

	for _, d := range s.Disks {
		add("disk "+d.Mount, d.Percent, t.DiskWarning, t.DiskCritical,
			"disk usage on "+d.Mount+" at %.1f%%")
	}

	return findings
}
