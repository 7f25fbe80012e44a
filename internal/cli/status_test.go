package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sysward/internal/config"
	"sysward/internal/sysinfo"
)

func newFakeProber(t *testing.T) *sysinfo.Prober {
	t.Helper()
	proc := t.TempDir()
	files := map[string]string{
		"stat":    "cpu  100 0 50 800 50 0 0 0 0 0\n",
		"meminfo": "MemTotal: 1000 kB\nMemAvailable: 600 kB\n",
		"loadavg": "0.50 0.40 0.30 1/100 200\n",
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(proc, name), []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return &sysinfo.Prober{
		ProcPath:  proc,
		Mounts:    []string{t.TempDir()},
		SampleGap: 10 * time.Millisecond,
	}
}

func TestStatusCommand_NilProber(t *testing.T) {
	origProber := Prober
	defer func() { Prober = origProber }()
	Prober = nil

	if err := statusCmd.RunE(statusCmd, []string{}); err == nil {
		t.Fatal("expected error when Prober is nil")
	}
}

func TestStatusCommand_Text(t *testing.T) {
	origProber := Prober
	origSettings := Settings
	origLog := Log
	origOutput := statusOutput
	defer func() {
		Prober = origProber
		Settings = origSettings
		Log = origLog
		statusOutput = origOutput
	}()

	Prober = newFakeProber(t)
	Settings = &config.Settings{}
	Log = nil
	statusOutput = "text"

	if err := statusCmd.RunE(statusCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatusCommand_YAML(t *testing.T) {
	origProber := Prober
	origSettings := Settings
	origLog := Log
	origOutput := statusOutput
	defer func() {
		Prober = origProber
		Settings = origSettings
		Log = origLog
		statusOutput = origOutput
	}()

	Prober = newFakeProber(t)
	Settings = &config.Settings{}
	Log = nil
	statusOutput = "yaml"

	if err := statusCmd.RunE(statusCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatusCommand_UnknownOutput(t *testing.T) {
	origProber := Prober
	origSettings := Settings
	origLog := Log
	origOutput := statusOutput
	defer func() {
		Prober = origProber
		Settings = origSettings
		Log = origLog
		statusOutput = origOutput
	}()

	Prober = newFakeProber(t)
	Settings = &config.Settings{}
	Log = nil
	statusOutput = "json"

	if err := statusCmd.RunE(statusCmd, []string{}); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

func TestStatusCommand_LogsFindings(t *testing.T) {
	origProber := Prober
	origSettings := Settings
	origLog := Log
	origOutput := statusOutput
	defer func() {
		Prober = origProber
		Settings = origSettings
		Log = origLog
		statusOutput = origOutput
	}()

	Prober = newFakeProber(t)
	// Memory sits at 40%; a 10% warning bound forces a finding.
	Settings = &config.Settings{MemoryWarning: 10}
	statusOutput = "text"

	logPath := filepath.Join(t.TempDir(), "sysward.log")
	Log = mustLogger(t, logPath)

	if err := statusCmd.RunE(statusCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !containsLine(string(data), "[WARN] [status] memory usage") {
		t.Errorf("finding not recorded in log, got:\n%s", string(data))
	}
}
