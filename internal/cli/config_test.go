package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sysward/internal/config"
)

func TestConfigCommand_Subcommands(t *testing.T) {
	want := []string{"get", "set", "reset", "validate", "export", "import"}
	registered := make(map[string]bool)
	for _, cmd := range configCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("expected config %q subcommand to be registered", name)
		}
	}
}

func TestConfigCommand_NilStore(t *testing.T) {
	origConfig := Config
	defer func() { Config = origConfig }()
	Config = nil

	err := configGetCmd.RunE(configGetCmd, []string{"LOG_LEVEL"})
	if err == nil {
		t.Fatal("expected error when Config is nil")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigCommand_SetThenGet(t *testing.T) {
	origConfig := Config
	defer func() { Config = origConfig }()

	path := filepath.Join(t.TempDir(), "sysward.conf")
	Config = config.NewStore(path)

	if err := configSetCmd.RunE(configSetCmd, []string{"LOG_LEVEL", "DEBUG"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if !strings.Contains(string(data), "LOG_LEVEL=DEBUG") {
		t.Errorf("config file missing assignment, got %q", string(data))
	}

	if err := configGetCmd.RunE(configGetCmd, []string{"LOG_LEVEL"}); err != nil {
		t.Fatalf("get failed: %v", err)
	}
}

func TestConfigCommand_ValidateFailure(t *testing.T) {
	origConfig := Config
	defer func() { Config = origConfig }()

	path := filepath.Join(t.TempDir(), "sysward.conf")
	if err := os.WriteFile(path, []byte("CPU_WARNING_THRESHOLD=banana\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	Config = config.NewStore(path)

	err := configValidateCmd.RunE(configValidateCmd, []string{})
	if err == nil {
		t.Fatal("expected validation error for non-numeric threshold")
	}
	if !strings.Contains(err.Error(), "validation failure") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigCommand_ImportMissingSource(t *testing.T) {
	origConfig := Config
	defer func() { Config = origConfig }()

	dir := t.TempDir()
	Config = config.NewStore(filepath.Join(dir, "sysward.conf"))

	err := configImportCmd.RunE(configImportCmd, []string{filepath.Join(dir, "missing.conf")})
	if err == nil {
		t.Fatal("expected error importing from a missing file")
	}
}

func TestConfigCommand_ExportRoundTrip(t *testing.T) {
	origConfig := Config
	defer func() { Config = origConfig }()

	dir := t.TempDir()
	path := filepath.Join(dir, "sysward.conf")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=WARN\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	Config = config.NewStore(path)

	out := filepath.Join(dir, "exported.conf")
	if err := configExportCmd.RunE(configExportCmd, []string{out}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading exported file: %v", err)
	}
	if string(data) != "LOG_LEVEL=WARN\n" {
		t.Errorf("exported contents = %q", string(data))
	}
}

func TestConfigCommand_Reset(t *testing.T) {
	origConfig := Config
	defer func() { Config = origConfig }()

	path := filepath.Join(t.TempDir(), "sysward.conf")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=WARN\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	Config = config.NewStore(path)

	if err := configResetCmd.RunE(configResetCmd, []string{}); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if !strings.Contains(string(data), "LOG_LEVEL=INFO") {
		t.Errorf("expected default document after reset, got %q", string(data))
	}
}
