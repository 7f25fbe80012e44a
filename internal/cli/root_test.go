package cli

import "testing"

func TestRootCommand_Registration(t *testing.T) {
	want := []string{"version", "config", "logs", "run", "status", "backup", "menu"}
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("expected %q command to be registered", name)
		}
	}
}

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := appVersion, appCommit, appDate
	defer func() {
		appVersion, appCommit, appDate = origVersion, origCommit, origDate
	}()

	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	if appVersion != "1.2.3" {
		t.Errorf("appVersion = %q, want %q", appVersion, "1.2.3")
	}
	if appCommit != "abc123" {
		t.Errorf("appCommit = %q, want %q", appCommit, "abc123")
	}
	if appDate != "2026-01-01" {
		t.Errorf("appDate = %q, want %q", appDate, "2026-01-01")
	}
}
