package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestHandleFatal(t *testing.T) {
	exitCode := -1
	origExit := osExit
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = origExit }()

	tempDir := t.TempDir()
	stale := filepath.Join(tempDir, "stale.tmp")
	fresh := filepath.Join(tempDir, "fresh.tmp")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fresh, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	n := &fakeNotifier{}
	l, path, _ := newTestLogger(t, Options{Level: Info, Notifier: n, TempDir: tempDir})

	l.HandleFatal("backup", "tar -czf /backups/etc.tar.gz /etc", 2)

	if exitCode != 2 {
		t.Errorf("exit code = %d, want the original 2", exitCode)
	}

	lines := entryLines(t, path)
	found := false
	for _, line := range lines {
		if strings.Contains(line, "[CRITICAL]") && strings.Contains(line, "[backup]") &&
			strings.Contains(line, "exit code: 2") {
			found = true
		}
	}
	if !found {
		t.Errorf("no CRITICAL entry naming the failing operation, lines: %v", lines)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale temp file survived fatal cleanup")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh temp file removed by fatal cleanup")
	}

	if n.count() != 1 {
		t.Errorf("dispatch attempts = %d, want 1", n.count())
	}
}
