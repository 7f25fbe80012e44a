package logging

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLogCommand_Success(t *testing.T) {
	l, path, _ := newTestLogger(t, Options{Level: Debug})

	code, err := l.LogCommand(context.Background(), "true")
	if err != nil {
		t.Fatalf("LogCommand: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	lines := entryLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want start + success", len(lines))
	}
	if !strings.Contains(lines[0], "[INFO]") || !strings.Contains(lines[0], "running command: true") {
		t.Errorf("start line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "[INFO]") || !strings.Contains(lines[1], "command succeeded") {
		t.Errorf("outcome line = %q", lines[1])
	}
}

func TestLogCommand_NonZeroExit(t *testing.T) {
	l, path, _ := newTestLogger(t, Options{Level: Debug})

	code, err := l.LogCommand(context.Background(), "sh", "-c", "exit 7")
	if err != nil {
		t.Fatalf("LogCommand returned error for a clean non-zero exit: %v", err)
	}
	if code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}

	lines := entryLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want start + failure", len(lines))
	}
	if !strings.Contains(lines[1], "[ERROR]") || !strings.Contains(lines[1], "exit code: 7") {
		t.Errorf("failure line = %q, want ERROR with exit code", lines[1])
	}
}

func TestLogCommand_NotFound(t *testing.T) {
	l, path, _ := newTestLogger(t, Options{Level: Debug})

	code, err := l.LogCommand(context.Background(), "definitely-not-a-command-xyz")
	if err == nil {
		t.Fatal("LogCommand for a missing binary succeeded, want error")
	}
	if code != -1 {
		t.Errorf("exit code = %d, want -1", code)
	}

	lines := entryLines(t, path)
	if len(lines) != 2 || !strings.Contains(lines[1], "could not be started") {
		t.Errorf("lines = %v, want start + could-not-start", lines)
	}
}

func TestLogCommand_Timeout(t *testing.T) {
	l, path, _ := newTestLogger(t, Options{Level: Debug})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	code, err := l.LogCommand(ctx, "sleep", "10")
	if err != nil {
		t.Fatalf("LogCommand: %v", err)
	}
	if code == 0 {
		t.Error("exit code = 0 for a killed command")
	}

	lines := entryLines(t, path)
	found := false
	for _, line := range lines {
		if strings.Contains(line, "[ERROR]") && strings.Contains(line, "timed out") {
			found = true
		}
	}
	if !found {
		t.Errorf("no timeout ERROR recorded, lines: %v", lines)
	}
}
