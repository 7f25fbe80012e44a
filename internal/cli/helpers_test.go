package cli

import (
	"errors"
	"strings"
	"testing"

	"sysward/internal/logging"
)

// errSentinel stands in for any data-load failure.
var errSentinel = errors.New("load failed")

// mustLogger creates a logger writing to path, closed at test cleanup.
func mustLogger(t *testing.T, path string) *logging.Logger {
	t.Helper()
	log, err := logging.New(logging.Options{Path: path})
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

// containsLine reports whether any line of contents contains substr.
func containsLine(contents, substr string) bool {
	for _, line := range strings.Split(contents, "\n") {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
