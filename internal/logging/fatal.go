package logging

import (
	"os"
	"path/filepath"
	"time"
)

// osExit is swapped out in tests.
var osExit = os.Exit

// staleTempAge is how old a temp file must be before fatal cleanup removes it.
const staleTempAge = 24 * time.Hour

// RegisterJob tracks a background process spawned by this session so that
// fatal cleanup can terminate it.
func (l *Logger) RegisterJob(p *os.Process) {
	if p == nil {
		return
	}
	l.c.mu.Lock()
	l.c.jobs = append(l.c.jobs, p)
	l.c.mu.Unlock()
}

// HandleFatal is the sole path by which the logging subsystem ends the
// process: it records a CRITICAL entry naming the failing operation,
// performs best-effort cleanup (stale temp files, registered background
// jobs), sends a notification if enabled, and exits with the original code.
func (l *Logger) HandleFatal(origin, command string, exitCode int) {
	view := l
	if origin != "" {
		view = l.WithOrigin(origin)
	}
	// The CRITICAL entry also triggers the notification attempt; the wait
	// below keeps the bounded dispatch from being cut off by the exit.
	view.Logf(Critical, "fatal: %s failed (exit code: %d)", command, exitCode)

	l.cleanupTempFiles()
	l.terminateJobs()

	c := l.c
	c.dispatch.Wait()
	c.mu.Lock()
	_ = c.file.Close()
	c.mu.Unlock()
	osExit(exitCode)
}

// cleanupTempFiles removes files in the temp directory older than one day.
func (l *Logger) cleanupTempFiles() {
	dir := l.c.tempDir
	if dir == "" {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := l.c.now().Add(-staleTempAge)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, e.Name()))
		}
	}
}

// terminateJobs kills any background processes registered with the session.
func (l *Logger) terminateJobs() {
	l.c.mu.Lock()
	jobs := l.c.jobs
	l.c.jobs = nil
	l.c.mu.Unlock()
	for _, p := range jobs {
		_ = p.Kill()
	}
}
