// Package logging implements the sysward event log: a level-filtered,
// append-only file sink with size-triggered rotation, an interactive error
// channel for warnings and above, a parallel security log, and best-effort
// notification dispatch for severe events.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// timeFormat is the second-resolution timestamp used in every log line.
const timeFormat = "2006-01-02 15:04:05"

// Notifier delivers formatted alerts to an external channel. Delivery is
// best-effort: a returned error is recorded at INFO and never escalated.
type Notifier interface {
	Dispatch(level, message string) error
}

// Options configures a Logger.
type Options struct {
	// Path is the active log file. Its parent directory is created.
	Path string
	// SecurityPath is the parallel security log. Defaults to
	// security.log next to Path.
	SecurityPath string
	// Level is the minimum severity recorded.
	Level Level
	// Origin identifies the logical caller in each line.
	Origin string
	// Version appears in the session-start banner.
	Version string
	// Console is the interactive error channel mirroring WARN and above.
	// Defaults to os.Stderr.
	Console io.Writer
	// Notifier receives ERROR and CRITICAL events, and all security
	// events. Nil disables dispatch.
	Notifier Notifier
	// MaxSize triggers rotation of the active file once exceeded.
	// Zero disables size-triggered rotation.
	MaxSize int64
	// MaxFiles bounds the numbered rotation backups. Defaults to 5.
	MaxFiles int
	// TempDir is swept of stale files during fatal cleanup.
	TempDir string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// core is the state shared by all Logger views of one log file.
type core struct {
	mu   sync.Mutex
	file *os.File
	size int64

	path         string
	securityPath string
	maxSize      int64
	maxFiles     int
	tempDir      string

	level atomic.Int32

	console  io.Writer
	notifier Notifier
	now      func() time.Time

	sessionID string
	jobs      []*os.Process
	dispatch  sync.WaitGroup
}

// Logger records timestamped, level-filtered entries. Loggers sharing a file
// are cheap views over common state; see WithOrigin.
type Logger struct {
	origin string
	c      *core
}

var (
	consoleWarn  = color.New(color.FgYellow)
	consoleError = color.New(color.FgRed)
	consoleCrit  = color.New(color.FgRed, color.Bold)
)

// New opens (creating if needed) the log file at opts.Path, appends the
// session-start banner, and returns a Logger at the requested level.
func New(opts Options) (*Logger, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}

	c := &core{
		file:         f,
		size:         st.Size(),
		path:         opts.Path,
		securityPath: opts.SecurityPath,
		maxSize:      opts.MaxSize,
		maxFiles:     opts.MaxFiles,
		tempDir:      opts.TempDir,
		console:      opts.Console,
		notifier:     opts.Notifier,
		now:          opts.Now,
		sessionID:    uuid.NewString(),
	}
	if c.securityPath == "" {
		c.securityPath = filepath.Join(filepath.Dir(opts.Path), "security.log")
	}
	if c.maxFiles <= 0 {
		c.maxFiles = 5
	}
	if c.console == nil {
		c.console = os.Stderr
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.level.Store(int32(opts.Level))

	l := &Logger{origin: opts.Origin, c: c}
	if l.origin == "" {
		l.origin = "sysward"
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	// The banner is written unconditionally; it marks the session boundary
	// even at restrictive levels.
	c.mu.Lock()
	err = c.appendLocked(c.now(), Info, l.origin,
		fmt.Sprintf("=== session start (version %s, session %s) ===", version, c.sessionID))
	c.mu.Unlock()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return l, nil
}

// WithOrigin returns a view of the same log with a different origin tag.
func (l *Logger) WithOrigin(origin string) *Logger {
	return &Logger{origin: origin, c: l.c}
}

// Level returns the current minimum severity.
func (l *Logger) Level() Level {
	return Level(l.c.level.Load())
}

// SetLevel adjusts the minimum severity at runtime (config hot reload).
func (l *Logger) SetLevel(level Level) {
	l.c.level.Store(int32(level))
}

// SessionID returns the identifier written in the session banner.
func (l *Logger) SessionID() string {
	return l.c.sessionID
}

// Path returns the active log file path.
func (l *Logger) Path() string {
	return l.c.path
}

// SecurityPath returns the security log file path.
func (l *Logger) SecurityPath() string {
	return l.c.securityPath
}

// Log records a message at the given level. Entries below the current level
// are silently dropped. WARN and above are mirrored to the interactive error
// channel; ERROR and above trigger one asynchronous notification attempt.
func (l *Logger) Log(level Level, msg string) {
	if level < l.Level() {
		return
	}
	c := l.c

	c.mu.Lock()
	ts := c.now()
	if err := c.appendLocked(ts, level, l.origin, msg); err != nil {
		// Log I/O failures surface on the error channel only; they
		// must never abort the calling feature.
		fmt.Fprintf(c.console, "log write failed: %v\n", err)
	}
	c.mu.Unlock()

	if level >= Warn {
		l.mirror(level, msg)
	}
	if level >= Error {
		l.notify(level, msg)
	}
}

// Logf is Log with formatting.
func (l *Logger) Logf(level Level, format string, args ...any) {
	l.Log(level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any)    { l.Logf(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...any)     { l.Logf(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)     { l.Logf(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...any)    { l.Logf(Error, format, args...) }
func (l *Logger) Criticalf(format string, args ...any) { l.Logf(Critical, format, args...) }

// mirror writes a colorized copy of the entry to the interactive channel.
func (l *Logger) mirror(level Level, msg string) {
	var c *color.Color
	switch {
	case level >= Critical:
		c = consoleCrit
	case level >= Error:
		c = consoleError
	default:
		c = consoleWarn
	}
	_, _ = c.Fprintf(l.c.console, "[%s] %s\n", level, msg)
}

// notify launches one bounded, fire-and-forget dispatch attempt. The result
// is discarded except for an INFO record of failures.
func (l *Logger) notify(level Level, msg string) {
	c := l.c
	if c.notifier == nil {
		return
	}
	c.dispatch.Add(1)
	go func() {
		defer c.dispatch.Done()
		if err := c.notifier.Dispatch(level.String(), msg); err != nil {
			l.Logf(Info, "notification dispatch failed: %v", err)
		}
	}()
}

// LogSecurityEvent records a security event: a WARN entry in the main log, a
// parallel line in the security log, and an immediate notification attempt
// that bypasses the level filter.
func (l *Logger) LogSecurityEvent(kind, details string) {
	l.Log(Warn, fmt.Sprintf("security event [%s] %s", kind, details))

	c := l.c
	c.mu.Lock()
	line := fmt.Sprintf("%s [%s] %s\n", c.now().Format(timeFormat), kind, details)
	if err := appendFile(c.securityPath, line); err != nil {
		fmt.Fprintf(c.console, "security log write failed: %v\n", err)
	}
	c.mu.Unlock()

	// Security events always notify when the feature is on, regardless of
	// the configured level.
	if c.notifier != nil {
		c.dispatch.Add(1)
		go func() {
			defer c.dispatch.Done()
			if err := c.notifier.Dispatch(Warn.String(),
				fmt.Sprintf("security event [%s] %s", kind, details)); err != nil {
				l.Logf(Info, "notification dispatch failed: %v", err)
			}
		}()
	}
}

// appendLocked formats and writes one entry. Callers hold c.mu.
func (c *core) appendLocked(ts time.Time, level Level, origin, msg string) error {
	line := fmt.Sprintf("[%s] [%s] [%s] %s\n", ts.Format(timeFormat), level, origin, msg)

	if c.maxSize > 0 && c.size+int64(len(line)) > c.maxSize {
		if err := c.rotateLocked(); err != nil {
			fmt.Fprintf(c.console, "log rotation failed: %v\n", err)
		}
	}

	n, err := c.file.WriteString(line)
	c.size += int64(n)
	if err != nil {
		return fmt.Errorf("appending log entry: %w", err)
	}
	return nil
}

// appendFile appends a single line to path, creating it if needed.
func appendFile(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return nil
}

// Close waits for in-flight notification attempts and closes the log file.
func (l *Logger) Close() error {
	l.c.dispatch.Wait()
	l.c.mu.Lock()
	defer l.c.mu.Unlock()
	if err := l.c.file.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}
