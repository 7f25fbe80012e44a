package logging

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LogCommand runs an external command under the caller's context, recording
// start and outcome. A non-zero exit is recorded at ERROR with the exit code
// and returned as a status; it never terminates the process. The returned
// error is non-nil only when the command could not be started at all.
func (l *Logger) LogCommand(ctx context.Context, name string, args ...string) (int, error) {
	display := name
	if len(args) > 0 {
		display = name + " " + strings.Join(args, " ")
	}
	l.Logf(Info, "running command: %s", display)

	cmd := exec.CommandContext(ctx, name, args...)
	start := l.c.now()
	err := cmd.Run()
	// Coarse wall-clock duration; sub-second precision is noise here.
	seconds := int(l.c.now().Sub(start).Seconds())

	if err == nil {
		l.Logf(Info, "command succeeded: %s (took %ds)", display, seconds)
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if ctx.Err() != nil {
			l.Logf(Error, "command timed out: %s (after %ds): %v", display, seconds, ctx.Err())
		} else {
			l.Logf(Error, "command failed: %s (exit code: %d, took %ds)", display, code, seconds)
		}
		return code, nil
	}

	// The command never ran (not found, permission, cancelled context).
	l.Logf(Error, "command could not be started: %s: %v", display, err)
	return -1, fmt.Errorf("starting %s: %w", name, err)
}
