package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// rotateLocked rotates the logger's own active file. Callers hold c.mu, so
// rotation cannot interleave with this process's writes; concurrent writers
// from other processes require external serialization.
func (c *core) rotateLocked() error {
	if err := c.file.Close(); err != nil {
		return fmt.Errorf("closing active log: %w", err)
	}
	if err := rotateFile(c.path, c.maxFiles); err != nil {
		// Reopen regardless so logging continues on the old file.
		f, oerr := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if oerr == nil {
			c.file = f
		}
		return err
	}
	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("reopening rotated log: %w", err)
	}
	c.file = f
	c.size = 0
	return nil
}

// Rotate scans dir for *.log files larger than maxSize and rotates each one
// independently: numbered backups shift up one slot (backups beyond maxFiles
// are discarded, oldest first), the active file becomes backup 1, and a
// fresh empty active file is created with standard permissions.
//
// Rotate is not safe to run concurrently with writers to the same files;
// callers serialize externally.
func Rotate(dir string, maxSize int64, maxFiles int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading log directory: %w", err)
	}

	var firstErr error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		st, err := os.Stat(path)
		if err != nil || st.Size() <= maxSize {
			continue
		}
		if err := rotateFile(path, maxFiles); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// rotateFile shifts numbered backups of path up by one slot, moves the
// active file into slot 1, and recreates an empty active file.
func rotateFile(path string, maxFiles int) error {
	if maxFiles < 1 {
		maxFiles = 1
	}

	// Drop the backup that would shift past the retention bound.
	_ = os.Remove(fmt.Sprintf("%s.%d", path, maxFiles))
	for i := maxFiles - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", path, i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, fmt.Sprintf("%s.%d", path, i+1)); err != nil {
			return fmt.Errorf("shifting backup %s: %w", src, err)
		}
	}

	if err := os.Rename(path, path+".1"); err != nil {
		return fmt.Errorf("archiving active log %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating fresh log %s: %w", path, err)
	}
	return f.Close()
}
