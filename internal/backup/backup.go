// Package backup creates and prunes tar archives of configured paths. The
// archive tool is invoked through the logging command wrapper so every run
// is recorded with its duration and exit status.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Runner executes an external command and returns its exit status. It is
// satisfied by *logging.Logger.
type Runner interface {
	LogCommand(ctx context.Context, name string, args ...string) (int, error)
}

// Archive describes one existing backup file.
type Archive struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Manager creates, lists, and prunes backups in one directory.
type Manager struct {
	// Dir is where archives are written.
	Dir string
	// RetentionDays bounds how long archives are kept by Prune.
	RetentionDays int
	// Compression selects gzip-compressed archives.
	Compression bool

	runner Runner
	now    func() time.Time
}

// NewManager creates a Manager writing to dir with the given retention.
func NewManager(dir string, retentionDays int, compression bool, runner Runner) *Manager {
	return &Manager{
		Dir:           dir,
		RetentionDays: retentionDays,
		Compression:   compression,
		runner:        runner,
		now:           time.Now,
	}
}

// archivePrefix names every archive this tool manages; Prune only ever
// touches matching files.
const archivePrefix = "sysward-backup-"

// Create archives the given source paths and returns the archive path.
// A non-zero tar exit is returned as an error; the run itself is already
// recorded by the command wrapper.
func (m *Manager) Create(ctx context.Context, sources ...string) (string, error) {
	if len(sources) == 0 {
		return "", fmt.Errorf("no source paths given")
	}
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	name := archivePrefix + m.now().Format("20060102-150405") + ".tar"
	flags := "-cf"
	if m.Compression {
		name += ".gz"
		flags = "-czf"
	}
	path := filepath.Join(m.Dir, name)

	args := append([]string{flags, path}, sources...)
	code, err := m.runner.LogCommand(ctx, "tar", args...)
	if err != nil {
		return "", fmt.Errorf("running tar: %w", err)
	}
	if code != 0 {
		return "", fmt.Errorf("tar exited with status %d", code)
	}
	return path, nil
}

// List returns the managed archives in Dir, newest first.
func (m *Manager) List() ([]Archive, error) {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var archives []Archive
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), archivePrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		archives = append(archives, Archive{
			Path:    filepath.Join(m.Dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(archives, func(i, j int) bool {
		return archives[i].ModTime.After(archives[j].ModTime)
	})
	return archives, nil
}

// Prune removes archives older than the retention window, oldest first,
// and returns how many were removed.
func (m *Manager) Prune() (int, error) {
	archives, err := m.List()
	if err != nil {
		return 0, err
	}

	cutoff := m.now().AddDate(0, 0, -m.RetentionDays)
	removed := 0
	for i := len(archives) - 1; i >= 0; i-- {
		a := archives[i]
		if !a.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(a.Path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", a.Path, err)
		}
		removed++
	}
	return removed, nil
}
