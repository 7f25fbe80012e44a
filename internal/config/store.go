// Package config implements the layered configuration store for sysward.
// Values are resolved with a fixed precedence: process environment over the
// persisted KEY=VALUE file over built-in defaults. The persisted file is the
// only mutable layer; comments and blank lines in it survive rewrites.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// ErrNotFound is returned when an import or export source does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for resolving and mutating configuration values.
type Store interface {
	// Resolve returns the value for key using environment > file > def
	// precedence. It never fails; a key absent everywhere yields def.
	Resolve(key, def string) string
	// Set persists key=value into the config file, updating an existing
	// line in place or appending a new one.
	Set(key, value string) error
	// Reset archives the current file and writes the built-in defaults.
	Reset() error
	// Validate checks threshold values and required directories, returning
	// a list of human-readable failures. An empty list means valid.
	Validate() []string
	// IsEnabled interprets the resolved value for key as a boolean.
	IsEnabled(key string) bool
	// ExportTo copies the config file to an external path.
	ExportTo(path string) error
	// ImportFrom replaces the config file with the file at path.
	ImportFrom(path string) error
	// Path returns the location of the persisted config file.
	Path() string
}

// fileStore implements Store over a dotenv-style file read through Viper.
type fileStore struct {
	path string

	mu sync.Mutex
	// v caches the parsed file; nil means it must be (re)loaded.
	v *viper.Viper
	// resolved pins values for the remainder of the run. A key is only
	// re-resolved after an explicit Set, Reset, Import, or Invalidate.
	resolved map[string]string
}

// NewStore creates a Store backed by the KEY=VALUE file at path. The file
// does not need to exist yet; absent keys resolve to their defaults.
func NewStore(path string) Store {
	return &fileStore{
		path:     path,
		resolved: make(map[string]string),
	}
}

func (s *fileStore) Path() string { return s.path }

// load parses the config file through Viper. A missing file is not an error;
// it simply contributes no values.
func (s *fileStore) load() *viper.Viper {
	if s.v != nil {
		return s.v
	}
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// Missing or malformed file: fall back to a lenient line scan so
		// a single bad line does not hide the rest of the file.
		v = viper.New()
		if data, rerr := os.ReadFile(s.path); rerr == nil {
			for _, line := range strings.Split(string(data), "\n") {
				line = strings.TrimSpace(line)
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				key, val, ok := strings.Cut(line, "=")
				if !ok {
					continue
				}
				v.Set(strings.TrimSpace(key), strings.Trim(strings.TrimSpace(val), `"`))
			}
		}
	}
	s.v = v
	return s.v
}

// invalidate drops the parsed file and any pinned resolutions.
func (s *fileStore) invalidate() {
	s.v = nil
	s.resolved = make(map[string]string)
}

func (s *fileStore) Resolve(key, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if val, ok := s.resolved[key]; ok {
		return val
	}

	val := def
	v := s.load()
	if v.IsSet(key) {
		val = v.GetString(key)
	}
	if env := os.Getenv(key); env != "" {
		val = env
	}
	s.resolved[key] = val
	return val
}

var truthy = map[string]bool{"true": true, "1": true, "yes": true, "on": true}

func (s *fileStore) IsEnabled(key string) bool {
	return truthy[strings.ToLower(s.Resolve(key, Default(key)))]
}

// keyLinePattern matches a KEY=VALUE assignment for a specific key,
// tolerating leading whitespace.
func keyLinePattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(key) + `=`)
}

func (s *fileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Best-effort backup of the prior contents. A failed backup never
	// aborts the set.
	if len(data) > 0 {
		_ = os.WriteFile(s.path+".bak", data, 0o644)
	}

	lines := strings.Split(string(data), "\n")
	// Trailing newline produces one empty trailing element; drop it so the
	// rewrite does not accumulate blank lines.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	pattern := keyLinePattern(key)
	updated := false
	for i, line := range lines {
		if pattern.MatchString(line) {
			lines[i] = key + "=" + value
			updated = true
			break
		}
	}
	if !updated {
		lines = append(lines, key+"="+value)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(s.path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	s.invalidate()
	return nil
}

func (s *fileStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		archive := fmt.Sprintf("%s.%s.bak", s.path, time.Now().Format("20060102-150405"))
		if err := os.Rename(s.path, archive); err != nil {
			return fmt.Errorf("archiving config file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(DefaultDocument()), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	s.invalidate()
	return nil
}

func (s *fileStore) Validate() []string {
	var failures []string

	for _, key := range thresholdKeys {
		raw := s.Resolve(key, Default(key))
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %q is not a number", key, raw))
			continue
		}
		if f < 0 {
			failures = append(failures, fmt.Sprintf("%s: %v is negative", key, f))
		}
	}

	if _, err := ParseSize(s.Resolve(KeyMaxLogSize, Default(KeyMaxLogSize))); err != nil {
		failures = append(failures, fmt.Sprintf("%s: %v", KeyMaxLogSize, err))
	}

	for _, key := range directoryKeys {
		dir := s.Resolve(key, Default(key))
		if dir == "" {
			failures = append(failures, fmt.Sprintf("%s: no directory configured", key))
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			failures = append(failures, fmt.Sprintf("%s: cannot create %s: %v", key, dir, err))
		}
	}

	return failures
}

func (s *fileStore) ExportTo(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyFile(s.path, path)
}

func (s *fileStore) ImportFrom(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := copyFile(path, s.path); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// copyFile byte-copies src to dst, creating dst's directory if needed.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, src)
		}
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return nil
}
