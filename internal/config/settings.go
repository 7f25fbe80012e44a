package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Settings holds every recognized configuration value in typed form,
// resolved once at load time. Callers hold a Settings value instead of
// performing per-call string coercion against the store.
type Settings struct {
	LogLevel    string
	MaxLogSize  int64
	MaxLogFiles int
	LogDir      string

	CPUWarning     float64
	CPUCritical    float64
	MemoryWarning  float64
	MemoryCritical float64
	DiskWarning    float64
	DiskCritical   float64
	LoadWarning    float64
	LoadCritical   float64

	NetworkTimeout time.Duration

	EmailNotifications bool
	EmailRecipients    []string
	SMTPServer         string
	WebhookURL         string

	BackupRetentionDays int
	BackupCompression   bool
	BackupEncryption    bool
	BackupDir           string

	TempDir string
}

// Load resolves and parses every recognized setting from the store.
// Parse failures are reported immediately rather than surfacing later as
// per-call coercion errors.
func Load(s Store) (*Settings, error) {
	set := &Settings{
		LogLevel:   s.Resolve(KeyLogLevel, Default(KeyLogLevel)),
		LogDir:     s.Resolve(KeyLogDir, Default(KeyLogDir)),
		SMTPServer: s.Resolve(KeySMTPServer, Default(KeySMTPServer)),
		WebhookURL: s.Resolve(KeyWebhookURL, Default(KeyWebhookURL)),
		BackupDir:  s.Resolve(KeyBackupDir, Default(KeyBackupDir)),
		TempDir:    s.Resolve(KeyTempDir, Default(KeyTempDir)),

		EmailNotifications: s.IsEnabled(KeyEmailNotifications),
		BackupCompression:  s.IsEnabled(KeyBackupCompression),
		BackupEncryption:   s.IsEnabled(KeyBackupEncryption),
	}

	var err error
	if set.MaxLogSize, err = ParseSize(s.Resolve(KeyMaxLogSize, Default(KeyMaxLogSize))); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyMaxLogSize, err)
	}
	if set.MaxLogFiles, err = resolveInt(s, KeyMaxLogFiles); err != nil {
		return nil, err
	}
	if set.BackupRetentionDays, err = resolveInt(s, KeyBackupRetentionDays); err != nil {
		return nil, err
	}

	seconds, err := resolveInt(s, KeyNetworkTimeout)
	if err != nil {
		return nil, err
	}
	set.NetworkTimeout = time.Duration(seconds) * time.Second

	thresholds := []struct {
		key string
		dst *float64
	}{
		{KeyCPUWarning, &set.CPUWarning},
		{KeyCPUCritical, &set.CPUCritical},
		{KeyMemoryWarning, &set.MemoryWarning},
		{KeyMemoryCritical, &set.MemoryCritical},
		{KeyDiskWarning, &set.DiskWarning},
		{KeyDiskCritical, &set.DiskCritical},
		{KeyLoadWarning, &set.LoadWarning},
		{KeyLoadCritical, &set.LoadCritical},
	}
	for _, t := range thresholds {
		raw := s.Resolve(t.key, Default(t.key))
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: parsing %q: %w", t.key, raw, err)
		}
		*t.dst = f
	}

	if raw := s.Resolve(KeyEmailRecipients, Default(KeyEmailRecipients)); raw != "" {
		for _, r := range strings.Split(raw, ",") {
			if r = strings.TrimSpace(r); r != "" {
				set.EmailRecipients = append(set.EmailRecipients, r)
			}
		}
	}

	return set, nil
}

func resolveInt(s Store, key string) (int, error) {
	raw := s.Resolve(key, Default(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: parsing %q: %w", key, raw, err)
	}
	return n, nil
}

// ParseSize converts a size string with an optional K, M, or G suffix into
// bytes. The units are binary: 1K = 1024 bytes. A bare number is bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	mult := int64(1)
	switch s[len(s)-1] {
	case 'K':
		mult = 1 << 10
		s = s[:len(s)-1]
	case 'M':
		mult = 1 << 20
		s = s[:len(s)-1]
	case 'G':
		mult = 1 << 30
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("size must be non-negative, got %d", n)
	}
	return n * mult, nil
}
