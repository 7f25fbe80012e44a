// Package internal provides the App struct that wires all sysward services
// together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"sysward/internal/analyze"
	"sysward/internal/backup"
	"sysward/internal/cli"
	"sysward/internal/config"
	"sysward/internal/logging"
	"sysward/internal/notify"
	"sysward/internal/sysinfo"
)

// defaultConfigPath is where sysward looks for its configuration unless
// SYSWARD_CONFIG points elsewhere.
const defaultConfigPath = "/etc/sysward/sysward.conf"

// App holds all service dependencies for sysward.
type App struct {
	ConfigPath string

	Config     config.Store
	Settings   *config.Settings
	Log        *logging.Logger
	Dispatcher *notify.Dispatcher
	Analyzer   *analyze.Analyzer
	Prober     *sysinfo.Prober
	Backups    *backup.Manager
	Watcher    *config.Watcher
}

// NewApp creates and wires all sysward services. configPath names the
// KEY=VALUE configuration file; it does not need to exist yet.
func NewApp(configPath, version string) (*App, error) {
	app := &App{ConfigPath: configPath}

	// --- Configuration ---
	app.Config = config.NewStore(configPath)
	settings, err := config.Load(app.Config)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	app.Settings = settings

	// --- Notification dispatch ---
	// A configured webhook wins over SMTP; both off yields a no-op
	// dispatcher and the logger simply records nothing for alerts.
	var transport notify.Transport
	enabled := false
	switch {
	case settings.WebhookURL != "":
		transport = notify.NewWebhookTransport(settings.WebhookURL)
		enabled = true
	case settings.EmailNotifications && settings.SMTPServer != "":
		transport = notify.NewSMTPTransport(settings.SMTPServer, "")
		enabled = true
	}
	app.Dispatcher = notify.NewDispatcher(enabled, transport, settings.EmailRecipients,
		notify.WithTimeout(settings.NetworkTimeout))

	// --- Logging ---
	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		// An unrecognized level falls back to INFO rather than refusing
		// to start; the value is still reported by config validate.
		level = logging.Info
	}
	app.Log, err = logging.New(logging.Options{
		Path:     filepath.Join(settings.LogDir, "sysward.log"),
		Level:    level,
		Origin:   "sysward",
		Version:  version,
		Notifier: app.Dispatcher,
		MaxSize:  settings.MaxLogSize,
		MaxFiles: settings.MaxLogFiles,
		TempDir:  settings.TempDir,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	// --- Analysis, probes, backups ---
	app.Analyzer = analyze.New(app.Log.Path())
	app.Prober = sysinfo.NewProber()
	app.Backups = backup.NewManager(
		settings.BackupDir,
		settings.BackupRetentionDays,
		settings.BackupCompression,
		app.Log.WithOrigin("backup"),
	)

	// --- Config hot reload ---
	app.Watcher = config.NewWatcher(configPath, 0, app.reload)
	if err := app.Watcher.Start(); err != nil {
		// Watching is a convenience; a host without inotify room still
		// runs, it just needs a restart to pick up config edits.
		app.Log.Debugf("config watch unavailable: %v", err)
	}

	// --- Wire CLI package-level variables ---
	cli.Config = app.Config
	cli.Settings = app.Settings
	cli.Log = app.Log
	cli.Analyzer = app.Analyzer
	cli.Prober = app.Prober
	cli.Backups = app.Backups

	return app, nil
}

// reload re-resolves settings after the config file changes. Resolved values
// are pinned per store, so a fresh store is built over the same file; only
// settings that are safe to adjust mid-run are applied.
func (a *App) reload() {
	settings, err := config.Load(config.NewStore(a.ConfigPath))
	if err != nil {
		a.Log.Warnf("config reload failed: %v", err)
		return
	}

	if level, err := logging.ParseLevel(settings.LogLevel); err == nil && level != a.Log.Level() {
		a.Log.SetLevel(level)
		a.Log.Infof("log level changed to %s", level)
	}

	a.Settings = settings
	cli.Settings = settings
}

// Close stops the config watcher and closes the log, waiting for in-flight
// notification attempts.
func (a *App) Close() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	if a.Log != nil {
		return a.Log.Close()
	}
	return nil
}

// ResolveConfigPath determines where the configuration file lives: the
// SYSWARD_CONFIG environment variable when set, else the system default.
func ResolveConfigPath() string {
	if path := os.Getenv("SYSWARD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
