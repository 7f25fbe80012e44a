package cli

import (
	"sysward/internal/analyze"
	"sysward/internal/backup"
	"sysward/internal/config"
	"sysward/internal/logging"
	"sysward/internal/sysinfo"
)

// Service instances, set during app initialization in app.go.
var (
	Config   config.Store
	Settings *config.Settings
	Log      *logging.Logger
	Analyzer *analyze.Analyzer
	Prober   *sysinfo.Prober
	Backups  *backup.Manager
)
