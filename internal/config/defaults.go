package config

// Recognized configuration keys.
const (
	KeyLogLevel    = "LOG_LEVEL"
	KeyMaxLogSize  = "MAX_LOG_SIZE"
	KeyMaxLogFiles = "MAX_LOG_FILES"

	KeyCPUWarning     = "CPU_WARNING_THRESHOLD"
	KeyCPUCritical    = "CPU_CRITICAL_THRESHOLD"
	KeyMemoryWarning  = "MEMORY_WARNING_THRESHOLD"
	KeyMemoryCritical = "MEMORY_CRITICAL_THRESHOLD"
	KeyDiskWarning    = "DISK_WARNING_THRESHOLD"
	KeyDiskCritical   = "DISK_CRITICAL_THRESHOLD"
	KeyLoadWarning    = "LOAD_WARNING_THRESHOLD"
	KeyLoadCritical   = "LOAD_CRITICAL_THRESHOLD"

	KeyNetworkTimeout = "NETWORK_TIMEOUT"

	KeyEmailNotifications = "ENABLE_EMAIL_NOTIFICATIONS"
	KeyEmailRecipients    = "EMAIL_RECIPIENTS"
	KeySMTPServer         = "SMTP_SERVER"
	KeyWebhookURL         = "WEBHOOK_URL"

	KeyBackupRetentionDays = "DEFAULT_BACKUP_RETENTION_DAYS"
	KeyBackupCompression   = "BACKUP_COMPRESSION"
	KeyBackupEncryption    = "BACKUP_ENCRYPTION"

	KeyLogDir    = "LOG_DIR"
	KeyBackupDir = "BACKUP_DIR"
	KeyTempDir   = "TEMP_DIR"
)

// thresholdKeys are the numeric settings checked by Validate.
var thresholdKeys = []string{
	KeyCPUWarning, KeyCPUCritical,
	KeyMemoryWarning, KeyMemoryCritical,
	KeyDiskWarning, KeyDiskCritical,
	KeyLoadWarning, KeyLoadCritical,
	KeyNetworkTimeout,
	KeyMaxLogFiles,
	KeyBackupRetentionDays,
}

// directoryKeys are settings whose values must name existing (or creatable)
// directories.
var directoryKeys = []string{KeyLogDir, KeyBackupDir, KeyTempDir}

// defaults holds the built-in value for every recognized key.
var defaults = map[string]string{
	KeyLogLevel:    "INFO",
	KeyMaxLogSize:  "10M",
	KeyMaxLogFiles: "5",

	KeyCPUWarning:     "80",
	KeyCPUCritical:    "95",
	KeyMemoryWarning:  "80",
	KeyMemoryCritical: "95",
	KeyDiskWarning:    "85",
	KeyDiskCritical:   "95",
	KeyLoadWarning:    "4",
	KeyLoadCritical:   "8",

	KeyNetworkTimeout: "5",

	KeyEmailNotifications: "false",
	KeyEmailRecipients:    "",
	KeySMTPServer:         "localhost:25",
	KeyWebhookURL:         "",

	KeyBackupRetentionDays: "30",
	KeyBackupCompression:   "true",
	KeyBackupEncryption:    "false",

	KeyLogDir:    "/var/log/sysward",
	KeyBackupDir: "/var/backups/sysward",
	KeyTempDir:   "/tmp/sysward",
}

// Default returns the built-in default for key, or "" if key is unrecognized.
func Default(key string) string {
	return defaults[key]
}

// DefaultDocument returns the full commented default configuration written
// by Reset.
func DefaultDocument() string {
	return `# sysward configuration
# One KEY=VALUE per line. Lines starting with # are comments.
# Environment variables with the same names override values in this file.

# Logging
LOG_LEVEL=INFO
MAX_LOG_SIZE=10M
MAX_LOG_FILES=5
LOG_DIR=/var/log/sysward

# Alert thresholds (percent, except LOAD_* which are load averages)
CPU_WARNING_THRESHOLD=80
CPU_CRITICAL_THRESHOLD=95
MEMORY_WARNING_THRESHOLD=80
MEMORY_CRITICAL_THRESHOLD=95
DISK_WARNING_THRESHOLD=85
DISK_CRITICAL_THRESHOLD=95
LOAD_WARNING_THRESHOLD=4
LOAD_CRITICAL_THRESHOLD=8

# Network probe timeout in seconds
NETWORK_TIMEOUT=5

# Notifications
ENABLE_EMAIL_NOTIFICATIONS=false
EMAIL_RECIPIENTS=
SMTP_SERVER=localhost:25
WEBHOOK_URL=

# Backups
DEFAULT_BACKUP_RETENTION_DAYS=30
BACKUP_COMPRESSION=true
BACKUP_ENCRYPTION=false
BACKUP_DIR=/var/backups/sysward

# Working directories
TEMP_DIR=/tmp/sysward
`
}
