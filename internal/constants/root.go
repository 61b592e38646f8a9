package constants

const (
	AppName           = "habitkit"
	DefaultConfigPath = "~/.config/habitkit/habitkit.db"
	Version           = "v0.1.0"

	// DateFormat is the calendar-day format used for completions (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the reminder time format (HH:MM)
	TimeFormat = "15:04"

	// DisplayDateFormat renders a calendar day for people, e.g. "Jan 2, 2006"
	DisplayDateFormat = "Jan 2, 2006"

	// Storage keys
	HabitsKey = "habits"
	UserKey   = "user"

	// UserRateWindowDays is the fixed per-habit window used by the profile completion rate.
	UserRateWindowDays = 30

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitkit-"
	BackupFileSuffix = ".db"

	// Lockfile constants
	LockfileName = "habitkit.lock"

	// Keyring constants
	DefaultKeyringUser = "database-connection"

	// Environment variables
	EnvDBConnection = "HABITKIT_DB_CONNECTION"
	EnvConfig       = "HABITKIT_CONFIG"
	EnvTimezone     = "HABITKIT_TIMEZONE"
)
