package constants

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitual"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	DefaultConfigFile  = "~/.config/habitual/config.toml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DateTimeFormat is used when printing completion timestamps
	DateTimeFormat = "2006-01-02 15:04"

	// WeekFormat is the label format for ISO weeks, e.g. 2026-W07
	WeekFormat = "%04d-W%02d"

	// Environment variables
	EnvDBConnection = "HABITUAL_DB_CONNECTION"
	EnvTestPostgres = "HABITUAL_TEST_POSTGRES"

	// Settings keys
	SettingTimezone = "timezone"

	// Default settings values
	DefaultTimezone = "Local" // Use system local timezone by default

	// Periodicity values as stored
	PeriodicityDaily  = "daily"
	PeriodicityWeekly = "weekly"

	// Log rotation
	LogDirName    = "logs"
	LogFileName   = "habitual.log"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Seed fixture
	SeedDays = 28
)
