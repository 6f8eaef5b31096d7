package config

// Default values.
const (
	DefaultDataFile  = "todo-data.json"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for todoapp.
type Config struct {
	// Paths
	DataFile   string `toml:"data_file"`
	SchemaFile string `toml:"schema_file"`

	// Session
	DefaultUser string `toml:"default_user"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// setDefaults fills cfg with the built-in defaults.
func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.SchemaFile = ""
	cfg.DefaultUser = ""
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
}
