package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (OS-specific config dir)
// 3. Project config file (todoapp.toml or .todoapp.toml in current directory)
// 4. .env file, then environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment (.env first, a missing file is fine)
	_ = godotenv.Load()
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODOAPP_DATA"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TODOAPP_SCHEMA"); v != "" {
		cfg.SchemaFile = v
	}
	if v := os.Getenv("TODOAPP_USER"); v != "" {
		cfg.DefaultUser = v
	}
	if v := os.Getenv("TODOAPP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODOAPP_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TODOAPP_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = v == "1" || v == "true"
	}
}

// parseFlags registers flags on fs and parses args into cfg.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.DataFile, "data", cfg.DataFile, "Path to the data file")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to a JSON Schema for the data file")
	fs.StringVar(&cfg.DefaultUser, "user", cfg.DefaultUser, "Default login user name")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")

	return fs.Parse(args)
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (want debug|info|warn|error)", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format %q (want text|json|logfmt)", cfg.LogFormat)
	}

	cfg.DataFile = expandPath(cfg.DataFile)
	cfg.SchemaFile = expandPath(cfg.SchemaFile)

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	// Make paths absolute if they're relative
	if !filepath.IsAbs(cfg.DataFile) {
		cfg.DataFile = filepath.Join(cfg.WorkDir, cfg.DataFile)
	}
	if cfg.SchemaFile != "" && !filepath.IsAbs(cfg.SchemaFile) {
		cfg.SchemaFile = filepath.Join(cfg.WorkDir, cfg.SchemaFile)
	}

	return nil
}
