// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (OS-specific config directory)
// 3. Project config file (todoapp.toml or .todoapp.toml in the working directory)
// 4. A project .env file, then environment variables (TODOAPP_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - Windows: %APPDATA%\todoapp\todoapp.toml
// - macOS: ~/Library/Application Support/todoapp/todoapp.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todoapp/todoapp.toml or ~/.config/todoapp/todoapp.toml
//
// Project-level config locations (overrides user config):
// - ./todoapp.toml (preferred)
// - ./.todoapp.toml
package config
