package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// findUserConfigFile returns the path to the user-level config file, or ""
// if none exists.
func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "todoapp", "todoapp.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// findProjectConfigFile returns the path to the project-level config file in
// the current directory, or "" if none exists.
func findProjectConfigFile() string {
	for _, name := range []string{"todoapp.toml", ".todoapp.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// expandPath expands a ~/ or ~\ prefix and environment variables in paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if expanded == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return home
	}
	if strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}
