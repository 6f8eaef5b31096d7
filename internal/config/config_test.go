package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir is a stand-in for testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("todoapp-test", flag.ContinueOnError)
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := filepath.Base(cfg.DataFile); got != DefaultDataFile {
		t.Errorf("DataFile: got %s, want %s", got, DefaultDataFile)
	}
	if !filepath.IsAbs(cfg.DataFile) {
		t.Errorf("DataFile should be absolute, got %s", cfg.DataFile)
	}
	if cfg.SchemaFile != "" {
		t.Errorf("SchemaFile: got %s, want empty", cfg.SchemaFile)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %s, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: got %s, want text", cfg.LogFormat)
	}
	if cfg.WorkDir == "" {
		t.Error("WorkDir should be computed")
	}
}

func TestLoadProjectFile(t *testing.T) {
	chdir(t, t.TempDir())

	content := `data_file = "custom.json"
default_user = "alice"
log_level = "debug"
`
	if err := os.WriteFile("todoapp.toml", []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := filepath.Base(cfg.DataFile); got != "custom.json" {
		t.Errorf("DataFile: got %s, want custom.json", got)
	}
	if cfg.DefaultUser != "alice" {
		t.Errorf("DefaultUser: got %s, want alice", cfg.DefaultUser)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %s, want debug", cfg.LogLevel)
	}
}

func TestLoadHiddenProjectFile(t *testing.T) {
	chdir(t, t.TempDir())

	if err := os.WriteFile(".todoapp.toml", []byte(`default_user = "bob"`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultUser != "bob" {
		t.Errorf("DefaultUser: got %s, want bob", cfg.DefaultUser)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	chdir(t, t.TempDir())

	if err := os.WriteFile("todoapp.toml", []byte(`log_level = "debug"`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("TODOAPP_LOG_LEVEL", "warn")
	t.Setenv("TODOAPP_USER", "carol")

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %s, want warn (env over file)", cfg.LogLevel)
	}
	if cfg.DefaultUser != "carol" {
		t.Errorf("DefaultUser: got %s, want carol", cfg.DefaultUser)
	}
}

func TestDotEnvFeedsEnvironment(t *testing.T) {
	chdir(t, t.TempDir())

	// godotenv does not override variables already set, so make sure the
	// one we care about is absent.
	os.Unsetenv("TODOAPP_USER")
	if err := os.WriteFile(".env", []byte("TODOAPP_USER=dave\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TODOAPP_USER") })

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultUser != "dave" {
		t.Errorf("DefaultUser: got %s, want dave (from .env)", cfg.DefaultUser)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("TODOAPP_DATA", "from-env.json")

	cfg, err := Load(newFlagSet(), []string{"-data", "from-flag.json", "-log-format", "json"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := filepath.Base(cfg.DataFile); got != "from-flag.json" {
		t.Errorf("DataFile: got %s, want from-flag.json (flag over env)", got)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %s, want json", cfg.LogFormat)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad level", []string{"-log-level", "loud"}, "invalid log level"},
		{"bad format", []string{"-log-format", "xml"}, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newFlagSet(), tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error: got %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	if got := expandPath("~/todo.json"); got != filepath.Join(home, "todo.json") {
		t.Errorf("expandPath(~/todo.json): got %s", got)
	}
	if got := expandPath("plain.json"); got != "plain.json" {
		t.Errorf("expandPath(plain.json): got %s", got)
	}
	if got := expandPath(""); got != "" {
		t.Errorf("expandPath(empty): got %s", got)
	}
}
