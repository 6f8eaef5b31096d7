// Package cmd implements the CLI command structure for todoapp.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vmalla30210/CollaborativeTodoList/internal/config"
	"github.com/vmalla30210/CollaborativeTodoList/internal/logging"
	"github.com/vmalla30210/CollaborativeTodoList/internal/store"
	"github.com/vmalla30210/CollaborativeTodoList/internal/todo"
	"github.com/vmalla30210/CollaborativeTodoList/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todoapp CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todoapp", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args remain or the first arg is a flag, default to "run"
	subcommand := "run"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	// Execute the subcommand
	switch subcommand {
	case "run":
		return runCommand(ctx, cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "validate":
		return validateCommand(cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// runCommand starts the interactive shell (the default command).
func runCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoapp run", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if remaining := fs.Args(); len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	logger := logging.FromConfig(cfg)
	s, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	sh := newShell(s, os.Stdin, os.Stdout, cfg.DefaultUser)
	return sh.run(ctx)
}

// tuiCommand launches the read-only task board.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoapp tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if remaining := fs.Args(); len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	// Opening the store seeds the data file on first use so the board has
	// something to show.
	logger := logging.FromConfig(cfg)
	if _, err := openStore(cfg, logger); err != nil {
		return err
	}

	return ui.RunTUI(ctx, cfg)
}

// validateCommand checks the data file and reports problems.
func validateCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoapp validate", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := cfg.DataFile
	if remaining := fs.Args(); len(remaining) == 1 {
		path = remaining[0]
	} else if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}

	f, err := todo.Load(path)
	if err != nil {
		return err
	}

	result := f.Validate(todo.ValidationOptions{SchemaPath: cfg.SchemaFile})
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return fmt.Errorf("%s: %d validation error(s)", path, len(result.Errors))
	}

	fmt.Printf("%s: valid (%d tasks, %d categories, %d users)\n",
		path, len(f.Tasks), len(f.Categories), len(f.Users))
	return nil
}

func versionCommand() error {
	fmt.Printf("todoapp %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	return nil
}

func openStore(cfg *config.Config, logger *log.Logger) (*store.Store, error) {
	opts := []store.Option{store.WithLogger(logger)}
	if cfg.SchemaFile != "" {
		opts = append(opts, store.WithSchema(cfg.SchemaFile))
	}
	s, err := store.Open(cfg.DataFile, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todoapp - A collaborative todo list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todoapp [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run             Start the interactive shell (default command)")
	fmt.Fprintln(w, "  tui             Launch the read-only task board")
	fmt.Fprintln(w, "  validate [file] Check the data file against its schema")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
