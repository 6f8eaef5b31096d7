package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vmalla30210/CollaborativeTodoList/internal/store"
)

func newShellStore(t *testing.T) *store.Store {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s, err := store.Open(filepath.Join(t.TempDir(), "todo-data.json"), store.WithLogger(logger))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

// runScript feeds the given lines to a fresh shell and returns its output.
func runScript(t *testing.T, s *store.Store, defaultUser string, lines ...string) string {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	sh := newShell(s, in, &out, defaultUser)
	if err := sh.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out.String()
}

func TestShellFullSession(t *testing.T) {
	s := newShellStore(t)

	out := runScript(t, s, "",
		"alice", // login
		"6", "Travel", // add category
		"3", "Book flight", "window seat", "2025-12-01", "Travel", "", // add task, self-assigned
		"1",      // view all
		"2",      // view mine
		"4", "1", // complete
		"5", "1", // delete
		"8", // exit
	)

	for _, want := range []string{
		"Logged in as: alice",
		"Category added: Travel",
		"Task added: #1: Book flight (Pending) due 2025-12-01 [Travel] - alice",
		"Task #1 marked as complete",
		"Task #1 deleted",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if got := len(s.AllTasks()); got != 0 {
		t.Errorf("AllTasks count after session: got %d, want 0", got)
	}
	if got := len(s.UserTasks("alice")); got != 0 {
		t.Errorf("UserTasks(alice) count: got %d, want 0", got)
	}
}

func TestShellRejectsNonNumericChoice(t *testing.T) {
	s := newShellStore(t)

	out := runScript(t, s, "",
		"alice",
		"nine", // not a number
		"8",
	)

	if !strings.Contains(out, "Please enter a number") {
		t.Errorf("output missing re-prompt message:\n%s", out)
	}
}

func TestShellRejectsEmptyUsername(t *testing.T) {
	s := newShellStore(t)

	out := runScript(t, s, "",
		"",      // rejected
		"   ",   // rejected
		"alice", // accepted
		"8",
	)

	if got := strings.Count(out, "Username must not be empty"); got != 2 {
		t.Errorf("empty-name rejections: got %d, want 2\n%s", got, out)
	}
	if !strings.Contains(out, "Logged in as: alice") {
		t.Errorf("output missing login confirmation:\n%s", out)
	}
}

func TestShellDefaultUserPrefillsLogin(t *testing.T) {
	s := newShellStore(t)

	out := runScript(t, s, "bob",
		"", // accept the default
		"8",
	)

	if !strings.Contains(out, "Logged in as: bob") {
		t.Errorf("output missing default-user login:\n%s", out)
	}
}

func TestShellBadDateAndUnknownCategory(t *testing.T) {
	s := newShellStore(t)

	out := runScript(t, s, "",
		"alice",
		"3", "Task", "", "13/31/2099", "Work", "", // bad date
		"3", "Task", "", "2025-06-01", "Nope", "", // unknown category
		"8",
	)

	if !strings.Contains(out, "Invalid date format. Use YYYY-MM-DD") {
		t.Errorf("output missing bad-date message:\n%s", out)
	}
	if !strings.Contains(out, "Category not found") {
		t.Errorf("output missing unknown-category message:\n%s", out)
	}
	if got := len(s.AllTasks()); got != 0 {
		t.Errorf("AllTasks count: got %d, want 0", got)
	}
}

func TestShellTaskNotFound(t *testing.T) {
	s := newShellStore(t)

	out := runScript(t, s, "",
		"alice",
		"4", "42",
		"5", "42",
		"8",
	)

	if got := strings.Count(out, "Task not found"); got != 2 {
		t.Errorf("not-found messages: got %d, want 2\n%s", got, out)
	}
}

func TestShellChangeUser(t *testing.T) {
	s := newShellStore(t)

	out := runScript(t, s, "",
		"alice",
		"7", "bob", // change user
		"8",
	)

	if !strings.Contains(out, "Logged in as: bob") {
		t.Errorf("output missing second login:\n%s", out)
	}
	users := s.UserNames()
	if len(users) != 3 { // admin + alice + bob
		t.Errorf("UserNames: got %v, want 3 entries", users)
	}
}

func TestShellListsUsersAtLogin(t *testing.T) {
	s := newShellStore(t)

	out := runScript(t, s, "", "alice", "8")

	if !strings.Contains(out, "Available users: admin") {
		t.Errorf("output missing seeded user list:\n%s", out)
	}
}

func TestShellEOFExitsCleanly(t *testing.T) {
	s := newShellStore(t)

	var out bytes.Buffer
	sh := newShell(s, strings.NewReader(""), &out, "")
	if err := sh.run(context.Background()); err != nil {
		t.Fatalf("run on empty input: got %v, want nil", err)
	}
}

func TestShellViewsWhenEmpty(t *testing.T) {
	s := newShellStore(t)

	out := runScript(t, s, "",
		"alice",
		"1",
		"2",
		"8",
	)

	if !strings.Contains(out, "No tasks found") {
		t.Errorf("output missing empty all-tasks message:\n%s", out)
	}
	if !strings.Contains(out, "No tasks assigned to you") {
		t.Errorf("output missing empty my-tasks message:\n%s", out)
	}
}
