package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vmalla30210/CollaborativeTodoList/internal/store"
)

// shell is the line-based menu loop. All state mutation goes through the
// store; the shell only reads input and prints results.
type shell struct {
	store       *store.Store
	in          *bufio.Scanner
	out         io.Writer
	current     string
	defaultUser string
}

func newShell(s *store.Store, in io.Reader, out io.Writer, defaultUser string) *shell {
	return &shell{
		store:       s,
		in:          bufio.NewScanner(in),
		out:         out,
		defaultUser: defaultUser,
	}
}

// run drives the login prompt and the menu loop until the user exits or
// input is exhausted. It always returns nil on a normal exit so the process
// terminates with status 0.
func (sh *shell) run(ctx context.Context) error {
	fmt.Fprintln(sh.out, "=== Todo List App ===")
	if !sh.login() {
		return nil
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		sh.printMenu()
		choice, ok := sh.promptInt("Choice: ")
		if !ok {
			return nil
		}

		switch choice {
		case 1:
			sh.viewAllTasks()
		case 2:
			sh.viewMyTasks()
		case 3:
			sh.addTask()
		case 4:
			sh.completeTask()
		case 5:
			sh.deleteTask()
		case 6:
			sh.addCategory()
		case 7:
			if !sh.login() {
				return nil
			}
		case 8:
			return nil
		default:
			fmt.Fprintln(sh.out, "Invalid choice")
		}
	}
}

// login prompts for a username until a non-empty name is given, creating the
// user if new. Returns false when input runs out.
func (sh *shell) login() bool {
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, "=== Login ===")
	fmt.Fprintf(sh.out, "Available users: %s\n", strings.Join(sh.store.UserNames(), ", "))

	for {
		prompt := "Username (or new username): "
		if sh.defaultUser != "" {
			prompt = fmt.Sprintf("Username [%s]: ", sh.defaultUser)
		}
		line, ok := sh.promptLine(prompt)
		if !ok {
			return false
		}
		if line == "" {
			line = sh.defaultUser
		}

		name, err := sh.store.GetOrCreateUser(line)
		if err != nil {
			if errors.Is(err, store.ErrEmptyName) {
				fmt.Fprintln(sh.out, "Username must not be empty")
				continue
			}
			fmt.Fprintf(sh.out, "Login failed: %v\n", err)
			continue
		}
		sh.current = name
		fmt.Fprintf(sh.out, "Logged in as: %s\n", name)
		return true
	}
}

func (sh *shell) printMenu() {
	fmt.Fprintln(sh.out)
	fmt.Fprintf(sh.out, "=== Menu [%s] ===\n", sh.current)
	fmt.Fprintln(sh.out, "1. View All Tasks")
	fmt.Fprintln(sh.out, "2. View My Tasks")
	fmt.Fprintln(sh.out, "3. Add Task")
	fmt.Fprintln(sh.out, "4. Complete Task")
	fmt.Fprintln(sh.out, "5. Delete Task")
	fmt.Fprintln(sh.out, "6. Add Category")
	fmt.Fprintln(sh.out, "7. Change User")
	fmt.Fprintln(sh.out, "8. Exit")
}

func (sh *shell) viewAllTasks() {
	tasks := sh.store.AllTasks()
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, "=== All Tasks ===")
	if len(tasks) == 0 {
		fmt.Fprintln(sh.out, "No tasks found")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(sh.out, t.Label())
	}
}

func (sh *shell) viewMyTasks() {
	tasks := sh.store.UserTasks(sh.current)
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, "=== My Tasks ===")
	if len(tasks) == 0 {
		fmt.Fprintln(sh.out, "No tasks assigned to you")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(sh.out, t.Label())
	}
}

func (sh *shell) addTask() {
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, "=== Add Task ===")

	title, ok := sh.promptLine("Title: ")
	if !ok {
		return
	}
	desc, ok := sh.promptLine("Description: ")
	if !ok {
		return
	}
	due, ok := sh.promptLine("Due date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	fmt.Fprintf(sh.out, "Categories: %s\n", strings.Join(sh.store.Categories(), ", "))
	category, ok := sh.promptLine("Category: ")
	if !ok {
		return
	}
	assignee, ok := sh.promptLine("Assign to (leave empty for self): ")
	if !ok {
		return
	}
	if assignee == "" {
		assignee = sh.current
	}

	task, err := sh.store.AddTask(title, desc, due, category, assignee)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrBadDate):
			fmt.Fprintln(sh.out, "Invalid date format. Use YYYY-MM-DD")
		case errors.Is(err, store.ErrUnknownCategory):
			fmt.Fprintln(sh.out, "Category not found")
		default:
			fmt.Fprintf(sh.out, "Could not add task: %v\n", err)
		}
		return
	}
	fmt.Fprintf(sh.out, "Task added: %s\n", task.Label())
}

func (sh *shell) completeTask() {
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, "=== Complete Task ===")
	id, ok := sh.promptInt("Task ID: ")
	if !ok {
		return
	}
	if sh.store.CompleteTask(int64(id)) {
		fmt.Fprintf(sh.out, "Task #%d marked as complete\n", id)
	} else {
		fmt.Fprintln(sh.out, "Task not found")
	}
}

func (sh *shell) deleteTask() {
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, "=== Delete Task ===")
	id, ok := sh.promptInt("Task ID: ")
	if !ok {
		return
	}
	if sh.store.DeleteTask(int64(id)) {
		fmt.Fprintf(sh.out, "Task #%d deleted\n", id)
	} else {
		fmt.Fprintln(sh.out, "Task not found")
	}
}

func (sh *shell) addCategory() {
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, "=== Add Category ===")
	name, ok := sh.promptLine("Category name: ")
	if !ok {
		return
	}
	if sh.store.AddCategory(name) {
		fmt.Fprintf(sh.out, "Category added: %s\n", strings.TrimSpace(name))
	} else {
		fmt.Fprintln(sh.out, "Failed to add category")
	}
}

// promptLine prints prompt and reads one trimmed line. ok is false once
// input is exhausted.
func (sh *shell) promptLine(prompt string) (line string, ok bool) {
	fmt.Fprint(sh.out, prompt)
	if !sh.in.Scan() {
		fmt.Fprintln(sh.out)
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

// promptInt keeps prompting until a number is entered. ok is false once
// input is exhausted.
func (sh *shell) promptInt(prompt string) (n int, ok bool) {
	for {
		line, ok := sh.promptLine(prompt)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(sh.out, "Please enter a number")
			continue
		}
		return n, true
	}
}
