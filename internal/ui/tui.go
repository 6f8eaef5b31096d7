// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vmalla30210/CollaborativeTodoList/internal/config"
	"github.com/vmalla30210/CollaborativeTodoList/internal/todo"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
)

// statusFilter selects which tasks the board shows.
type statusFilter int

const (
	filterAll statusFilter = iota
	filterPending
	filterDone
)

func (f statusFilter) String() string {
	switch f {
	case filterPending:
		return "pending"
	case filterDone:
		return "done"
	default:
		return "all"
	}
}

// RunTUI starts the read-only task board. It re-reads the data file every
// second, so it can run alongside the interactive shell.
func RunTUI(ctx context.Context, cfg *config.Config) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newBoardModel(cfg)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type boardModel struct {
	cfg          *config.Config
	dataPath     string
	file         *todo.File
	loadErr      error
	filter       statusFilter
	userFilter   string // "" means every user
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newBoardModel(cfg *config.Config) *boardModel {
	return &boardModel{
		cfg:          cfg,
		dataPath:     cfg.DataFile,
		tickInterval: time.Second,
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *boardModel) refresh() {
	f, err := todo.Load(m.dataPath)
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.file = f
}

func (m *boardModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "a":
			m.filter = filterAll
			return m, nil
		case "p":
			m.filter = filterPending
			return m, nil
		case "d":
			m.filter = filterDone
			return m, nil
		case "u":
			m.cycleUserFilter()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

// cycleUserFilter steps through off -> each known user -> off.
func (m *boardModel) cycleUserFilter() {
	if m.file == nil || len(m.file.Users) == 0 {
		m.userFilter = ""
		return
	}
	users := append([]string(nil), m.file.Users...)
	sort.Strings(users)

	if m.userFilter == "" {
		m.userFilter = users[0]
		return
	}
	for i, u := range users {
		if u == m.userFilter {
			if i+1 < len(users) {
				m.userFilter = users[i+1]
			} else {
				m.userFilter = ""
			}
			return
		}
	}
	m.userFilter = ""
}

func (m *boardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Todo Board"))
	b.WriteString("\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading data file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b)
		return b.String()
	}
	if m.file == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b)
		return b.String()
	}

	tasks := m.visibleTasks()
	writeCounts(&b, m.file.Tasks, m.filter, m.userFilter)
	writeByCategory(&b, tasks)
	writeFooter(&b)
	return b.String()
}

func (m *boardModel) visibleTasks() []todo.Task {
	var out []todo.Task
	for _, t := range m.file.Tasks {
		if m.filter == filterPending && t.Done {
			continue
		}
		if m.filter == filterDone && !t.Done {
			continue
		}
		if m.userFilter != "" && t.Assignee != m.userFilter {
			continue
		}
		out = append(out, t)
	}
	return out
}

func writeCounts(b *strings.Builder, tasks []todo.Task, filter statusFilter, userFilter string) {
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	fmt.Fprintf(b, "%d tasks, %d pending, %d done", len(tasks), len(tasks)-done, done)
	if filter != filterAll {
		fmt.Fprintf(b, "  filter: %s", filter)
	}
	if userFilter != "" {
		fmt.Fprintf(b, "  user: %s", userFilter)
	}
	b.WriteString("\n\n")
}

func writeByCategory(b *strings.Builder, tasks []todo.Task) {
	if len(tasks) == 0 {
		b.WriteString("No tasks to show.\n\n")
		return
	}

	byCategory := make(map[string][]todo.Task)
	for _, t := range tasks {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		b.WriteString(categoryStyle.Render(c))
		b.WriteString("\n")
		for _, t := range byCategory[c] {
			line := fmt.Sprintf("  #%d %s (due %s)", t.ID, t.Title, t.Due)
			if t.Assignee != "" {
				line += " - " + t.Assignee
			}
			if t.Done {
				line = doneStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keys:\n")
	b.WriteString("  a      show all tasks\n")
	b.WriteString("  p      show pending tasks\n")
	b.WriteString("  d      show done tasks\n")
	b.WriteString("  u      cycle the user filter\n")
	b.WriteString("  r/f5   refresh now\n")
	b.WriteString("  h/?    toggle this help\n")
	b.WriteString("  q      quit\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render("a/p/d filter - u user - r refresh - ? help - q quit"))
	b.WriteString("\n")
}

// IsTTY reports whether w is attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
