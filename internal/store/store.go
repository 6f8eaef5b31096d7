// Package store owns the authoritative task, user, and category state.
package store

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vmalla30210/CollaborativeTodoList/internal/todo"
)

// Sentinel errors returned by mutating operations. Callers distinguish them
// with errors.Is.
var (
	ErrEmptyName       = errors.New("user name is empty")
	ErrBadDate         = errors.New("invalid date format")
	ErrUnknownCategory = errors.New("category not found")
)

// Store holds every task, user, and category, and rewrites the full snapshot
// to its data file after each successful mutation. All methods are safe for
// concurrent use: one RWMutex guards the three collections because AddTask
// spans task and user state and the persisted snapshot must stay consistent
// with both.
type Store struct {
	mu         sync.RWMutex
	tasks      []*todo.Task
	users      map[string][]int64 // name -> assigned task ids, in assignment order
	categories map[string]struct{}
	nextID     int64

	path       string
	schemaPath string
	logger     *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithSchema sets a JSON Schema file to validate the data file against on
// load. Validation failures are reported as warnings, not errors.
func WithSchema(path string) Option {
	return func(s *Store) {
		s.schemaPath = path
	}
}

// Open creates a Store backed by the data file at path. A missing file
// yields an empty store; a malformed file is logged and treated as empty.
// After loading, default categories (Work, Personal) and the admin user are
// seeded if the respective sections came back empty.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("data file path is empty")
	}

	s := &Store{
		users:      make(map[string][]int64),
		categories: make(map[string]struct{}),
		nextID:     1,
		path:       path,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load()
	s.bootstrap()

	return s, nil
}

// load reads the data file into memory. Errors are logged and swallowed:
// startup proceeds with whatever was recovered.
func (s *Store) load() {
	f, err := todo.Load(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not load data file, starting empty", "path", s.path, "err", err)
		}
		return
	}

	if s.schemaPath != "" {
		result := f.Validate(todo.ValidationOptions{SchemaPath: s.schemaPath})
		for _, w := range result.Warnings {
			s.logger.Warn(w)
		}
		if !result.Valid {
			for _, e := range result.Errors {
				s.logger.Warn("data file validation", "err", e)
			}
		}
	}

	for _, name := range f.Users {
		s.users[name] = nil
	}
	for _, name := range f.Categories {
		s.categories[name] = struct{}{}
	}

	var maxID int64
	for i := range f.Tasks {
		task := f.Tasks[i]
		s.tasks = append(s.tasks, &task)
		if task.ID > maxID {
			maxID = task.ID
		}
		// Re-link assignees by name. Appending also registers users the
		// snapshot's user section missed.
		if task.Assignee != "" {
			s.users[task.Assignee] = append(s.users[task.Assignee], task.ID)
		}
	}

	s.nextID = f.NextID
	if s.nextID <= maxID {
		s.nextID = maxID + 1
	}
	if s.nextID < 1 {
		s.nextID = 1
	}
}

// bootstrap seeds defaults into empty sections and persists them.
func (s *Store) bootstrap() {
	s.mu.Lock()
	defer s.mu.Unlock()

	seeded := false
	if len(s.categories) == 0 {
		s.categories["Work"] = struct{}{}
		s.categories["Personal"] = struct{}{}
		seeded = true
	}
	if len(s.users) == 0 {
		s.users["admin"] = nil
		seeded = true
	}
	if seeded {
		s.persist()
	}
}

// persist rewrites the full snapshot. Callers must hold the write lock.
// I/O failures are logged, never surfaced: the in-memory mutation already
// happened and the caller was told it succeeded.
func (s *Store) persist() {
	f := s.snapshotFile()
	if err := f.Save(s.path); err != nil {
		s.logger.Error("persisting data file failed", "path", s.path, "err", err)
	}
}

// snapshotFile materializes the current state as a File. Callers must hold
// at least the read lock.
func (s *Store) snapshotFile() *todo.File {
	f := &todo.File{
		SchemaVersion: 1,
		NextID:        s.nextID,
		Tasks:         make([]todo.Task, 0, len(s.tasks)),
		Categories:    make([]string, 0, len(s.categories)),
		Users:         make([]string, 0, len(s.users)),
	}
	for _, t := range s.tasks {
		f.Tasks = append(f.Tasks, *t)
	}
	for name := range s.categories {
		f.Categories = append(f.Categories, name)
	}
	for name := range s.users {
		f.Users = append(f.Users, name)
	}
	sort.Strings(f.Categories)
	sort.Strings(f.Users)
	return f
}

// GetOrCreateUser looks a user up by name, creating it if absent. The name
// is trimmed; empty names are rejected with ErrEmptyName. Returns the
// normalized name. Idempotent.
func (s *Store) GetOrCreateUser(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[name]; !ok {
		s.users[name] = nil
		s.persist()
	}
	return name, nil
}

// AddCategory inserts a category name into the set. The name is trimmed;
// empty names are rejected. Returns whether the name was newly added.
func (s *Store) AddCategory(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[name]; ok {
		return false
	}
	s.categories[name] = struct{}{}
	s.persist()
	return true
}

// AddTask validates, allocates the next id, links the optional assignee, and
// appends the task, all under one write lock so no partial state is ever
// visible or persisted. The due date must be in YYYY-MM-DD format and the
// category must already exist.
func (s *Store) AddTask(title, description, dueStr, category, userName string) (todo.Task, error) {
	due, err := todo.ParseDate(dueStr)
	if err != nil {
		return todo.Task{}, fmt.Errorf("%w: %v", ErrBadDate, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category]; !ok {
		return todo.Task{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	task := &todo.Task{
		ID:          s.nextID,
		Title:       title,
		Description: description,
		Due:         due,
		Category:    category,
	}
	s.nextID++

	if userName = strings.TrimSpace(userName); userName != "" {
		if _, ok := s.users[userName]; !ok {
			s.users[userName] = nil
		}
		task.Assignee = userName
		s.users[userName] = append(s.users[userName], task.ID)
	}

	s.tasks = append(s.tasks, task)
	s.persist()

	return *task, nil
}

// CompleteTask sets the completion flag on the task with the given id.
// Returns false if no such task exists.
func (s *Store) CompleteTask(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID == id {
			t.Done = true
			s.persist()
			return true
		}
	}
	return false
}

// DeleteTask removes the task with the given id, unlinking it from its
// assignee's list. Returns false if no such task exists. Deleted ids are
// never reissued.
func (s *Store) DeleteTask(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID != id {
			continue
		}
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		if t.Assignee != "" {
			s.users[t.Assignee] = removeID(s.users[t.Assignee], id)
		}
		s.persist()
		return true
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// AllTasks returns a snapshot copy of every task in insertion order.
func (s *Store) AllTasks() []todo.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]todo.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	return out
}

// UserTasks returns a snapshot copy of the tasks assigned to the named user
// in assignment order, or an empty slice for an unknown user.
func (s *Store) UserTasks(name string) []todo.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.users[strings.TrimSpace(name)]
	out := make([]todo.Task, 0, len(ids))
	for _, id := range ids {
		for _, t := range s.tasks {
			if t.ID == id {
				out = append(out, *t)
				break
			}
		}
	}
	return out
}

// Categories returns a sorted snapshot of the category names.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.categories))
	for name := range s.categories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// UserNames returns a sorted snapshot of the known user names.
func (s *Store) UserNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.users))
	for name := range s.users {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns the current state as a File, for validation and
// reporting.
func (s *Store) Snapshot() *todo.File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotFile()
}

// Path returns the data file path the store persists to.
func (s *Store) Path() string {
	return s.path
}
