package todo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// DateLayout is the only accepted due-date format.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals as
// "YYYY-MM-DD".
type Date struct {
	t time.Time
}

// ParseDate parses s in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: want YYYY-MM-DD: %w", s, err)
	}
	return Date{t: t}, nil
}

// NewDate builds a Date from year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String returns the date in YYYY-MM-DD format.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Time returns the date as a time.Time at midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Equal reports whether two dates are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task is a single unit of work. Assignee holds the owning user's name, or
// "" when the task is unassigned; the store's user collection remains the
// canonical owner of the assignment.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Due         Date   `json:"due"`
	Done        bool   `json:"done"`
	Category    string `json:"category"`
	Assignee    string `json:"assignee,omitempty"`
}

// IsZero returns true if the task is empty (has no id).
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// Label renders the task for terminal display.
func (t *Task) Label() string {
	status := "Pending"
	if t.Done {
		status = "Done"
	}
	s := fmt.Sprintf("#%d: %s (%s) due %s [%s]", t.ID, t.Title, status, t.Due, t.Category)
	if t.Assignee != "" {
		s += " - " + t.Assignee
	}
	return s
}

// File represents the persisted snapshot of the whole store.
type File struct {
	SchemaVersion int      `json:"schema_version"`
	NextID        int64    `json:"next_id"`
	Tasks         []Task   `json:"tasks"`
	Categories    []string `json:"categories"`
	Users         []string `json:"users"`
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to the JSON Schema file.
	// If empty, validation uses only minimal fallback checks.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Load reads and parses a data file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}

	return &f, nil
}

// Save writes the data file to path with 2-space indentation.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}

	return nil
}

// Validate validates the data file.
func (f *File) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	// Try JSON Schema validation first if schema path is provided
	if opts.SchemaPath != "" {
		schemaResult := validateWithSchema(f, opts.SchemaPath)
		result.UsedSchema = schemaResult.UsedSchema
		if len(schemaResult.Warnings) > 0 {
			result.Warnings = append(result.Warnings, schemaResult.Warnings...)
		}
		if schemaResult.UsedSchema {
			if !schemaResult.Valid {
				result.Valid = false
				result.Errors = append(result.Errors, schemaResult.Errors...)
			}
			// Cross-reference checks go beyond what the schema expresses.
			f.validateReferences(result)
			return result
		}
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	f.validateMinimal(result)
	f.validateReferences(result)

	return result
}

// validateMinimal performs minimal structural validation without JSON Schema.
func (f *File) validateMinimal(result *ValidationResult) {
	if f.SchemaVersion != 1 {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected 1, got %d", f.SchemaVersion),
		})
	}

	if f.Tasks == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("missing required field"),
		})
	}
	if f.Categories == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "categories",
			Err:  fmt.Errorf("missing required field"),
		})
	}
	if f.Users == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "users",
			Err:  fmt.Errorf("missing required field"),
		})
	}

	for i, task := range f.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if err := validateTaskMinimal(&task, path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err)
		}
	}
}

// validateReferences checks the invariants tying the three sections
// together: unique ids below next_id, categories and assignees resolvable.
func (f *File) validateReferences(result *ValidationResult) {
	categories := make(map[string]struct{}, len(f.Categories))
	for _, c := range f.Categories {
		categories[c] = struct{}{}
	}
	users := make(map[string]struct{}, len(f.Users))
	for _, u := range f.Users {
		users[u] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(f.Tasks))
	for i, task := range f.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if _, dup := seen[task.ID]; dup {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %d", task.ID),
			})
		}
		seen[task.ID] = struct{}{}

		if f.NextID > 0 && task.ID >= f.NextID {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("id %d not below next_id %d", task.ID, f.NextID),
			})
		}
		if task.Category != "" {
			if _, ok := categories[task.Category]; !ok {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{
					Path: path + ".category",
					Err:  fmt.Errorf("unknown category %q", task.Category),
				})
			}
		}
		if task.Assignee != "" {
			if _, ok := users[task.Assignee]; !ok {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{
					Path: path + ".assignee",
					Err:  fmt.Errorf("unknown user %q", task.Assignee),
				})
			}
		}
	}
}

// validateTaskMinimal performs minimal task validation.
func validateTaskMinimal(task *Task, path string) *ValidationError {
	if task.ID <= 0 {
		return &ValidationError{
			Path: path + ".id",
			Err:  fmt.Errorf("must be positive, got %d", task.ID),
		}
	}

	if task.Title == "" {
		return &ValidationError{
			Path: path + ".title",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	if task.Category == "" {
		return &ValidationError{
			Path: path + ".category",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	return nil
}

// validateWithSchema attempts JSON Schema validation.
func validateWithSchema(f *File, schemaPath string) *ValidationResult {
	result := &ValidationResult{
		Valid:      true,
		Errors:     make([]error, 0),
		Warnings:   make([]string, 0),
		UsedSchema: false,
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
		return result
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s", absPath))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
		}
		return result
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(absPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema file: %v", err))
		return result
	}

	result.UsedSchema = true

	// Marshal the file back to JSON for validation
	fileData, err := json.Marshal(f)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "",
			Err:  fmt.Errorf("failed to marshal file for validation: %w", err),
		})
		return result
	}

	var fileObj interface{}
	if err := json.Unmarshal(fileData, &fileObj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "",
			Err:  fmt.Errorf("failed to unmarshal file for validation: %w", err),
		})
		return result
	}

	if err := schema.Validate(fileObj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	if ptr == "" {
		return ""
	}
	if strings.HasPrefix(ptr, "#") {
		ptr = strings.TrimPrefix(ptr, "#")
	}
	if strings.HasPrefix(ptr, "/") {
		ptr = ptr[1:]
	}
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
