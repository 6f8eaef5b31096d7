// Package todo defines the task data model and the snapshot file format.
//
// The data file (todo-data.json) is a single JSON document holding the
// complete application state:
//
//	{
//	  "schema_version": 1,
//	  "next_id": 4,
//	  "tasks": [
//	    {
//	      "id": 1,
//	      "title": "Book flight",
//	      "description": "Optional details",
//	      "due": "2025-12-01",
//	      "done": false,
//	      "category": "Travel",
//	      "assignee": "alice"
//	    }
//	  ],
//	  "categories": ["Personal", "Work"],
//	  "users": ["admin", "alice"]
//	}
//
// The three collection sections appear in a fixed order (tasks, categories,
// users). Tasks reference their assignee by user name only; the user objects
// are reconstructed from the users list on load. next_id carries the id
// counter across restarts so deleted ids are never reissued.
//
// # Validation
//
// The package supports two validation modes:
//
// 1. JSON Schema validation (when a schema file is provided):
//   - Full validation against JSON Schema draft-2020-12
//
// 2. Minimal fallback validation (when no schema is available):
//   - Structural checks (schema_version, non-nil sections)
//   - Per-task checks (positive unique id below next_id, non-empty title,
//     category and assignee resolvable against the loaded sections)
//
// # File Format
//
// When writing data files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Stable key ordering (via JSON marshaling)
package todo
