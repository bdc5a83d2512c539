package store

import (
	"context"

	"github.com/josephgoksu/TaskGraph/models"
)

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	Status          models.TaskStatus
	Priority        models.TaskPriority
	Label           string
	IncludeArchived bool
}

// Matches reports whether the task passes every set constraint.
func (f ListFilter) Matches(t models.Task) bool {
	if t.Archived && !f.IncludeArchived {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Label != "" && !t.HasLabel(f.Label) {
		return false
	}
	return true
}

// TaskStore defines the interface for task persistence.
// It outlines the contract for managing task records, including CRUD
// operations, archival, backup, restore, and resource cleanup. All
// blocking operations take a context; lock waits are bounded and surface
// LOCK_TIMEOUT rather than blocking forever.
type TaskStore interface {
	// Create validates the input, assigns a collision-checked unique id
	// and timestamps, writes a new record and returns it.
	Create(ctx context.Context, input models.CreateTaskInput) (models.Task, error)

	// Get retrieves a task by id. Archived tasks remain resolvable.
	// A record that fails to parse is quarantined and surfaces as
	// CORRUPT_RECORD.
	Get(ctx context.Context, id string) (models.Task, error)

	// Update merges the given fields into the existing record and bumps
	// updatedAt. Server-assigned fields (id, createdAt, updatedAt) cannot
	// be set. Updates touching the dependency list run under the
	// store-wide lock and through the configured graph validator so a
	// cycle-introducing mutation is rejected before anything is persisted.
	Update(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error)

	// Delete removes a record permanently. Dependents are not repaired;
	// the returned slice names tasks left holding a dangling reference so
	// callers can surface them.
	Delete(ctx context.Context, id string) ([]string, error)

	// Archive flags the record as archived and moves it to the archive
	// subarea. The id stays resolvable for dependency checks.
	Archive(ctx context.Context, id string) (models.Task, error)

	// List returns a finite snapshot of records passing the filter,
	// consistent with the state at call time. Records that fail to parse
	// are quarantined and skipped with a logged warning.
	List(ctx context.Context, filter ListFilter) ([]models.Task, error)

	// Backup copies every live and archived record into destinationPath.
	Backup(ctx context.Context, destinationPath string) error

	// Restore replaces the store contents with records from sourcePath.
	// Every source record must parse cleanly, match its filename, and
	// pass the graph validator before anything is replaced.
	Restore(ctx context.Context, sourcePath string) error

	// SetGraphValidator installs the hook run inside the store lock
	// whenever a mutation changes the dependency relation. The hook
	// receives the caller's context and the post-change snapshot; an
	// error aborts the mutation.
	SetGraphValidator(fn func(ctx context.Context, tasks []models.Task) error)

	// Close releases any resources held by the store, such as file locks.
	Close() error
}
