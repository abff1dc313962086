package types

import "errors"

// Store defines the interface for backend-agnostic record storage. Callers
// attach to a backend, access tables by name, and detach when done. The
// cascading-delete operations are part of the store contract because they
// span tables atomically.
type Store interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrStoreDetached.
	Detach() error

	// DeleteTask removes the task with the given ID and every record that
	// transitively depends on it, according to policy, as one atomic unit.
	// Returns ErrNotFound if the task does not exist, ErrCycleDetected if
	// the parent chain is corrupted, and ErrExecutionFailed if storage
	// fails mid-sequence (all changes rolled back, safe to retry).
	DeleteTask(taskID string, policy DeletePolicy) (DeleteResult, error)

	// CompleteTask marks the task and all of its descendant subtasks as
	// done, atomically. Returns ErrNotFound if the task does not exist.
	CompleteTask(taskID string) error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
