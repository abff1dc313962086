package types

import "errors"

// DeletePolicy selects how a cascading delete treats the subtasks of the
// task being deleted.
type DeletePolicy string

const (
	// DeleteSubtasks removes every descendant task together with the root.
	DeleteSubtasks DeletePolicy = "delete_subtasks"

	// DetachSubtasks re-parents the root's direct children to null, making
	// them independent root tasks. Their own comments, attachments, and
	// subtasks are untouched.
	DetachSubtasks DeletePolicy = "detach_subtasks"
)

// Valid reports whether the policy is one of the recognized values.
func (p DeletePolicy) Valid() bool {
	return p == DeleteSubtasks || p == DetachSubtasks
}

// Record kinds returned by a RelationIndex.
const (
	KindTask       = "task"
	KindComment    = "comment"
	KindAttachment = "attachment"
)

// Dependent identifies a single record directly owned by another record.
type Dependent struct {
	Kind string // One of the Kind constants.
	ID   string // Entity ID of the dependent record.
}

// RelationIndex resolves the records directly owned by a given record:
// child tasks via parent_task_id, comments and attachments via task_id.
// Implementations must answer in time proportional to the number of direct
// dependents, not the table size.
type RelationIndex interface {
	// DependentsOf returns every record directly owned by recordID.
	// A record with no dependents yields an empty slice, not an error.
	DependentsOf(recordID string) ([]Dependent, error)

	// TaskExists reports whether a task with the given ID exists.
	TaskExists(id string) (bool, error)
}

// DeletionPlan is a precomputed, side-effect-free description of every
// record a cascading delete will remove or detach. TasksToDelete is ordered
// root-first; executors delete in reverse so children go before parents at
// every intermediate point.
type DeletionPlan struct {
	RootID              string
	Policy              DeletePolicy
	TasksToDelete       []string
	CommentsToDelete    []string
	AttachmentsToDelete []string
	TasksToDetach       []string
}

// DeleteResult reports the records affected by a committed deletion, for
// audit and logging by the caller.
type DeleteResult struct {
	TasksDeleted       int // Tasks removed, root included.
	SubtasksAffected   int // Descendants removed, or children detached.
	CommentsDeleted    int
	AttachmentsDeleted int
}

// Cascade operation errors.
var (
	// ErrCycleDetected signals a corrupted parent chain that revisits a task
	// already on the traversal path. It is a data-corruption signal: the
	// operation is rejected, never silently healed.
	ErrCycleDetected = errors.New("cycle detected in parent chain")

	// ErrExecutionFailed signals a storage-level failure while applying a
	// deletion plan. All applied changes are rolled back; the caller
	// observes the pre-call state and may safely retry.
	ErrExecutionFailed = errors.New("deletion execution failed")

	// ErrInvalidPolicy signals an unrecognized delete policy value.
	ErrInvalidPolicy = errors.New("invalid delete policy")
)
