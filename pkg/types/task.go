package types

import "time"

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// validStatuses is the set of recognized task status values.
var validStatuses = map[string]bool{
	StatusTodo:       true,
	StatusInProgress: true,
	StatusReview:     true,
	StatusDone:       true,
}

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// validPriorities is the set of recognized task priority values.
var validPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
	PriorityUrgent: true,
}

// Task represents a work item. A task with a nil ParentTaskID is a root
// task; one with a non-nil ParentTaskID is a subtask owned by that task.
// Subtask chains may nest to any depth.
type Task struct {
	TaskID       string     // UUID v7, generated on creation.
	Title        string     // Human-readable title (required, non-empty).
	Description  string     // Optional free-form description.
	Status       string     // One of the Status constants.
	Priority     string     // One of the Priority constants.
	ParentTaskID *string    // Owning task ID; nil for root tasks.
	DueDate      *time.Time // Optional due date.
	Completed    bool       // True once the task is done.
	CompletedAt  *time.Time // Set when Completed becomes true.
	CreatedAt    time.Time  // Timestamp of creation.
	UpdatedAt    time.Time  // Timestamp of last modification.
}

// SetStatus sets the task status to the given value.
// Returns ErrInvalidStatus if the status is not recognized.
// Idempotent: setting the current status succeeds without error.
func (t *Task) SetStatus(status string) error {
	if !validStatuses[status] {
		return ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

// SetPriority sets the task priority to the given value.
// Returns ErrInvalidPriority if the priority is not recognized.
func (t *Task) SetPriority(priority string) error {
	if !validPriorities[priority] {
		return ErrInvalidPriority
	}
	t.Priority = priority
	t.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted marks the task as done and records the completion time.
// Idempotent: a completed task stays completed.
func (t *Task) MarkCompleted() {
	now := time.Now()
	if !t.Completed {
		t.Completed = true
		t.CompletedAt = &now
	}
	t.Status = StatusDone
	t.UpdatedAt = now
}

// MarkIncomplete clears the completion state and returns the task to todo.
func (t *Task) MarkIncomplete() {
	t.Completed = false
	t.CompletedAt = nil
	t.Status = StatusTodo
	t.UpdatedAt = time.Now()
}

// IsSubtask reports whether the task is owned by a parent task.
func (t *Task) IsSubtask() bool {
	return t.ParentTaskID != nil
}

// IsOverdue reports whether the task has a due date in the past and is not
// yet completed.
func (t *Task) IsOverdue() bool {
	return t.DueDate != nil && t.DueDate.Before(time.Now()) && !t.Completed
}

// ValidStatus reports whether the given status value is recognized.
func ValidStatus(status string) bool {
	return validStatuses[status]
}

// ValidPriority reports whether the given priority value is recognized.
func ValidPriority(priority string) bool {
	return validPriorities[priority]
}
