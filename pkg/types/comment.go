package types

import "time"

// Comment represents a note attached to a task. A comment is owned by
// exactly one task and cannot outlive it.
type Comment struct {
	CommentID string    // UUID v7, generated on creation.
	TaskID    string    // Owning task ID (required).
	Body      string    // Comment text (required, non-empty).
	Author    string    // Optional author name.
	CreatedAt time.Time // Timestamp of creation.
}
