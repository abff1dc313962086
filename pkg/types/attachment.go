package types

import "time"

// Attachment represents a file reference attached to a task. An attachment
// is owned by exactly one task and cannot outlive it.
type Attachment struct {
	AttachmentID string    // UUID v7, generated on creation.
	TaskID       string    // Owning task ID (required).
	Filename     string    // Stored file reference (required, non-empty).
	FileSize     int64     // Size in bytes, if known.
	MimeType     string    // Optional MIME type.
	CreatedAt    time.Time // Timestamp of creation.
}
