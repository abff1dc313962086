// This file implements the attachments table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow/taskstore/pkg/types"
)

var _ types.Table = (*attachmentsTable)(nil)

// attachmentsTable implements the Table interface for the attachments
// entity type.
type attachmentsTable struct {
	backend *Backend
}

// Get retrieves an attachment by ID.
func (at *attachmentsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	if err := at.backend.checkAttached(); err != nil {
		return nil, err
	}

	row := at.backend.db.QueryRow(
		"SELECT attachment_id, task_id, filename, file_size, mime_type, created_at FROM attachments WHERE attachment_id = ?",
		id,
	)
	attachment, err := hydrateAttachment(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting attachment %s: %w", id, err)
	}
	return attachment, nil
}

// Set persists an attachment. If id is empty, generates a UUID v7 and
// creates the attachment. The owning task must exist.
func (at *attachmentsTable) Set(id string, data any) (string, error) {
	attachment, ok := data.(*types.Attachment)
	if !ok {
		return "", types.ErrInvalidData
	}
	if strings.TrimSpace(attachment.Filename) == "" {
		return "", types.ErrInvalidFilename
	}
	if attachment.TaskID == "" {
		return "", types.ErrInvalidData
	}
	if err := at.backend.checkAttached(); err != nil {
		return "", err
	}

	var one int
	err := at.backend.db.QueryRow(
		"SELECT 1 FROM tasks WHERE task_id = ?", attachment.TaskID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("task %s: %w", attachment.TaskID, types.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("checking owning task: %w", err)
	}

	if id == "" {
		newID, err := newUUID()
		if err != nil {
			return "", err
		}
		attachment.AttachmentID = newID
		attachment.CreatedAt = time.Now().UTC()
		id = attachment.AttachmentID
	} else {
		attachment.AttachmentID = id
	}

	var exists bool
	err = at.backend.db.QueryRow(
		"SELECT 1 FROM attachments WHERE attachment_id = ?", id,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking attachment existence: %w", err)
	}

	tx, err := at.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	createdAtStr := attachment.CreatedAt.Format(time.RFC3339)

	if exists {
		_, err = tx.Exec(
			"UPDATE attachments SET task_id = ?, filename = ?, file_size = ?, mime_type = ?, created_at = ? WHERE attachment_id = ?",
			attachment.TaskID, attachment.Filename, attachment.FileSize, attachment.MimeType, createdAtStr, id,
		)
	} else {
		_, err = tx.Exec(
			"INSERT INTO attachments (attachment_id, task_id, filename, file_size, mime_type, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			id, attachment.TaskID, attachment.Filename, attachment.FileSize, attachment.MimeType, createdAtStr,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting attachment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing attachment: %w", err)
	}

	return id, nil
}

// Delete removes an attachment by ID.
func (at *attachmentsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	if err := at.backend.checkAttached(); err != nil {
		return err
	}

	var one int
	err := at.backend.db.QueryRow(
		"SELECT 1 FROM attachments WHERE attachment_id = ?", id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking attachment existence: %w", err)
	}

	if _, err := at.backend.db.Exec("DELETE FROM attachments WHERE attachment_id = ?", id); err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}
	return nil
}

// Fetch queries attachments matching the filter, ordered by created_at.
// Supported filter keys: task_id, limit, offset.
func (at *attachmentsTable) Fetch(filter types.Filter) ([]any, error) {
	if err := at.backend.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT attachment_id, task_id, filename, file_size, mime_type, created_at FROM attachments"
	var conditions []string
	var args []any

	if filter != nil {
		if v, ok := filter["task_id"]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, "task_id = ?")
			args = append(args, s)
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	if filter != nil {
		if v, ok := filter["limit"]; ok {
			limit, ok := v.(int)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			if limit > 0 {
				query += fmt.Sprintf(" LIMIT %d", limit)
			}
		}
		if v, ok := filter["offset"]; ok {
			offset, ok := v.(int)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			if offset > 0 {
				query += fmt.Sprintf(" OFFSET %d", offset)
			}
		}
	}

	rows, err := at.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching attachments: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		attachment, err := hydrateAttachment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating attachment: %w", err)
		}
		results = append(results, attachment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachments: %w", err)
	}

	if results == nil {
		results = []any{}
	}
	return results, nil
}

// hydrateAttachment converts a scanned attachment row into a
// *types.Attachment.
func hydrateAttachment(scan func(dest ...any) error) (*types.Attachment, error) {
	var a types.Attachment
	var createdAt string
	if err := scan(&a.AttachmentID, &a.TaskID, &a.Filename, &a.FileSize, &a.MimeType, &createdAt); err != nil {
		return nil, err
	}
	var err error
	a.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &a, nil
}
