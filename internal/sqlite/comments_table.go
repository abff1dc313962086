// This file implements the comments table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow/taskstore/pkg/types"
)

var _ types.Table = (*commentsTable)(nil)

// commentsTable implements the Table interface for the comments entity type.
type commentsTable struct {
	backend *Backend
}

// Get retrieves a comment by ID.
func (ct *commentsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	if err := ct.backend.checkAttached(); err != nil {
		return nil, err
	}

	row := ct.backend.db.QueryRow(
		"SELECT comment_id, task_id, body, author, created_at FROM comments WHERE comment_id = ?",
		id,
	)
	comment, err := hydrateComment(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting comment %s: %w", id, err)
	}
	return comment, nil
}

// Set persists a comment. If id is empty, generates a UUID v7 and creates
// the comment. The owning task must exist: a comment never references a
// task id absent from the store.
func (ct *commentsTable) Set(id string, data any) (string, error) {
	comment, ok := data.(*types.Comment)
	if !ok {
		return "", types.ErrInvalidData
	}
	if strings.TrimSpace(comment.Body) == "" {
		return "", types.ErrInvalidBody
	}
	if comment.TaskID == "" {
		return "", types.ErrInvalidData
	}
	if err := ct.backend.checkAttached(); err != nil {
		return "", err
	}

	var one int
	err := ct.backend.db.QueryRow(
		"SELECT 1 FROM tasks WHERE task_id = ?", comment.TaskID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("task %s: %w", comment.TaskID, types.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("checking owning task: %w", err)
	}

	if id == "" {
		newID, err := newUUID()
		if err != nil {
			return "", err
		}
		comment.CommentID = newID
		comment.CreatedAt = time.Now().UTC()
		id = comment.CommentID
	} else {
		comment.CommentID = id
	}

	var exists bool
	err = ct.backend.db.QueryRow(
		"SELECT 1 FROM comments WHERE comment_id = ?", id,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking comment existence: %w", err)
	}

	tx, err := ct.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	createdAtStr := comment.CreatedAt.Format(time.RFC3339)

	if exists {
		_, err = tx.Exec(
			"UPDATE comments SET task_id = ?, body = ?, author = ?, created_at = ? WHERE comment_id = ?",
			comment.TaskID, comment.Body, comment.Author, createdAtStr, id,
		)
	} else {
		_, err = tx.Exec(
			"INSERT INTO comments (comment_id, task_id, body, author, created_at) VALUES (?, ?, ?, ?, ?)",
			id, comment.TaskID, comment.Body, comment.Author, createdAtStr,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing comment: %w", err)
	}

	return id, nil
}

// Delete removes a comment by ID.
func (ct *commentsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	if err := ct.backend.checkAttached(); err != nil {
		return err
	}

	var one int
	err := ct.backend.db.QueryRow(
		"SELECT 1 FROM comments WHERE comment_id = ?", id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking comment existence: %w", err)
	}

	if _, err := ct.backend.db.Exec("DELETE FROM comments WHERE comment_id = ?", id); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

// Fetch queries comments matching the filter, ordered by created_at.
// Supported filter keys: task_id, author, limit, offset.
func (ct *commentsTable) Fetch(filter types.Filter) ([]any, error) {
	if err := ct.backend.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT comment_id, task_id, body, author, created_at FROM comments"
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
		if v, ok := filter["author"]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, "author = ?")
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

	rows, err := ct.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		comment, err := hydrateComment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating comment: %w", err)
		}
		results = append(results, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	if results == nil {
		results = []any{}
	}
	return results, nil
}

// hydrateComment converts a scanned comment row into a *types.Comment.
func hydrateComment(scan func(dest ...any) error) (*types.Comment, error) {
	var c types.Comment
	var createdAt string
	if err := scan(&c.CommentID, &c.TaskID, &c.Body, &c.Author, &createdAt); err != nil {
		return nil, err
	}
	var err error
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}
