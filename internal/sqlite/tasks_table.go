// This file implements the tasks table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow/taskstore/pkg/types"
)

// Compile-time interface check: tasksTable must implement Table.
var _ types.Table = (*tasksTable)(nil)

// tasksTable implements the Table interface for the tasks entity type.
// Each operation hydrates/dehydrates between SQLite rows and *types.Task.
type tasksTable struct {
	backend *Backend
}

// taskColumns is the column list shared by every task SELECT.
const taskColumns = "task_id, title, description, status, priority, parent_task_id, due_date, completed, completed_at, created_at, updated_at"

// Get retrieves a task by ID and hydrates the row to *types.Task.
func (tt *tasksTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	if err := tt.backend.checkAttached(); err != nil {
		return nil, err
	}

	row := tt.backend.db.QueryRow(
		"SELECT "+taskColumns+" FROM tasks WHERE task_id = ?", id,
	)
	task, err := hydrateTask(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return task, nil
}

// Set persists a task. If id is empty, generates a UUID v7 and creates the
// task with defaults (status todo, priority medium). If id is provided,
// updates the existing task. A non-nil ParentTaskID must reference an
// existing task. Returns the actual ID and any error.
func (tt *tasksTable) Set(id string, data any) (string, error) {
	task, ok := data.(*types.Task)
	if !ok {
		return "", types.ErrInvalidData
	}
	if strings.TrimSpace(task.Title) == "" {
		return "", types.ErrInvalidTitle
	}
	if err := tt.backend.checkAttached(); err != nil {
		return "", err
	}

	now := time.Now().UTC()

	if id == "" {
		newID, err := newUUID()
		if err != nil {
			return "", err
		}
		task.TaskID = newID
		if task.Status == "" {
			task.Status = types.StatusTodo
		}
		if task.Priority == "" {
			task.Priority = types.PriorityMedium
		}
		task.CreatedAt = now
		task.UpdatedAt = now
		id = task.TaskID
	} else {
		task.TaskID = id
		task.UpdatedAt = now
	}

	if !types.ValidStatus(task.Status) {
		return "", types.ErrInvalidStatus
	}
	if !types.ValidPriority(task.Priority) {
		return "", types.ErrInvalidPriority
	}

	// A subtask may not be its own parent, and the parent must exist.
	if task.ParentTaskID != nil {
		parentID := *task.ParentTaskID
		if parentID == id {
			return "", fmt.Errorf("%w: task cannot be its own parent", types.ErrInvalidData)
		}
		var one int
		err := tt.backend.db.QueryRow(
			"SELECT 1 FROM tasks WHERE task_id = ?", parentID,
		).Scan(&one)
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("parent task %s: %w", parentID, types.ErrNotFound)
		}
		if err != nil {
			return "", fmt.Errorf("checking parent task: %w", err)
		}
	}

	var exists bool
	err := tt.backend.db.QueryRow(
		"SELECT 1 FROM tasks WHERE task_id = ?", id,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking task existence: %w", err)
	}

	tx, err := tt.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	args := []any{
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		nullableString(task.ParentTaskID),
		nullableTime(task.DueDate),
		boolToInt(task.Completed),
		nullableTime(task.CompletedAt),
		task.CreatedAt.Format(time.RFC3339),
		task.UpdatedAt.Format(time.RFC3339),
	}

	if exists {
		_, err = tx.Exec(
			`UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
			 parent_task_id = ?, due_date = ?, completed = ?, completed_at = ?,
			 created_at = ?, updated_at = ? WHERE task_id = ?`,
			append(args, id)...,
		)
	} else {
		_, err = tx.Exec(
			`INSERT INTO tasks (task_id, title, description, status, priority,
			 parent_task_id, due_date, completed, completed_at, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			append([]any{id}, args...)...,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing task: %w", err)
	}

	return id, nil
}

// Delete removes a task by ID, cascading to its subtasks, comments, and
// attachments. Equivalent to DeleteTask with the DeleteSubtasks policy; a
// bare row delete would orphan dependents and is not offered.
func (tt *tasksTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	_, err := tt.backend.DeleteTask(id, types.DeleteSubtasks)
	return err
}

// Fetch queries tasks matching the filter, ordered by created_at.
// Supported filter keys: status, priority, completed (bool), parent_task_id,
// root (bool, selects tasks with no parent), limit, offset.
func (tt *tasksTable) Fetch(filter types.Filter) ([]any, error) {
	if err := tt.backend.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	var conditions []string
	var args []any

	if filter != nil {
		if v, ok := filter["status"]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, "status = ?")
			args = append(args, s)
		}
		if v, ok := filter["priority"]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, "priority = ?")
			args = append(args, s)
		}
		if v, ok := filter["completed"]; ok {
			c, ok := v.(bool)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, "completed = ?")
			args = append(args, boolToInt(c))
		}
		if v, ok := filter["parent_task_id"]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, "parent_task_id = ?")
			args = append(args, s)
		}
		if v, ok := filter["root"]; ok {
			r, ok := v.(bool)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			if r {
				conditions = append(conditions, "parent_task_id IS NULL")
			}
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

	rows, err := tt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		task, err := hydrateTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating task: %w", err)
		}
		results = append(results, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	if results == nil {
		results = []any{}
	}
	return results, nil
}

// hydrateTask converts a scanned task row into a *types.Task. The scan
// argument abstracts over sql.Row and sql.Rows.
func hydrateTask(scan func(dest ...any) error) (*types.Task, error) {
	var t types.Task
	var parentID, dueDate, completedAt sql.NullString
	var completed int
	var createdAt, updatedAt string

	err := scan(
		&t.TaskID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&parentID, &dueDate, &completed, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Completed = completed != 0
	if parentID.Valid {
		t.ParentTaskID = &parentID.String
	}

	t.DueDate, err = parseNullableTime(dueDate)
	if err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	t.CompletedAt, err = parseNullableTime(completedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing completed_at: %w", err)
	}
	t.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &t, nil
}

// nullableString maps a *string to a driver value, NULL when nil.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// nullableTime maps a *time.Time to an RFC 3339 driver value, NULL when nil.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parseNullableTime parses an RFC 3339 column that may be NULL.
func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// boolToInt maps a bool to the 0/1 representation used in the schema.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
