// This file implements the relation index over the indexed owning-id
// columns: tasks.parent_task_id, comments.task_id, attachments.task_id.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/taskflow/taskstore/pkg/types"
)

var _ types.RelationIndex = (*relationIndex)(nil)

// relationIndex resolves direct dependents of a record through the schema
// indexes, so each lookup costs time proportional to the number of
// dependents rather than a table scan.
type relationIndex struct {
	backend *Backend
}

// TaskExists reports whether a task row with the given ID exists.
func (r *relationIndex) TaskExists(id string) (bool, error) {
	if id == "" {
		return false, types.ErrInvalidID
	}
	if err := r.backend.checkAttached(); err != nil {
		return false, err
	}

	var one int
	err := r.backend.db.QueryRow(
		"SELECT 1 FROM tasks WHERE task_id = ?", id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking task %s: %w", id, err)
	}
	return true, nil
}

// DependentsOf returns all records directly owned by recordID: child tasks,
// then comments, then attachments. A record with no dependents yields an
// empty slice.
func (r *relationIndex) DependentsOf(recordID string) ([]types.Dependent, error) {
	if recordID == "" {
		return nil, types.ErrInvalidID
	}
	if err := r.backend.checkAttached(); err != nil {
		return nil, err
	}

	deps := []types.Dependent{}

	queries := []struct {
		kind string
		sql  string
	}{
		{types.KindTask, "SELECT task_id FROM tasks WHERE parent_task_id = ? ORDER BY created_at ASC"},
		{types.KindComment, "SELECT comment_id FROM comments WHERE task_id = ? ORDER BY created_at ASC"},
		{types.KindAttachment, "SELECT attachment_id FROM attachments WHERE task_id = ? ORDER BY created_at ASC"},
	}

	for _, q := range queries {
		rows, err := r.backend.db.Query(q.sql, recordID)
		if err != nil {
			return nil, fmt.Errorf("querying %s dependents of %s: %w", q.kind, recordID, err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning %s dependent: %w", q.kind, err)
			}
			deps = append(deps, types.Dependent{Kind: q.kind, ID: id})
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterating %s dependents: %w", q.kind, err)
		}
		rows.Close()
	}

	return deps, nil
}
