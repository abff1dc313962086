// This file implements the transactional executor for cascading deletions.
// A plan computed by internal/cascade is applied as a single atomic unit:
// either every step commits or none does.
package sqlite

import (
	"fmt"
	"time"

	"github.com/taskflow/taskstore/internal/cascade"
	"github.com/taskflow/taskstore/pkg/types"
)

// Executor steps, in dependency order. Children go before parents so the
// foreign keys hold at every intermediate point inside the transaction.
const (
	stepDetach           = "detach"
	stepDeleteComment    = "delete_comment"
	stepDeleteAttachment = "delete_attachment"
	stepDeleteTask       = "delete_task"
)

// DeleteTask removes the task with the given ID and everything that
// transitively depends on it, according to policy. Planning is read-only;
// the plan is then applied inside one transaction. Rows that vanished
// between planning and execution are tolerated as benign no-ops, so a
// concurrent delete of an overlapping subtree cannot reintroduce a dangling
// reference.
//
// Failure surface: ErrNotFound (no such task), ErrCycleDetected (corrupted
// parent chain), ErrExecutionFailed (storage failure; all applied changes
// rolled back, safe to retry).
func (b *Backend) DeleteTask(taskID string, policy types.DeletePolicy) (types.DeleteResult, error) {
	if err := b.checkAttached(); err != nil {
		return types.DeleteResult{}, err
	}

	plan, err := cascade.Plan(b.Relations(), taskID, policy)
	if err != nil {
		return types.DeleteResult{}, err
	}

	return b.applyPlan(plan)
}

// applyPlan executes a deletion plan within a single transaction:
// detach children, delete comments, delete attachments, delete tasks
// deepest-descendant-first. On any failure the transaction is rolled back
// and the error wraps ErrExecutionFailed.
func (b *Backend) applyPlan(plan *types.DeletionPlan) (types.DeleteResult, error) {
	var res types.DeleteResult

	tx, err := b.db.Begin()
	if err != nil {
		return res, fmt.Errorf("%w: beginning transaction: %v", types.ErrExecutionFailed, err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, id := range plan.TasksToDetach {
		if err := b.hitFailpoint(stepDetach, id); err != nil {
			return types.DeleteResult{}, fmt.Errorf("%w: detaching task %s: %v", types.ErrExecutionFailed, id, err)
		}
		r, err := tx.Exec(
			"UPDATE tasks SET parent_task_id = NULL, updated_at = ? WHERE task_id = ?",
			now, id,
		)
		if err != nil {
			return types.DeleteResult{}, fmt.Errorf("%w: detaching task %s: %v", types.ErrExecutionFailed, id, err)
		}
		res.SubtasksAffected += int(rowsAffected(r))
	}

	for _, id := range plan.CommentsToDelete {
		if err := b.hitFailpoint(stepDeleteComment, id); err != nil {
			return types.DeleteResult{}, fmt.Errorf("%w: deleting comment %s: %v", types.ErrExecutionFailed, id, err)
		}
		r, err := tx.Exec("DELETE FROM comments WHERE comment_id = ?", id)
		if err != nil {
			return types.DeleteResult{}, fmt.Errorf("%w: deleting comment %s: %v", types.ErrExecutionFailed, id, err)
		}
		res.CommentsDeleted += int(rowsAffected(r))
	}

	for _, id := range plan.AttachmentsToDelete {
		if err := b.hitFailpoint(stepDeleteAttachment, id); err != nil {
			return types.DeleteResult{}, fmt.Errorf("%w: deleting attachment %s: %v", types.ErrExecutionFailed, id, err)
		}
		r, err := tx.Exec("DELETE FROM attachments WHERE attachment_id = ?", id)
		if err != nil {
			return types.DeleteResult{}, fmt.Errorf("%w: deleting attachment %s: %v", types.ErrExecutionFailed, id, err)
		}
		res.AttachmentsDeleted += int(rowsAffected(r))
	}

	// Reverse of root-first order: deepest descendants go first.
	for i := len(plan.TasksToDelete) - 1; i >= 0; i-- {
		id := plan.TasksToDelete[i]
		if err := b.hitFailpoint(stepDeleteTask, id); err != nil {
			return types.DeleteResult{}, fmt.Errorf("%w: deleting task %s: %v", types.ErrExecutionFailed, id, err)
		}
		r, err := tx.Exec("DELETE FROM tasks WHERE task_id = ?", id)
		if err != nil {
			return types.DeleteResult{}, fmt.Errorf("%w: deleting task %s: %v", types.ErrExecutionFailed, id, err)
		}
		if rowsAffected(r) > 0 {
			res.TasksDeleted++
			if id != plan.RootID {
				res.SubtasksAffected++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return types.DeleteResult{}, fmt.Errorf("%w: committing: %v", types.ErrExecutionFailed, err)
	}

	return res, nil
}

// CompleteTask marks the task and all of its descendant subtasks as done,
// in one transaction. Shares the planner's traversal, so a corrupted parent
// chain is rejected with ErrCycleDetected.
func (b *Backend) CompleteTask(taskID string) error {
	if err := b.checkAttached(); err != nil {
		return err
	}

	ids, err := cascade.Descendants(b.Relations(), taskID)
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", types.ErrExecutionFailed, err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, id := range ids {
		_, err := tx.Exec(
			`UPDATE tasks SET completed = 1, status = ?, completed_at = ?, updated_at = ?
			 WHERE task_id = ? AND completed = 0`,
			types.StatusDone, now, now, id,
		)
		if err != nil {
			return fmt.Errorf("%w: completing task %s: %v", types.ErrExecutionFailed, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %v", types.ErrExecutionFailed, err)
	}
	return nil
}

// hitFailpoint invokes the test-only failure hook when one is installed.
func (b *Backend) hitFailpoint(step, id string) error {
	if b.failpoint == nil {
		return nil
	}
	return b.failpoint(step, id)
}

// rowsAffected reads the affected-row count, treating driver errors as zero.
// SQLite always reports the count for DELETE and UPDATE.
func rowsAffected(r interface{ RowsAffected() (int64, error) }) int64 {
	n, err := r.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
