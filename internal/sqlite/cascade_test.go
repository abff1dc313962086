// Tests for the cascading deletion subsystem: planning against the live
// relation index and transactional execution.
package sqlite

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/taskflow/taskstore/internal/cascade"
	"github.com/taskflow/taskstore/pkg/types"
)

// storeSnapshot renders every row of every table into a stable string, so
// tests can assert that a failed deletion left the store untouched.
func storeSnapshot(t *testing.T, b *Backend) string {
	t.Helper()

	var sb strings.Builder

	rows, err := b.db.Query("SELECT task_id, title, COALESCE(parent_task_id, ''), status, completed FROM tasks ORDER BY task_id")
	if err != nil {
		t.Fatalf("snapshot tasks: %v", err)
	}
	for rows.Next() {
		var id, title, parent, status string
		var completed int
		if err := rows.Scan(&id, &title, &parent, &status, &completed); err != nil {
			t.Fatalf("snapshot scan: %v", err)
		}
		fmt.Fprintf(&sb, "task|%s|%s|%s|%s|%d\n", id, title, parent, status, completed)
	}
	rows.Close()

	rows, err = b.db.Query("SELECT comment_id, task_id, body FROM comments ORDER BY comment_id")
	if err != nil {
		t.Fatalf("snapshot comments: %v", err)
	}
	for rows.Next() {
		var id, taskID, body string
		if err := rows.Scan(&id, &taskID, &body); err != nil {
			t.Fatalf("snapshot scan: %v", err)
		}
		fmt.Fprintf(&sb, "comment|%s|%s|%s\n", id, taskID, body)
	}
	rows.Close()

	rows, err = b.db.Query("SELECT attachment_id, task_id, filename FROM attachments ORDER BY attachment_id")
	if err != nil {
		t.Fatalf("snapshot attachments: %v", err)
	}
	for rows.Next() {
		var id, taskID, filename string
		if err := rows.Scan(&id, &taskID, &filename); err != nil {
			t.Fatalf("snapshot scan: %v", err)
		}
		fmt.Fprintf(&sb, "attachment|%s|%s|%s\n", id, taskID, filename)
	}
	rows.Close()

	return sb.String()
}

// buildChain creates T1 <- T2 <- T3 with a comment on T1 and an attachment
// on T2, the reference fixture for both deletion scenarios.
func buildChain(t *testing.T, b *Backend) (t1, t2, t3 string) {
	t.Helper()

	t1 = createTask(t, b, "T1 root", nil)
	t2 = createTask(t, b, "T2 subtask", &t1)
	t3 = createTask(t, b, "T3 subtask", &t2)
	createComment(t, b, t1, "comment on T1")
	createAttachment(t, b, t2, "t2.pdf")
	return t1, t2, t3
}

func TestDeleteTask_CascadeScenario(t *testing.T) {
	b := newTestBackend(t)
	t1, _, _ := buildChain(t, b)

	result, err := b.DeleteTask(t1, types.DeleteSubtasks)
	if err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	want := types.DeleteResult{
		TasksDeleted:       3,
		SubtasksAffected:   2,
		CommentsDeleted:    1,
		AttachmentsDeleted: 1,
	}
	if result != want {
		t.Errorf("result = %+v, want %+v", result, want)
	}

	if snapshot := storeSnapshot(t, b); snapshot != "" {
		t.Errorf("expected empty store, got:\n%s", snapshot)
	}
}

func TestDeleteTask_DetachScenario(t *testing.T) {
	b := newTestBackend(t)
	t1, t2, t3 := buildChain(t, b)

	result, err := b.DeleteTask(t1, types.DetachSubtasks)
	if err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	want := types.DeleteResult{
		TasksDeleted:       1,
		SubtasksAffected:   1,
		CommentsDeleted:    1,
		AttachmentsDeleted: 0,
	}
	if result != want {
		t.Errorf("result = %+v, want %+v", result, want)
	}

	table, _ := b.GetTable(types.TasksTable)

	// T2 became a root task.
	entity, err := table.Get(t2)
	if err != nil {
		t.Fatalf("T2 should survive: %v", err)
	}
	if parent := entity.(*types.Task).ParentTaskID; parent != nil {
		t.Errorf("T2 should be detached, still has parent %s", *parent)
	}

	// T3 remains a child of T2.
	entity, err = table.Get(t3)
	if err != nil {
		t.Fatalf("T3 should survive: %v", err)
	}
	if parent := entity.(*types.Task).ParentTaskID; parent == nil || *parent != t2 {
		t.Errorf("T3 should remain child of T2, got %v", parent)
	}

	// T1 and its comment are gone; T2's attachment survives.
	if _, err := table.Get(t1); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("T1 should be deleted, got %v", err)
	}
	attachments, _ := b.tables[types.AttachmentsTable].Fetch(types.Filter{"task_id": t2})
	if len(attachments) != 1 {
		t.Errorf("T2's attachment should survive, got %d", len(attachments))
	}
}

func TestDeleteTask_NoOrphans(t *testing.T) {
	b := newTestBackend(t)

	// A wider tree: root with two branches plus an unrelated survivor.
	root := createTask(t, b, "root", nil)
	left := createTask(t, b, "left", &root)
	right := createTask(t, b, "right", &root)
	leaf := createTask(t, b, "leaf", &left)
	createComment(t, b, right, "right comment")
	createAttachment(t, b, leaf, "leaf.png")

	survivor := createTask(t, b, "survivor", nil)
	survivorChild := createTask(t, b, "survivor child", &survivor)
	createComment(t, b, survivorChild, "keep me")

	if _, err := b.DeleteTask(root, types.DeleteSubtasks); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	deleted := map[string]bool{root: true, left: true, right: true, leaf: true}

	// No comment or attachment references a deleted task.
	rows, err := b.db.Query("SELECT task_id FROM comments UNION ALL SELECT task_id FROM attachments")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var taskID string
		if err := rows.Scan(&taskID); err != nil {
			t.Fatalf("scan failed: %v", err)
		}
		if deleted[taskID] {
			t.Errorf("orphaned dependent references deleted task %s", taskID)
		}
	}

	// No surviving task has a deleted parent.
	table, _ := b.GetTable(types.TasksTable)
	entities, err := table.Fetch(nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	for _, entity := range entities {
		task := entity.(*types.Task)
		if deleted[task.TaskID] {
			t.Errorf("task %s should be deleted", task.TaskID)
		}
		if task.ParentTaskID != nil && deleted[*task.ParentTaskID] {
			t.Errorf("task %s has dangling parent %s", task.TaskID, *task.ParentTaskID)
		}
	}

	// The unrelated subtree is intact.
	if _, err := table.Get(survivorChild); err != nil {
		t.Errorf("survivor child should be untouched: %v", err)
	}
}

func TestDeleteTask_Atomicity(t *testing.T) {
	b := newTestBackend(t)
	t1, _, _ := buildChain(t, b)

	before := storeSnapshot(t, b)

	// Force a storage error on the second task deletion.
	taskDeletes := 0
	b.failpoint = func(step, id string) error {
		if step == stepDeleteTask {
			taskDeletes++
			if taskDeletes == 2 {
				return errors.New("simulated storage failure")
			}
		}
		return nil
	}

	_, err := b.DeleteTask(t1, types.DeleteSubtasks)
	if !errors.Is(err, types.ErrExecutionFailed) {
		t.Fatalf("expected ErrExecutionFailed, got %v", err)
	}

	after := storeSnapshot(t, b)
	if before != after {
		t.Errorf("store changed despite rollback:\nbefore:\n%s\nafter:\n%s", before, after)
	}

	// The operation is safe to retry once the failure clears.
	b.failpoint = nil
	result, err := b.DeleteTask(t1, types.DeleteSubtasks)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if result.TasksDeleted != 3 {
		t.Errorf("retry deleted %d tasks, want 3", result.TasksDeleted)
	}
}

func TestDeleteTask_Idempotence(t *testing.T) {
	b := newTestBackend(t)
	t1, _, _ := buildChain(t, b)

	if _, err := b.DeleteTask(t1, types.DeleteSubtasks); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}

	_, err := b.DeleteTask(t1, types.DeleteSubtasks)
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound on re-delete, got %v", err)
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	b := newTestBackend(t)

	_, err := b.DeleteTask("no-such-task", types.DeleteSubtasks)
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask_InvalidPolicy(t *testing.T) {
	b := newTestBackend(t)
	t1 := createTask(t, b, "task", nil)

	_, err := b.DeleteTask(t1, types.DeletePolicy("purge"))
	if !errors.Is(err, types.ErrInvalidPolicy) {
		t.Errorf("expected ErrInvalidPolicy, got %v", err)
	}
}

func TestDeleteTask_CycleDetected(t *testing.T) {
	b := newTestBackend(t)
	t1, _, t3 := buildChain(t, b)

	// Corrupt the parent chain: T1 becomes a child of its own descendant.
	if _, err := b.db.Exec("UPDATE tasks SET parent_task_id = ? WHERE task_id = ?", t3, t1); err != nil {
		t.Fatalf("corrupting chain: %v", err)
	}

	before := storeSnapshot(t, b)

	_, err := b.DeleteTask(t1, types.DeleteSubtasks)
	if !errors.Is(err, types.ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}

	// Planning errors never mutate state.
	if after := storeSnapshot(t, b); before != after {
		t.Error("store changed on rejected plan")
	}
}

func TestDeleteTask_SelfReference(t *testing.T) {
	b := newTestBackend(t)
	t1 := createTask(t, b, "self-referential", nil)

	if _, err := b.db.Exec("UPDATE tasks SET parent_task_id = task_id WHERE task_id = ?", t1); err != nil {
		t.Fatalf("corrupting task: %v", err)
	}

	_, err := b.DeleteTask(t1, types.DeleteSubtasks)
	if !errors.Is(err, types.ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected, got %v", err)
	}
}

func TestApplyPlan_ToleratesAlreadyGone(t *testing.T) {
	b := newTestBackend(t)
	t1, _, _ := buildChain(t, b)

	plan, err := cascade.Plan(b.Relations(), t1, types.DeleteSubtasks)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	// A concurrent caller removes the comment between planning and
	// execution; the executor must treat it as a benign no-op.
	if _, err := b.db.Exec("DELETE FROM comments WHERE comment_id = ?", plan.CommentsToDelete[0]); err != nil {
		t.Fatalf("removing comment: %v", err)
	}

	result, err := b.applyPlan(plan)
	if err != nil {
		t.Fatalf("applyPlan failed: %v", err)
	}
	if result.CommentsDeleted != 0 {
		t.Errorf("expected 0 comments deleted, got %d", result.CommentsDeleted)
	}
	if result.TasksDeleted != 3 {
		t.Errorf("expected 3 tasks deleted, got %d", result.TasksDeleted)
	}
}

func TestCompleteTask_MarksSubtasks(t *testing.T) {
	b := newTestBackend(t)
	t1, t2, t3 := buildChain(t, b)

	if err := b.CompleteTask(t1); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}

	table, _ := b.GetTable(types.TasksTable)
	for _, id := range []string{t1, t2, t3} {
		entity, err := table.Get(id)
		if err != nil {
			t.Fatalf("Get %s failed: %v", id, err)
		}
		task := entity.(*types.Task)
		if !task.Completed || task.Status != types.StatusDone || task.CompletedAt == nil {
			t.Errorf("task %s not completed: %+v", id, task)
		}
	}
}

func TestCompleteTask_NotFound(t *testing.T) {
	b := newTestBackend(t)

	if err := b.CompleteTask("no-such-task"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRelationIndex_DependentsOf(t *testing.T) {
	b := newTestBackend(t)
	idx := b.Relations()

	root := createTask(t, b, "root", nil)
	child := createTask(t, b, "child", &root)
	commentID := createComment(t, b, root, "note")
	attachmentID := createAttachment(t, b, root, "file.txt")

	deps, err := idx.DependentsOf(root)
	if err != nil {
		t.Fatalf("DependentsOf failed: %v", err)
	}

	want := map[types.Dependent]bool{
		{Kind: types.KindTask, ID: child}:             true,
		{Kind: types.KindComment, ID: commentID}:      true,
		{Kind: types.KindAttachment, ID: attachmentID}: true,
	}
	if len(deps) != len(want) {
		t.Fatalf("expected %d dependents, got %d: %v", len(want), len(deps), deps)
	}
	for _, dep := range deps {
		if !want[dep] {
			t.Errorf("unexpected dependent %+v", dep)
		}
	}

	// A leaf record owns nothing: empty slice, not an error.
	deps, err = idx.DependentsOf(child)
	if err != nil {
		t.Fatalf("DependentsOf(leaf) failed: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("expected no dependents, got %v", deps)
	}
}

func TestRelationIndex_TaskExists(t *testing.T) {
	b := newTestBackend(t)
	idx := b.Relations()

	id := createTask(t, b, "exists", nil)

	exists, err := idx.TaskExists(id)
	if err != nil || !exists {
		t.Errorf("TaskExists(%s) = %v, %v; want true", id, exists, err)
	}

	exists, err = idx.TaskExists("missing")
	if err != nil || exists {
		t.Errorf("TaskExists(missing) = %v, %v; want false", exists, err)
	}
}
