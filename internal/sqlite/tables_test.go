// Tests for the per-entity table accessors.
package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/taskflow/taskstore/pkg/types"
)

// createTask inserts a task and returns its generated ID.
func createTask(t *testing.T, b *Backend, title string, parentID *string) string {
	t.Helper()

	table, err := b.GetTable(types.TasksTable)
	if err != nil {
		t.Fatalf("GetTable(tasks) failed: %v", err)
	}
	id, err := table.Set("", &types.Task{Title: title, ParentTaskID: parentID})
	if err != nil {
		t.Fatalf("creating task %q: %v", title, err)
	}
	return id
}

// createComment inserts a comment on taskID and returns its generated ID.
func createComment(t *testing.T, b *Backend, taskID, body string) string {
	t.Helper()

	table, err := b.GetTable(types.CommentsTable)
	if err != nil {
		t.Fatalf("GetTable(comments) failed: %v", err)
	}
	id, err := table.Set("", &types.Comment{TaskID: taskID, Body: body})
	if err != nil {
		t.Fatalf("creating comment on %s: %v", taskID, err)
	}
	return id
}

// createAttachment inserts an attachment on taskID and returns its ID.
func createAttachment(t *testing.T, b *Backend, taskID, filename string) string {
	t.Helper()

	table, err := b.GetTable(types.AttachmentsTable)
	if err != nil {
		t.Fatalf("GetTable(attachments) failed: %v", err)
	}
	id, err := table.Set("", &types.Attachment{TaskID: taskID, Filename: filename})
	if err != nil {
		t.Fatalf("creating attachment on %s: %v", taskID, err)
	}
	return id
}

func TestTasksTable_CreateDefaults(t *testing.T) {
	b := newTestBackend(t)
	table, _ := b.GetTable(types.TasksTable)

	due := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	id, err := table.Set("", &types.Task{Title: "Design homepage", DueDate: &due})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated ID")
	}

	entity, err := table.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	task := entity.(*types.Task)

	if task.Status != types.StatusTodo {
		t.Errorf("expected default status todo, got %q", task.Status)
	}
	if task.Priority != types.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", task.Priority)
	}
	if task.ParentTaskID != nil {
		t.Errorf("expected nil parent, got %v", *task.ParentTaskID)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("expected due date %v preserved, got %v", due, task.DueDate)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("expected timestamps set on create")
	}
}

func TestTasksTable_Update(t *testing.T) {
	b := newTestBackend(t)
	table, _ := b.GetTable(types.TasksTable)

	id := createTask(t, b, "original", nil)

	entity, _ := table.Get(id)
	task := entity.(*types.Task)
	task.Title = "renamed"
	if err := task.SetStatus(types.StatusInProgress); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	if _, err := table.Set(id, task); err != nil {
		t.Fatalf("update Set failed: %v", err)
	}

	entity, _ = table.Get(id)
	updated := entity.(*types.Task)
	if updated.Title != "renamed" || updated.Status != types.StatusInProgress {
		t.Errorf("update not persisted: %+v", updated)
	}
}

func TestTasksTable_Validation(t *testing.T) {
	b := newTestBackend(t)
	table, _ := b.GetTable(types.TasksTable)

	if _, err := table.Set("", &types.Task{Title: "   "}); !errors.Is(err, types.ErrInvalidTitle) {
		t.Errorf("expected ErrInvalidTitle, got %v", err)
	}

	if _, err := table.Set("", "not a task"); !errors.Is(err, types.ErrInvalidData) {
		t.Errorf("expected ErrInvalidData, got %v", err)
	}

	missing := "no-such-task"
	if _, err := table.Set("", &types.Task{Title: "orphan", ParentTaskID: &missing}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing parent, got %v", err)
	}

	id := createTask(t, b, "self", nil)
	self := id
	if _, err := table.Set(id, &types.Task{Title: "self", ParentTaskID: &self}); !errors.Is(err, types.ErrInvalidData) {
		t.Errorf("expected ErrInvalidData for self-parent, got %v", err)
	}
}

func TestTasksTable_Fetch(t *testing.T) {
	b := newTestBackend(t)
	table, _ := b.GetTable(types.TasksTable)

	rootID := createTask(t, b, "root", nil)
	createTask(t, b, "child a", &rootID)
	createTask(t, b, "child b", &rootID)

	all, err := table.Fetch(nil)
	if err != nil {
		t.Fatalf("Fetch(nil) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 tasks, got %d", len(all))
	}

	roots, err := table.Fetch(types.Filter{"root": true})
	if err != nil {
		t.Fatalf("Fetch(root) failed: %v", err)
	}
	if len(roots) != 1 {
		t.Errorf("expected 1 root task, got %d", len(roots))
	}

	children, err := table.Fetch(types.Filter{"parent_task_id": rootID})
	if err != nil {
		t.Fatalf("Fetch(parent_task_id) failed: %v", err)
	}
	if len(children) != 2 {
		t.Errorf("expected 2 children, got %d", len(children))
	}

	if _, err := table.Fetch(types.Filter{"status": 42}); !errors.Is(err, types.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestTasksTable_GetNotFound(t *testing.T) {
	b := newTestBackend(t)
	table, _ := b.GetTable(types.TasksTable)

	if _, err := table.Get("missing"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := table.Get(""); !errors.Is(err, types.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestCommentsTable_CRUD(t *testing.T) {
	b := newTestBackend(t)
	table, _ := b.GetTable(types.CommentsTable)

	taskID := createTask(t, b, "commented", nil)

	id, err := table.Set("", &types.Comment{TaskID: taskID, Body: "first", Author: "alice"})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entity, err := table.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	comment := entity.(*types.Comment)
	if comment.Body != "first" || comment.Author != "alice" {
		t.Errorf("unexpected comment: %+v", comment)
	}

	// Owning task must exist: comments never reference absent tasks.
	if _, err := table.Set("", &types.Comment{TaskID: "no-such-task", Body: "x"}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing task, got %v", err)
	}
	if _, err := table.Set("", &types.Comment{TaskID: taskID, Body: " "}); !errors.Is(err, types.ErrInvalidBody) {
		t.Errorf("expected ErrInvalidBody, got %v", err)
	}

	if err := table.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := table.Delete(id); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound on re-delete, got %v", err)
	}
}

func TestAttachmentsTable_CRUD(t *testing.T) {
	b := newTestBackend(t)
	table, _ := b.GetTable(types.AttachmentsTable)

	taskID := createTask(t, b, "attached", nil)

	id, err := table.Set("", &types.Attachment{TaskID: taskID, Filename: "mockup.png", FileSize: 2048, MimeType: "image/png"})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entity, err := table.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	attachment := entity.(*types.Attachment)
	if attachment.Filename != "mockup.png" || attachment.FileSize != 2048 {
		t.Errorf("unexpected attachment: %+v", attachment)
	}

	if _, err := table.Set("", &types.Attachment{TaskID: "no-such-task", Filename: "x"}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing task, got %v", err)
	}

	results, err := table.Fetch(types.Filter{"task_id": taskID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 attachment, got %d", len(results))
	}
}

func TestTasksTable_DeleteCascades(t *testing.T) {
	b := newTestBackend(t)
	table, _ := b.GetTable(types.TasksTable)

	rootID := createTask(t, b, "root", nil)
	childID := createTask(t, b, "child", &rootID)
	createComment(t, b, childID, "on child")

	// Table-level Delete routes through the cascading delete.
	if err := table.Delete(rootID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := table.Get(childID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected child deleted, got %v", err)
	}
	comments, _ := b.tables[types.CommentsTable].Fetch(types.Filter{"task_id": childID})
	if len(comments) != 0 {
		t.Errorf("expected child comments deleted, got %d", len(comments))
	}
}
