// Package sqlite implements the SQLite storage backend for taskstore.
// See docs/ARCHITECTURE.md § SQLite Backend.
package sqlite

// Schema DDL for all tables. Timestamps are stored as RFC 3339 strings.
// The owning-id columns (parent_task_id, task_id) carry indexes so that
// dependent lookup is proportional to the number of dependents rather than
// the table size.
const (
	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    task_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    priority TEXT NOT NULL,
    parent_task_id TEXT,
    due_date TEXT,
    completed INTEGER NOT NULL DEFAULT 0,
    completed_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (parent_task_id) REFERENCES tasks(task_id)
);`

	createComments = `CREATE TABLE IF NOT EXISTS comments (
    comment_id TEXT PRIMARY KEY,
    task_id TEXT NOT NULL,
    body TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    FOREIGN KEY (task_id) REFERENCES tasks(task_id)
);`

	createAttachments = `CREATE TABLE IF NOT EXISTS attachments (
    attachment_id TEXT PRIMARY KEY,
    task_id TEXT NOT NULL,
    filename TEXT NOT NULL,
    file_size INTEGER NOT NULL DEFAULT 0,
    mime_type TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    FOREIGN KEY (task_id) REFERENCES tasks(task_id)
);`

	indexTasksParent = `CREATE INDEX IF NOT EXISTS idx_tasks_parent_task_id
    ON tasks(parent_task_id);`

	indexCommentsTask = `CREATE INDEX IF NOT EXISTS idx_comments_task_id
    ON comments(task_id);`

	indexAttachmentsTask = `CREATE INDEX IF NOT EXISTS idx_attachments_task_id
    ON attachments(task_id);`
)

// schemaStatements lists every DDL statement executed on Attach, in order.
var schemaStatements = []string{
	createTasks,
	createComments,
	createAttachments,
	indexTasksParent,
	indexCommentsTask,
	indexAttachmentsTask,
}
