package types

// Standard table names for Store.GetTable.
const (
	TasksTable       = "tasks"
	CommentsTable    = "comments"
	AttachmentsTable = "attachments"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TasksTable,
	CommentsTable,
	AttachmentsTable,
}
