// Task list command queries tasks.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskstore/pkg/types"
)

var (
	listStatus   string
	listPriority string
	listRoot     bool
	listParent   string
	listLimit    int
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List fetches tasks and displays them.

Example:
  taskstore task list
  taskstore task list --status todo --priority high
  taskstore task list --root
  taskstore task list --parent <task-id> --json`,
	RunE: runTaskList,
}

func init() {
	taskListCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (todo, in_progress, review, done)")
	taskListCmd.Flags().StringVar(&listPriority, "priority", "", "filter by priority (low, medium, high, urgent)")
	taskListCmd.Flags().BoolVar(&listRoot, "root", false, "only root tasks (no parent)")
	taskListCmd.Flags().StringVar(&listParent, "parent", "", "only subtasks of the given task ID")
	taskListCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of results (0 = no limit)")
}

func runTaskList(cmd *cobra.Command, args []string) error {
	table, err := store.GetTable(types.TasksTable)
	if err != nil {
		return fmt.Errorf("get tasks table: %w", err)
	}

	filter := types.Filter{}
	if listStatus != "" {
		filter["status"] = listStatus
	}
	if listPriority != "" {
		filter["priority"] = listPriority
	}
	if listRoot {
		filter["root"] = true
	}
	if listParent != "" {
		filter["parent_task_id"] = listParent
	}
	if listLimit > 0 {
		filter["limit"] = listLimit
	}

	entities, err := table.Fetch(filter)
	if err != nil {
		return fmt.Errorf("fetch tasks: %w", err)
	}

	tasks := make([]*types.Task, len(entities))
	for i, entity := range entities {
		tasks[i] = entity.(*types.Task)
	}

	if flagJSON {
		return printJSON(tasks)
	}
	printTaskTable(tasks)
	return nil
}

// printTaskTable prints tasks in a human-readable table format.
func printTaskTable(tasks []*types.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tPARENT")
	for _, t := range tasks {
		parent := "-"
		if t.ParentTaskID != nil {
			parent = *t.ParentTaskID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.TaskID, t.Title, t.Status, t.Priority, parent)
	}
	w.Flush()
	fmt.Print(sb.String())
}
