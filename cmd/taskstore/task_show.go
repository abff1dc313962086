// Task show command displays a task with its dependents.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskstore/pkg/types"
)

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task with its subtasks, comments, and attachments",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

// taskView bundles a task with its direct dependents for display.
type taskView struct {
	Task        *types.Task
	Subtasks    []*types.Task
	Comments    []*types.Comment
	Attachments []*types.Attachment
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	id := args[0]

	task, err := getTask(id)
	if err != nil {
		return err
	}

	view := taskView{Task: task}

	tasksTable, err := store.GetTable(types.TasksTable)
	if err != nil {
		return fmt.Errorf("get tasks table: %w", err)
	}
	subs, err := tasksTable.Fetch(types.Filter{"parent_task_id": id})
	if err != nil {
		return fmt.Errorf("fetch subtasks: %w", err)
	}
	for _, e := range subs {
		view.Subtasks = append(view.Subtasks, e.(*types.Task))
	}

	commentsTable, err := store.GetTable(types.CommentsTable)
	if err != nil {
		return fmt.Errorf("get comments table: %w", err)
	}
	comments, err := commentsTable.Fetch(types.Filter{"task_id": id})
	if err != nil {
		return fmt.Errorf("fetch comments: %w", err)
	}
	for _, e := range comments {
		view.Comments = append(view.Comments, e.(*types.Comment))
	}

	attachmentsTable, err := store.GetTable(types.AttachmentsTable)
	if err != nil {
		return fmt.Errorf("get attachments table: %w", err)
	}
	attachments, err := attachmentsTable.Fetch(types.Filter{"task_id": id})
	if err != nil {
		return fmt.Errorf("fetch attachments: %w", err)
	}
	for _, e := range attachments {
		view.Attachments = append(view.Attachments, e.(*types.Attachment))
	}

	if flagJSON {
		return printJSON(view)
	}

	fmt.Printf("Task:     %s\n", task.TaskID)
	fmt.Printf("Title:    %s\n", task.Title)
	fmt.Printf("Status:   %s\n", task.Status)
	fmt.Printf("Priority: %s\n", task.Priority)
	if task.ParentTaskID != nil {
		fmt.Printf("Parent:   %s\n", *task.ParentTaskID)
	}
	if task.DueDate != nil {
		fmt.Printf("Due:      %s\n", task.DueDate.Format("2006-01-02"))
	}
	fmt.Printf("Subtasks: %d, Comments: %d, Attachments: %d\n",
		len(view.Subtasks), len(view.Comments), len(view.Attachments))
	return nil
}
