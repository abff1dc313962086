// Task add command creates a new task or subtask.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskstore/pkg/types"
)

var (
	taskTitle       string
	taskDescription string
	taskPriority    string
	taskParentID    string
	taskDueDate     string
)

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new task",
	Long: `Add creates a new task with the specified title.

Pass --parent to create the task as a subtask of an existing task.

Example:
  taskstore task add --title "Design new homepage layout"
  taskstore task add --title "Wireframes" --parent <task-id> --priority high
  taskstore task add --title "Launch" --due 2026-09-30 --json`,
	RunE: runTaskAdd,
}

func init() {
	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "title for the task (required)")
	taskAddCmd.Flags().StringVar(&taskDescription, "description", "", "task description")
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", "", "priority (low, medium, high, urgent; default: medium)")
	taskAddCmd.Flags().StringVar(&taskParentID, "parent", "", "parent task ID (creates a subtask)")
	taskAddCmd.Flags().StringVar(&taskDueDate, "due", "", "due date (YYYY-MM-DD)")
	_ = taskAddCmd.MarkFlagRequired("title")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	table, err := store.GetTable(types.TasksTable)
	if err != nil {
		return fmt.Errorf("get tasks table: %w", err)
	}

	task := &types.Task{
		Title:       taskTitle,
		Description: taskDescription,
	}

	if taskPriority != "" {
		if err := task.SetPriority(taskPriority); err != nil {
			return fmt.Errorf("invalid priority %q: %w", taskPriority, err)
		}
	}
	if taskParentID != "" {
		task.ParentTaskID = &taskParentID
	}
	if taskDueDate != "" {
		due, err := time.Parse("2006-01-02", taskDueDate)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", taskDueDate, err)
		}
		task.DueDate = &due
	}

	id, err := table.Set("", task)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	if flagJSON {
		return printJSON(task)
	}
	fmt.Printf("Created task: %s\n", id)
	return nil
}
