// Task complete command marks a task and its subtasks done.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskstore/pkg/types"
)

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a task and all of its subtasks as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskComplete,
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	id := args[0]

	err := store.CompleteTask(id)
	switch {
	case errors.Is(err, types.ErrNotFound):
		return fmt.Errorf("task %q not found", id)
	case err != nil:
		return fmt.Errorf("complete task: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]string{"completed": id, "status": "success"})
	}
	fmt.Printf("Completed task: %s\n", id)
	return nil
}
