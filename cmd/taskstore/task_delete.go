// Task delete command removes a task and everything that depends on it.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskstore/pkg/types"
)

var deletePolicy string

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task and its dependents",
	Long: `Delete removes a task and everything that transitively depends on it,
as one atomic unit.

The --policy flag selects what happens to subtasks:
  cascade  delete every descendant subtask recursively (default)
  detach   keep direct subtasks as independent root tasks

Comments and attachments of every deleted task are removed with it.
On any storage failure nothing is changed, and the command can be retried.

Example:
  taskstore task delete abc123
  taskstore task delete abc123 --policy detach
  taskstore task delete abc123 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskDelete,
}

func init() {
	taskDeleteCmd.Flags().StringVar(&deletePolicy, "policy", "cascade", "subtask policy: cascade or detach")
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	policy, err := parsePolicy(deletePolicy)
	if err != nil {
		return err
	}

	result, err := store.DeleteTask(id, policy)
	switch {
	case errors.Is(err, types.ErrNotFound):
		return fmt.Errorf("task %q not found", id)
	case errors.Is(err, types.ErrCycleDetected):
		return fmt.Errorf("task %q has a corrupted parent chain: %w", id, err)
	case errors.Is(err, types.ErrExecutionFailed):
		return fmt.Errorf("delete failed, nothing was changed (safe to retry): %w", err)
	case err != nil:
		return fmt.Errorf("delete task: %w", err)
	}

	if flagJSON {
		return printJSON(result)
	}
	fmt.Printf("Deleted task %s: %d tasks deleted, %d subtasks affected, %d comments deleted, %d attachments deleted\n",
		id, result.TasksDeleted, result.SubtasksAffected, result.CommentsDeleted, result.AttachmentsDeleted)
	return nil
}
