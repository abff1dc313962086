// Shared helpers for taskstore CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/taskflow/taskstore/pkg/types"
)

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// getTask fetches a task by ID and type-asserts the result.
func getTask(id string) (*types.Task, error) {
	table, err := store.GetTable(types.TasksTable)
	if err != nil {
		return nil, fmt.Errorf("get tasks table: %w", err)
	}
	entity, err := table.Get(id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("task %q not found", id)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	task, ok := entity.(*types.Task)
	if !ok {
		return nil, fmt.Errorf("unexpected entity type")
	}
	return task, nil
}

// parsePolicy maps the --policy flag value to a DeletePolicy.
func parsePolicy(flag string) (types.DeletePolicy, error) {
	switch flag {
	case "cascade":
		return types.DeleteSubtasks, nil
	case "detach":
		return types.DetachSubtasks, nil
	default:
		return "", fmt.Errorf("%w: %q (use cascade or detach)", types.ErrInvalidPolicy, flag)
	}
}
