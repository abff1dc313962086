// Package cascade computes deletion plans for the task hierarchy.
//
// Planning is purely read-and-compute: the planner walks a RelationIndex
// from the requested root and emits a DeletionPlan describing every record
// to delete or detach. No mutation happens here, which makes plans usable
// for dry-run validation and keeps planning safely parallelizable across
// independent requests.
// See docs/ARCHITECTURE.md § Cascade Planner.
package cascade

import (
	"fmt"

	"github.com/taskflow/taskstore/pkg/types"
)

// Plan traverses the relation index breadth-first from rootID and returns
// the complete deletion plan for the requested policy.
//
// Under DeleteSubtasks every descendant task joins the delete set, together
// with the comments and attachments of each. Under DetachSubtasks the
// root's direct children are re-parented to null instead, and traversal
// does not descend into them.
//
// Returns ErrNotFound if rootID does not reference an existing task, and
// ErrCycleDetected if the traversal revisits a task already seen. Since a
// task has at most one parent, a revisit can only mean the parent chain has
// been corrupted into a cycle; rejecting it bounds the traversal on
// corrupted data.
func Plan(idx types.RelationIndex, rootID string, policy types.DeletePolicy) (*types.DeletionPlan, error) {
	if rootID == "" {
		return nil, types.ErrInvalidID
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidPolicy, policy)
	}

	exists, err := idx.TaskExists(rootID)
	if err != nil {
		return nil, fmt.Errorf("checking task %s: %w", rootID, err)
	}
	if !exists {
		return nil, types.ErrNotFound
	}

	plan := &types.DeletionPlan{
		RootID: rootID,
		Policy: policy,
	}

	visited := map[string]bool{rootID: true}
	queue := []string{rootID}

	for len(queue) > 0 {
		taskID := queue[0]
		queue = queue[1:]
		plan.TasksToDelete = append(plan.TasksToDelete, taskID)

		deps, err := idx.DependentsOf(taskID)
		if err != nil {
			return nil, fmt.Errorf("resolving dependents of %s: %w", taskID, err)
		}

		for _, dep := range deps {
			switch dep.Kind {
			case types.KindComment:
				plan.CommentsToDelete = append(plan.CommentsToDelete, dep.ID)
			case types.KindAttachment:
				plan.AttachmentsToDelete = append(plan.AttachmentsToDelete, dep.ID)
			case types.KindTask:
				if visited[dep.ID] {
					return nil, fmt.Errorf("%w: task %s revisited via %s", types.ErrCycleDetected, dep.ID, taskID)
				}
				visited[dep.ID] = true

				if policy == types.DetachSubtasks && taskID == rootID {
					// Direct children survive as root tasks; their own
					// subtrees are out of scope.
					plan.TasksToDetach = append(plan.TasksToDetach, dep.ID)
					continue
				}
				queue = append(queue, dep.ID)
			default:
				return nil, fmt.Errorf("%w: unknown dependent kind %q", types.ErrInvalidData, dep.Kind)
			}
		}
	}

	return plan, nil
}

// Descendants returns rootID followed by every descendant task ID, ordered
// root-first. It shares the planner's traversal and cycle detection, so a
// corrupted parent chain is rejected with ErrCycleDetected rather than
// looping.
func Descendants(idx types.RelationIndex, rootID string) ([]string, error) {
	plan, err := Plan(idx, rootID, types.DeleteSubtasks)
	if err != nil {
		return nil, err
	}
	return plan.TasksToDelete, nil
}
