// Comment command group.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskstore/pkg/types"
)

var (
	commentBody   string
	commentAuthor string
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage task comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <task-id>",
	Short: "Add a comment to a task",
	Long: `Add attaches a comment to an existing task.

Example:
  taskstore comment add abc123 --body "Blocked on design review"
  taskstore comment add abc123 --body "Done" --author alice`,
	Args: cobra.ExactArgs(1),
	RunE: runCommentAdd,
}

var commentListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List comments on a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentList,
}

func init() {
	commentAddCmd.Flags().StringVar(&commentBody, "body", "", "comment text (required)")
	commentAddCmd.Flags().StringVar(&commentAuthor, "author", "", "comment author")
	_ = commentAddCmd.MarkFlagRequired("body")

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentListCmd)
}

func runCommentAdd(cmd *cobra.Command, args []string) error {
	table, err := store.GetTable(types.CommentsTable)
	if err != nil {
		return fmt.Errorf("get comments table: %w", err)
	}

	comment := &types.Comment{
		TaskID: args[0],
		Body:   commentBody,
		Author: commentAuthor,
	}

	id, err := table.Set("", comment)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	if flagJSON {
		return printJSON(comment)
	}
	fmt.Printf("Created comment: %s\n", id)
	return nil
}

func runCommentList(cmd *cobra.Command, args []string) error {
	table, err := store.GetTable(types.CommentsTable)
	if err != nil {
		return fmt.Errorf("get comments table: %w", err)
	}

	entities, err := table.Fetch(types.Filter{"task_id": args[0]})
	if err != nil {
		return fmt.Errorf("fetch comments: %w", err)
	}

	comments := make([]*types.Comment, len(entities))
	for i, entity := range entities {
		comments[i] = entity.(*types.Comment)
	}

	if flagJSON {
		return printJSON(comments)
	}
	if len(comments) == 0 {
		fmt.Println("No comments found.")
		return nil
	}
	for _, c := range comments {
		author := c.Author
		if author == "" {
			author = "unknown"
		}
		fmt.Printf("%s  [%s] %s\n", c.CommentID, author, c.Body)
	}
	return nil
}
