// Attachment command group.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskstore/pkg/types"
)

var (
	attachmentFilename string
	attachmentSize     int64
	attachmentMime     string
)

var attachmentCmd = &cobra.Command{
	Use:   "attachment",
	Short: "Manage task attachments",
}

var attachmentAddCmd = &cobra.Command{
	Use:   "add <task-id>",
	Short: "Add an attachment to a task",
	Long: `Add records a file reference as an attachment of an existing task.

Example:
  taskstore attachment add abc123 --file mockup.png
  taskstore attachment add abc123 --file brief.pdf --mime application/pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runAttachmentAdd,
}

var attachmentListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List attachments on a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runAttachmentList,
}

func init() {
	attachmentAddCmd.Flags().StringVar(&attachmentFilename, "file", "", "file reference (required)")
	attachmentAddCmd.Flags().Int64Var(&attachmentSize, "size", 0, "file size in bytes")
	attachmentAddCmd.Flags().StringVar(&attachmentMime, "mime", "", "MIME type")
	_ = attachmentAddCmd.MarkFlagRequired("file")

	attachmentCmd.AddCommand(attachmentAddCmd)
	attachmentCmd.AddCommand(attachmentListCmd)
}

func runAttachmentAdd(cmd *cobra.Command, args []string) error {
	table, err := store.GetTable(types.AttachmentsTable)
	if err != nil {
		return fmt.Errorf("get attachments table: %w", err)
	}

	attachment := &types.Attachment{
		TaskID:   args[0],
		Filename: attachmentFilename,
		FileSize: attachmentSize,
		MimeType: attachmentMime,
	}

	id, err := table.Set("", attachment)
	if err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}

	if flagJSON {
		return printJSON(attachment)
	}
	fmt.Printf("Created attachment: %s\n", id)
	return nil
}

func runAttachmentList(cmd *cobra.Command, args []string) error {
	table, err := store.GetTable(types.AttachmentsTable)
	if err != nil {
		return fmt.Errorf("get attachments table: %w", err)
	}

	entities, err := table.Fetch(types.Filter{"task_id": args[0]})
	if err != nil {
		return fmt.Errorf("fetch attachments: %w", err)
	}

	attachments := make([]*types.Attachment, len(entities))
	for i, entity := range entities {
		attachments[i] = entity.(*types.Attachment)
	}

	if flagJSON {
		return printJSON(attachments)
	}
	if len(attachments) == 0 {
		fmt.Println("No attachments found.")
		return nil
	}
	for _, a := range attachments {
		fmt.Printf("%s  %s (%d bytes)\n", a.AttachmentID, a.Filename, a.FileSize)
	}
	return nil
}
