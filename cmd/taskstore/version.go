package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskstore/pkg/taskstore"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("taskstore v" + taskstore.Version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the taskstore database",
	Long:  `Init creates the configuration and data directories and the database schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The store is already attached by PersistentPreRunE.
		fmt.Println("Taskstore initialized successfully")
		return nil
	},
}
