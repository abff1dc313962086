// Root command for the taskstore CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskstore/internal/paths"
	"github.com/taskflow/taskstore/internal/sqlite"
	"github.com/taskflow/taskstore/pkg/taskstore"
	"github.com/taskflow/taskstore/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// store is the attached Store instance, initialized by PersistentPreRunE
// for every command that touches the database.
var store types.Store

var rootCmd = &cobra.Command{
	Use:     "taskstore",
	Short:   "Taskstore is a local-first task tracker",
	Version: taskstore.Version,
	Long: `Taskstore manages hierarchical tasks with comments and attachments.

Deleting a task cascades to everything that depends on it: subtasks are
either deleted recursively or detached into independent root tasks,
and comments and attachments of every deleted task go with it, all in
one atomic unit.`,
	PersistentPreRunE:  initStore,
	PersistentPostRunE: closeStore,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.taskstore-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(attachmentCmd)
}

// initStore loads config, resolves directories, and attaches the backend.
func initStore(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(types.Config{
		Backend: cfg.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}); err != nil {
		return fmt.Errorf("attach store: %w", err)
	}

	store = backend
	return nil
}

// closeStore detaches the Store and releases resources.
func closeStore(cmd *cobra.Command, args []string) error {
	if store != nil {
		return store.Detach()
	}
	return nil
}
