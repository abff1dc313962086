// Package taskstore exposes the public entry points for the taskstore
// backend: the release version and a constructor for the default store.
package taskstore

import (
	"github.com/taskflow/taskstore/internal/sqlite"
	"github.com/taskflow/taskstore/pkg/types"
)

// Version is the current taskstore release.
const Version = "0.1.0"

// New returns an unattached Store backed by the backend named in config.
// Callers must Attach before use and Detach when done.
func New(config types.Config) (types.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return sqlite.NewBackend(), nil
}
