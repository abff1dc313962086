// Package types defines the Store and Table interfaces, entity types,
// deletion plans, and standard error types for the taskstore backend.
// See docs/ARCHITECTURE.md § Main Interface.
package types
