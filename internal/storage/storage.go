// Package storage persists pipeline artifacts: the raw, cleaned, and
// final product stages produced by one run.
package storage

import (
	"github.com/shelfminer/shelfminer/internal/types"
	"github.com/shelfminer/shelfminer/internal/validate"
)

// Artifacts is everything one pipeline run produces. Each stage is a
// field superset of the previous one.
type Artifacts struct {
	RunID   string
	Raw     []types.RawProduct
	Cleaned []types.CanonicalProduct
	Final   []types.CanonicalProduct
	Report  *validate.Report
}

// Storage is the interface for all artifact backends.
type Storage interface {
	// Store persists one run's artifacts.
	Store(a *Artifacts) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}
