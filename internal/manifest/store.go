// Package manifest persists the record of work items created by the most
// recent provisioning run so a later teardown can replay it.
package manifest

import (
	"context"
	"fmt"
	"strings"

	boarderrors "boardkit.dev/boardkit/internal/errors"
	"boardkit.dev/boardkit/internal/workitem"
)

// Store reads and writes the manifest of the most recent run.
type Store interface {
	// Load returns the saved manifest. The boolean is false when no manifest
	// has been saved; that is not an error.
	Load(ctx context.Context) (workitem.Manifest, bool, error)

	// Save replaces any previously saved manifest entirely
	Save(ctx context.Context, m workitem.Manifest) error

	// Location describes where the manifest lives, for log messages
	Location() string
}

// Backend names accepted by Open
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Default file names per backend
const (
	DefaultYAMLPath   = "created_items.yaml"
	DefaultSQLitePath = "created_items.db"
)

// DefaultPath returns the default manifest path for a backend
func DefaultPath(backend string) string {
	if backend == BackendSQLite {
		return DefaultSQLitePath
	}
	return DefaultYAMLPath
}

// Open returns the store for the named backend. The returned close function
// must be called when the store is no longer needed.
func Open(backend, path string) (Store, func() error, error) {
	if path == "" {
		path = DefaultPath(backend)
	}
	switch strings.ToLower(backend) {
	case "", BackendYAML:
		return NewYAMLStore(path), func() error { return nil }, nil
	case BackendSQLite:
		store, err := OpenSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: manifest backend %q", boarderrors.ErrUnknownBackend, backend)
	}
}

func corrupt(location string, err error) error {
	return fmt.Errorf("%w: %s: %v", boarderrors.ErrManifestCorrupt, location, err)
}
