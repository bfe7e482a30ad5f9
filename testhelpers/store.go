package testhelpers

import (
	"context"
	"sync"

	"boardkit.dev/boardkit/internal/manifest"
	"boardkit.dev/boardkit/internal/workitem"
)

// MemoryStore is an in-memory manifest.Store
type MemoryStore struct {
	mu       sync.Mutex
	manifest *workitem.Manifest
	saves    []workitem.Manifest

	// LoadErr and SaveErr are returned by Load and Save when set
	LoadErr error
	SaveErr error
}

var _ manifest.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// WithManifest preloads m as the stored manifest
func (s *MemoryStore) WithManifest(m workitem.Manifest) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := m.Clone()
	s.manifest = &clone
	return s
}

// Location identifies the store in log output
func (s *MemoryStore) Location() string {
	return "memory"
}

// Load returns a copy of the stored manifest
func (s *MemoryStore) Load(_ context.Context) (workitem.Manifest, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return workitem.Manifest{}, false, s.LoadErr
	}
	if s.manifest == nil {
		return workitem.Manifest{}, false, nil
	}
	return s.manifest.Clone(), true, nil
}

// Save replaces the stored manifest
func (s *MemoryStore) Save(_ context.Context, m workitem.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	clone := m.Clone()
	s.manifest = &clone
	s.saves = append(s.saves, m.Clone())
	return nil
}

// Saves returns every saved manifest in order
func (s *MemoryStore) Saves() []workitem.Manifest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]workitem.Manifest(nil), s.saves...)
}

// Stored returns the current manifest, if any
func (s *MemoryStore) Stored() (workitem.Manifest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manifest == nil {
		return workitem.Manifest{}, false
	}
	return s.manifest.Clone(), true
}
