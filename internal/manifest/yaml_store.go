package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"boardkit.dev/boardkit/internal/workitem"
)

// YAMLStore keeps the manifest in a YAML file shaped as {created_items: [...]}.
type YAMLStore struct {
	path string
}

// NewYAMLStore creates a store backed by the file at path
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Location returns the file path
func (s *YAMLStore) Location() string {
	return s.path
}

// itemsKey distinguishes a missing created_items key from an empty list
type itemsKey struct {
	Items yaml.Node `yaml:"created_items"`
}

// Load reads the manifest file. A missing file or a file without a
// created_items key reports false.
func (s *YAMLStore) Load(_ context.Context) (workitem.Manifest, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return workitem.Manifest{}, false, nil
		}
		return workitem.Manifest{}, false, fmt.Errorf("read manifest %s: %w", s.path, err)
	}

	var key itemsKey
	if err := yaml.Unmarshal(data, &key); err != nil {
		return workitem.Manifest{}, false, corrupt(s.path, err)
	}
	if key.Items.Kind == 0 || key.Items.ShortTag() == "!!null" {
		return workitem.Manifest{}, false, nil
	}

	var m workitem.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return workitem.Manifest{}, false, corrupt(s.path, err)
	}
	return m, true, nil
}

// Save writes the manifest atomically, replacing any previous file
func (s *YAMLStore) Save(_ context.Context, m workitem.Manifest) error {
	if m.Items == nil {
		m.Items = []workitem.Record{}
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic writes data using the temp-file, fsync, rename pattern.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
