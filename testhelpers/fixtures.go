package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"boardkit.dev/boardkit/internal/definition"
	"boardkit.dev/boardkit/internal/workitem"
)

// SampleYAML is the single epic, single feature, two item definition used
// across tests
const SampleYAML = `epics:
  - title: E1
    features:
      - title: F1
        items:
          - title: I1
          - title: I2
`

// Hierarchy builds a definition from epics
func Hierarchy(epics ...definition.Epic) definition.Hierarchy {
	return definition.Hierarchy{Epics: epics}
}

// Epic builds an epic with features
func Epic(title string, features ...definition.Feature) definition.Epic {
	return definition.Epic{Title: title, Features: features}
}

// Feature builds a feature with item titles
func Feature(title string, items ...string) definition.Feature {
	f := definition.Feature{Title: title}
	for _, item := range items {
		f.Items = append(f.Items, definition.Item{Title: item})
	}
	return f
}

// SampleHierarchy returns the parsed form of SampleYAML
func SampleHierarchy() definition.Hierarchy {
	return Hierarchy(Epic("E1", Feature("F1", "I1", "I2")))
}

// Record builds a manifest record; an empty id means creation failed
func Record(itemType workitem.Type, id, title string) workitem.Record {
	return workitem.Record{Type: itemType, ID: workitem.Some(workitem.ID(id)), Title: title}
}

// ManifestOf builds a manifest holding records in order
func ManifestOf(records ...workitem.Record) workitem.Manifest {
	m := workitem.Manifest{}
	for _, r := range records {
		m.Append(r)
	}
	return m
}

// WriteFile writes content to name inside dir and returns the full path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
