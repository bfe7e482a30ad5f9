package testhelpers

import (
	"os"
	"testing"
)

// Scene is a temporary working directory for a test. The process changes
// into it for the duration of the test, so default relative paths such as
// created_items.yaml and boardkit.log land inside it.
type Scene struct {
	Dir    string
	oldDir string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a scene and changes into it.
// It automatically handles cleanup using t.Cleanup().
// NOTE: not safe for parallel tests because it changes the working directory.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	tmpDir := t.TempDir()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	scene := &Scene{Dir: tmpDir, oldDir: oldDir}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldDir)
	})

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	return scene
}

// WriteFile writes content relative to the scene directory
func (s *Scene) WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	return WriteFile(t, s.Dir, name, content)
}

// SampleSceneSetup writes SampleYAML to input.yaml
func SampleSceneSetup(scene *Scene) error {
	return os.WriteFile("input.yaml", []byte(SampleYAML), 0o600)
}
