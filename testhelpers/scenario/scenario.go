// Package scenario provides a high-level test scenario that combines a Scene,
// a fake board, an in-memory manifest store and a runtime Context to provide
// a terse API for action and command tests.
package scenario

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"boardkit.dev/boardkit/internal/config"
	"boardkit.dev/boardkit/internal/output"
	"boardkit.dev/boardkit/internal/runtime"
	"boardkit.dev/boardkit/internal/workitem"
	"boardkit.dev/boardkit/testhelpers"
)

// Scenario wires a fake backend and store into a runtime Context
type Scenario struct {
	T       *testing.T
	Scene   *testhelpers.Scene
	Board   *testhelpers.FakeBoard
	Store   *testhelpers.MemoryStore
	Config  *config.Config
	Context *runtime.Context
	Out     *bytes.Buffer
}

// NewScenario creates a Scenario with an optional scene setup function.
// NOTE: This function is NOT safe for parallel tests as it uses t.Setenv and NewScene.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	// Force non-interactive mode for tests
	t.Setenv("BOARDKIT_NO_INTERACTIVE", "true")

	scene := testhelpers.NewScene(t, setup)

	cfg, err := config.Load(config.LoadOptions{Dir: scene.Dir})
	require.NoError(t, err)
	cfg.Log.File = ""

	out := &bytes.Buffer{}
	splog, err := output.NewSplogWithOptions(output.Options{Writer: out, Debug: true})
	require.NoError(t, err)

	board := testhelpers.NewFakeBoard()
	store := testhelpers.NewMemoryStore()
	ctx := runtime.NewContext(context.Background(), cfg, splog).
		WithBoard(board).
		WithStore(store)

	return &Scenario{
		T:       t,
		Scene:   scene,
		Board:   board,
		Store:   store,
		Config:  cfg,
		Context: ctx,
		Out:     out,
	}
}

// WithDefinition writes content to name in the scene directory
func (s *Scenario) WithDefinition(name, content string) *Scenario {
	s.T.Helper()
	s.Scene.WriteFile(s.T, name, content)
	return s
}

// WithManifest preloads the store
func (s *Scenario) WithManifest(records ...workitem.Record) *Scenario {
	s.Store.WithManifest(testhelpers.ManifestOf(records...))
	return s
}

// ExpectOutput asserts the console output contains each substring
func (s *Scenario) ExpectOutput(substrs ...string) *Scenario {
	s.T.Helper()
	for _, substr := range substrs {
		require.Contains(s.T, s.Out.String(), substr)
	}
	return s
}

// ExpectDeletes asserts the ids passed to DeleteItem
func (s *Scenario) ExpectDeletes(ids ...workitem.ID) *Scenario {
	s.T.Helper()
	require.Equal(s.T, ids, s.Board.Deletes())
	return s
}

// ExpectStored asserts the records held by the store
func (s *Scenario) ExpectStored(records ...workitem.Record) *Scenario {
	s.T.Helper()
	stored, ok := s.Store.Stored()
	require.True(s.T, ok, "expected a stored manifest")
	require.Equal(s.T, records, stored.Items)
	return s
}
