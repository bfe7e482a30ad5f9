package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	boarderrors "boardkit.dev/boardkit/internal/errors"
	"boardkit.dev/boardkit/internal/workitem"
)

func sampleManifest() workitem.Manifest {
	m := workitem.NewManifest("input.yaml")
	m.Append(workitem.Record{Type: workitem.Epic, ID: workitem.Some("1"), Title: "E1"})
	m.Append(workitem.Record{Type: workitem.Feature, ID: workitem.None(), Title: "F1"})
	m.Append(workitem.Record{Type: workitem.ProductBacklogItem, ID: workitem.Some("3"), Title: "I1"})
	return m
}

// storeFactories lets every behavioral test run against each backend
var storeFactories = map[string]func(t *testing.T) Store{
	BackendYAML: func(t *testing.T) Store {
		return NewYAMLStore(filepath.Join(t.TempDir(), DefaultYAMLPath))
	},
	BackendSQLite: func(t *testing.T) Store {
		store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), DefaultSQLitePath))
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		return store
	},
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			t.Run("load without a saved manifest reports absent", func(t *testing.T) {
				store := newStore(t)
				_, ok, err := store.Load(ctx)
				require.NoError(t, err)
				require.False(t, ok)
			})

			t.Run("save then load preserves order and absent ids", func(t *testing.T) {
				store := newStore(t)
				want := sampleManifest()
				require.NoError(t, store.Save(ctx, want))

				got, ok, err := store.Load(ctx)
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, want.RunID, got.RunID)
				require.Equal(t, want.Definition, got.Definition)
				require.Equal(t, want.Items, got.Items)
				require.True(t, want.CreatedAt.Equal(got.CreatedAt))
			})

			t.Run("save overwrites the previous manifest", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.Save(ctx, sampleManifest()))

				second := workitem.NewManifest("other.yaml")
				second.Append(workitem.Record{Type: workitem.Epic, ID: workitem.Some("9"), Title: "E9"})
				require.NoError(t, store.Save(ctx, second))

				got, ok, err := store.Load(ctx)
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, second.RunID, got.RunID)
				require.Len(t, got.Items, 1)
				require.Equal(t, "E9", got.Items[0].Title)
			})

			t.Run("empty manifest is present but empty", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.Save(ctx, workitem.NewManifest("input.yaml")))

				got, ok, err := store.Load(ctx)
				require.NoError(t, err)
				require.True(t, ok)
				require.True(t, got.Empty())
			})
		})
	}
}

func TestYAMLStoreFormats(t *testing.T) {
	ctx := context.Background()

	t.Run("reads a manifest written by the original tool", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultYAMLPath)
		content := `created_items:
- id: '101'
  title: E1
  type: Epic
- id: null
  title: F1
  type: Feature
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		got, ok, err := NewYAMLStore(path).Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []workitem.Record{
			{Type: workitem.Epic, ID: workitem.Some("101"), Title: "E1"},
			{Type: workitem.Feature, ID: workitem.None(), Title: "F1"},
		}, got.Items)
	})

	t.Run("file without created_items is treated as absent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultYAMLPath)
		require.NoError(t, os.WriteFile(path, []byte("something_else: true\n"), 0600))

		_, ok, err := NewYAMLStore(path).Load(ctx)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("null created_items is treated as absent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultYAMLPath)
		require.NoError(t, os.WriteFile(path, []byte("created_items: null\n"), 0600))

		_, ok, err := NewYAMLStore(path).Load(ctx)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("reads back a single saved epic", func(t *testing.T) {
		store := NewYAMLStore(filepath.Join(t.TempDir(), DefaultYAMLPath))
		m := workitem.NewManifest("input.yaml")
		m.Append(workitem.Record{Type: workitem.Epic, ID: workitem.Some("1"), Title: "E1"})
		require.NoError(t, store.Save(ctx, m))

		got, ok, err := store.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []workitem.Record{
			{Type: workitem.Epic, ID: workitem.Some("1"), Title: "E1"},
		}, got.Items)
	})

	t.Run("unparseable file is corrupt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultYAMLPath)
		require.NoError(t, os.WriteFile(path, []byte("created_items: [type: {"), 0600))

		_, _, err := NewYAMLStore(path).Load(ctx)
		require.Error(t, err)
		require.True(t, errors.Is(err, boarderrors.ErrManifestCorrupt))
	})

	t.Run("save leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		store := NewYAMLStore(filepath.Join(dir, DefaultYAMLPath))
		require.NoError(t, store.Save(ctx, sampleManifest()))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, DefaultYAMLPath, entries[0].Name())
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	store, closeFn, err := Open(BackendYAML, filepath.Join(dir, "m.yaml"))
	require.NoError(t, err)
	require.IsType(t, &YAMLStore{}, store)
	require.NoError(t, closeFn())

	store, closeFn, err = Open(BackendSQLite, filepath.Join(dir, "m.db"))
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, store)
	require.Equal(t, filepath.Join(dir, "m.db"), store.Location())
	require.NoError(t, closeFn())

	_, _, err = Open("postgres", "")
	require.Error(t, err)
	require.True(t, errors.Is(err, boarderrors.ErrUnknownBackend))

	require.Equal(t, DefaultSQLitePath, DefaultPath(BackendSQLite))
	require.Equal(t, DefaultYAMLPath, DefaultPath(BackendYAML))
}
