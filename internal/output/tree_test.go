package output

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"boardkit.dev/boardkit/internal/definition"
	"boardkit.dev/boardkit/internal/workitem"
)

func record(t workitem.Type, id, title string) workitem.Record {
	return workitem.Record{Type: t, ID: workitem.Some(workitem.ID(id)), Title: title}
}

func TestRenderManifest(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	t.Run("nests records by creation order", func(t *testing.T) {
		m := workitem.Manifest{Items: []workitem.Record{
			record(workitem.Epic, "1", "E1"),
			record(workitem.Feature, "2", "F1"),
			record(workitem.ProductBacklogItem, "3", "I1"),
			record(workitem.ProductBacklogItem, "4", "I2"),
			record(workitem.Feature, "5", "F2"),
			record(workitem.Epic, "6", "E2"),
		}}

		want := "Epic: E1 #1\n" +
			"├── Feature: F1 #2\n" +
			"│   ├── Item: I1 #3\n" +
			"│   └── Item: I2 #4\n" +
			"└── Feature: F2 #5\n" +
			"Epic: E2 #6\n"
		require.Equal(t, want, RenderManifest(m))
	})

	t.Run("marks records that were not created", func(t *testing.T) {
		m := workitem.Manifest{Items: []workitem.Record{
			record(workitem.Epic, "1", "E1"),
			{Type: workitem.Feature, ID: workitem.None(), Title: "F1"},
		}}

		require.Equal(t, "Epic: E1 #1\n└── Feature: F1 (not created)\n", RenderManifest(m))
	})

	t.Run("items after a new epic do not attach to the previous feature", func(t *testing.T) {
		m := workitem.Manifest{Items: []workitem.Record{
			record(workitem.Epic, "1", "E1"),
			record(workitem.Feature, "2", "F1"),
			record(workitem.Epic, "3", "E2"),
			record(workitem.ProductBacklogItem, "4", "I1"),
		}}

		want := "Epic: E1 #1\n" +
			"└── Feature: F1 #2\n" +
			"Epic: E2 #3\n" +
			"Item: I1 #4\n"
		require.Equal(t, want, RenderManifest(m))
	})

	t.Run("empty manifest renders nothing", func(t *testing.T) {
		require.Empty(t, RenderManifest(workitem.Manifest{}))
	})
}

func TestRenderDefinition(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	def := definition.Hierarchy{Epics: []definition.Epic{{
		Title: "E1",
		Features: []definition.Feature{
			{Title: "F1", Items: []definition.Item{{Title: "I1"}}},
			{Title: "F2"},
		},
	}}}

	want := "Epic: E1\n" +
		"├── Feature: F1\n" +
		"│   └── Item: I1\n" +
		"└── Feature: F2\n"
	require.Equal(t, want, RenderDefinition(def))
}
