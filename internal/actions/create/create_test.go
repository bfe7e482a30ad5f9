package create

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	boarderrors "boardkit.dev/boardkit/internal/errors"
	"boardkit.dev/boardkit/internal/workitem"
	"boardkit.dev/boardkit/testhelpers"
	"boardkit.dev/boardkit/testhelpers/scenario"
)

func TestCreate(t *testing.T) {
	t.Run("provisions the definition and stores the manifest", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.SampleSceneSetup)

		err := Action(s.Context, Options{DefinitionPath: "input.yaml"})
		require.NoError(t, err)

		s.ExpectStored(
			testhelpers.Record(workitem.Epic, "1", "E1"),
			testhelpers.Record(workitem.Feature, "2", "F1"),
			testhelpers.Record(workitem.ProductBacklogItem, "3", "I1"),
			testhelpers.Record(workitem.ProductBacklogItem, "4", "I2"),
		).ExpectOutput(
			"Creating work items from input.yaml",
			"Created Epic: E1 (ID: 1)",
			"Created 4 work items.",
		)
	})

	t.Run("summary reports failed and skipped nodes", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.SampleSceneSetup)
		s.Board.FailCreate(workitem.Feature, "F1")

		err := Action(s.Context, Options{DefinitionPath: "input.yaml"})
		require.NoError(t, err)
		s.ExpectOutput("Created 1 work item; 1 failed, 2 skipped.")
	})

	t.Run("dry run does not touch the backend or store", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.SampleSceneSetup)

		err := Action(s.Context, Options{DefinitionPath: "input.yaml", DryRun: true})
		require.NoError(t, err)

		require.Empty(t, s.Board.Calls())
		require.Empty(t, s.Store.Saves())
		s.ExpectOutput("Epic: E1", "Item: I2", "4 work items would be created.")
	})

	t.Run("missing definition is reported before any backend call", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := Action(s.Context, Options{DefinitionPath: "missing.yaml"})
		require.ErrorIs(t, err, boarderrors.ErrDefinitionNotFound)
		require.Contains(t, err.Error(), "YAML file not found: missing.yaml")
		require.Empty(t, s.Board.Calls())
	})

	t.Run("malformed definition is a parse error", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WithDefinition("bad.yaml", "epics: [unclosed\n")

		err := Action(s.Context, Options{DefinitionPath: "bad.yaml"})
		require.ErrorIs(t, err, boarderrors.ErrDefinitionParse)
		require.Empty(t, s.Board.Calls())
	})

	t.Run("link failure is returned after saving the partial manifest", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.SampleSceneSetup)
		s.Board.FailLink("2")

		err := Action(s.Context, Options{DefinitionPath: "input.yaml"})
		require.True(t, errors.Is(err, boarderrors.ErrLinkFailed))
		s.ExpectStored(
			testhelpers.Record(workitem.Epic, "1", "E1"),
			testhelpers.Record(workitem.Feature, "2", "F1"),
		)
	})
}
