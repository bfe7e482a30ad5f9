// Package create provisions the hierarchy described by a definition file.
package create

import (
	"boardkit.dev/boardkit/internal/actions"
	"boardkit.dev/boardkit/internal/definition"
	"boardkit.dev/boardkit/internal/engine"
	"boardkit.dev/boardkit/internal/output"
	"boardkit.dev/boardkit/internal/runtime"
	"boardkit.dev/boardkit/internal/workitem"
)

// Options contains options for the create command
type Options struct {
	DefinitionPath string
	// DryRun prints the hierarchy without calling the backend
	DryRun bool
}

// Action creates every work item in the definition and saves the manifest
func Action(ctx *runtime.Context, opts Options) error {
	splog := ctx.Splog
	splog.Info("Creating work items from %s", opts.DefinitionPath)

	def, err := actions.LoadDefinition(ctx, opts.DefinitionPath)
	if err != nil {
		return err
	}

	if opts.DryRun {
		splog.Info("Dry run: nothing will be created.")
		splog.Page(output.RenderDefinition(def))
		splog.Info("%s would be created.", actions.Count(def.Total(), "work item"))
		return nil
	}

	board, err := ctx.Board()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	provisioner := engine.NewProvisioner(board, store, splog, engine.ProvisionOptions{
		FlushEachRecord: ctx.Config.FlushEachRecord(),
	})
	m, err := provisioner.Provision(ctx, def, opts.DefinitionPath)
	printSummary(ctx, def, m, store.Location())
	return err
}

func printSummary(ctx *runtime.Context, def definition.Hierarchy, m workitem.Manifest, location string) {
	splog := ctx.Splog
	created, failed := m.Counts()
	skipped := def.Total() - m.Len()

	splog.Newline()
	if failed == 0 && skipped == 0 {
		splog.Success("Created %s.", actions.Count(created, "work item"))
	} else {
		splog.Warn("Created %s; %d failed, %d skipped.", actions.Count(created, "work item"), failed, skipped)
	}
	if m.Len() > 0 {
		splog.Info("Manifest saved to %s", location)
		splog.Tip("Run `boardkit delete %s` to remove them.", m.Definition)
	}
}
