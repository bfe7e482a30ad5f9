// Package show prints the saved manifest as a tree.
package show

import (
	"boardkit.dev/boardkit/internal/actions"
	"boardkit.dev/boardkit/internal/output"
	"boardkit.dev/boardkit/internal/runtime"
)

// Options contains options for the show command
type Options struct{}

// Action renders the manifest from the configured store
func Action(ctx *runtime.Context, _ Options) error {
	splog := ctx.Splog
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	m, found, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if !found || m.Empty() {
		splog.Info("No work items recorded in %s.", store.Location())
		return nil
	}

	if m.RunID != "" {
		splog.Info("Run %s from %s at %s", m.RunID, m.Definition, m.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	splog.Page(output.RenderManifest(m))

	created, failed := m.Counts()
	summary := actions.Count(created, "work item") + " created"
	if failed > 0 {
		splog.Info("%s, %d failed.", summary, failed)
	} else {
		splog.Info("%s.", summary)
	}
	return nil
}
