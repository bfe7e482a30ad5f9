// Package delete tears down the work items a create run produced.
package delete

import (
	"fmt"

	"boardkit.dev/boardkit/internal/actions"
	"boardkit.dev/boardkit/internal/engine"
	boarderrors "boardkit.dev/boardkit/internal/errors"
	"boardkit.dev/boardkit/internal/runtime"
	"boardkit.dev/boardkit/internal/tui"
)

// ConfirmFunc asks the user a yes/no question
type ConfirmFunc func(message string) (bool, error)

// Options contains options for the delete command
type Options struct {
	DefinitionPath string
	// Yes skips the confirmation prompt
	Yes bool
	// IgnoreManifest deletes by title even when a manifest exists
	IgnoreManifest bool
	// Interactive enables the confirmation prompt
	Interactive bool
	// Confirm overrides the survey prompt
	Confirm ConfirmFunc
}

// Action deletes the items recorded in the manifest, or found by title
func Action(ctx *runtime.Context, opts Options) error {
	splog := ctx.Splog
	splog.Info("Deleting work items from %s", opts.DefinitionPath)

	def, err := actions.LoadDefinition(ctx, opts.DefinitionPath)
	if err != nil {
		return err
	}

	board, err := ctx.Board()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	if !opts.Yes && opts.Interactive {
		confirm := opts.Confirm
		if confirm == nil {
			confirm = func(message string) (bool, error) {
				return tui.Confirm(message, false)
			}
		}
		ok, err := confirm(fmt.Sprintf("Delete the work items from %s on %s?", opts.DefinitionPath, board.Name()))
		if err != nil {
			return fmt.Errorf("%w: %v", boarderrors.ErrAborted, err)
		}
		if !ok {
			splog.Info("Aborted. Nothing was deleted.")
			return nil
		}
	}

	teardown := engine.NewTeardown(board, store, splog)
	report, err := teardown.Run(ctx, def, engine.TeardownOptions{IgnoreManifest: opts.IgnoreManifest})
	if err != nil {
		return err
	}
	printSummary(ctx, report)
	return nil
}

func printSummary(ctx *runtime.Context, report engine.Report) {
	splog := ctx.Splog
	splog.Newline()

	deleted := actions.Count(report.Deleted, "work item")
	if report.Failed == 0 && report.QueryFailed == 0 {
		splog.Success("Deleted %s (%s).", deleted, report.Strategy)
	} else {
		splog.Warn("Deleted %s (%s); %d failed, %d lookups failed.", deleted, report.Strategy, report.Failed, report.QueryFailed)
	}
	if report.NotFound > 0 {
		splog.Info("%s had no match.", actions.Count(report.NotFound, "title"))
	}
	if report.Skipped > 0 {
		splog.Info("%s were never created and were skipped.", actions.Count(report.Skipped, "record"))
	}
}
