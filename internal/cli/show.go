package cli

import (
	"github.com/spf13/cobra"

	"boardkit.dev/boardkit/internal/actions/show"
	"boardkit.dev/boardkit/internal/cli/helpers"
	"boardkit.dev/boardkit/internal/runtime"
)

// newShowCmd creates the show command
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "show",
		Short:        "Show the work items recorded by the last create",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return show.Action(ctx, show.Options{})
			})
		},
	}
}
