package cli

import (
	"github.com/spf13/cobra"

	"boardkit.dev/boardkit/internal/actions/delete"
	"boardkit.dev/boardkit/internal/cli/helpers"
	"boardkit.dev/boardkit/internal/runtime"
	"boardkit.dev/boardkit/internal/tui"
)

// newDeleteCmd creates the delete command
func newDeleteCmd() *cobra.Command {
	var (
		yes            bool
		ignoreManifest bool
	)

	cmd := &cobra.Command{
		Use:   "delete [definition]",
		Short: "Delete the work items a previous create made",
		Long: `Delete the work items recorded in the manifest, newest first.

Without a manifest, or with --ignore-manifest, each title in the definition is
looked up by type and every exact match is deleted: items first, then their
feature, then the epic.

The definition defaults to input.yaml.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return delete.Action(ctx, delete.Options{
					DefinitionPath: helpers.DefinitionPath(args),
					Yes:            yes,
					IgnoreManifest: ignoreManifest,
					Interactive:    tui.IsTTY(),
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&ignoreManifest, "ignore-manifest", false, "Find items by title even when a manifest exists")

	return cmd
}
