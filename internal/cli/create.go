package cli

import (
	"github.com/spf13/cobra"

	"boardkit.dev/boardkit/internal/actions/create"
	"boardkit.dev/boardkit/internal/cli/helpers"
	"boardkit.dev/boardkit/internal/runtime"
)

// newCreateCmd creates the create command
func newCreateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "create [definition]",
		Short: "Create the work items described by a YAML definition",
		Long: `Create every Epic, Feature and Product Backlog Item in the definition, linking
each child to its parent, and save a manifest of what was created.

A failed create is recorded and its children are skipped. A failed link stops
the run; the items created so far are still saved to the manifest.

The definition defaults to input.yaml.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return create.Action(ctx, create.Options{
					DefinitionPath: helpers.DefinitionPath(args),
					DryRun:         dryRun,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the hierarchy without creating anything")

	return cmd
}
