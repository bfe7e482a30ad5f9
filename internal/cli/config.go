package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"boardkit.dev/boardkit/internal/cli/helpers"
	"boardkit.dev/boardkit/internal/runtime"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the effective configuration.

Examples:
  boardkit config show
  BOARDKIT_BACKEND=github boardkit config show`,
	}

	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

// newConfigShowCmd creates the config show command
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "show",
		Short:        "Print the effective configuration as YAML",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				data, err := yaml.Marshal(ctx.Config)
				if err != nil {
					return fmt.Errorf("failed to encode config: %w", err)
				}
				if ctx.Config.File != "" {
					ctx.Splog.Page(fmt.Sprintf("# %s\n", ctx.Config.File))
				}
				ctx.Splog.Page(string(data))
				return nil
			})
		},
	}
}
