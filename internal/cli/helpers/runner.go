// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"boardkit.dev/boardkit/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	configFile, _ := cmd.Flags().GetString("config")
	ctx, err := runtime.GetContext(cmd.Context(), runtime.Options{
		ConfigFile: configFile,
		Flags:      cmd.Flags(),
		Out:        cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Close() }()

	if err := fn(ctx); err != nil {
		ctx.Splog.Debug("Command failed: %v", err)
		return err
	}
	return nil
}

// DefinitionPath returns the first argument or the default definition file
func DefinitionPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return DefaultDefinitionPath
}

// DefaultDefinitionPath is used when no definition argument is given
const DefaultDefinitionPath = "input.yaml"
