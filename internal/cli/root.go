// Package cli defines the boardkit command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "boardkit",
		Short: "Create and tear down Epic, Feature and Backlog Item hierarchies from YAML",
		Long: `boardkit creates Epics, Features and Product Backlog Items on a work-tracking
board from a YAML definition, links each child to its parent, and records what
it created so a later delete removes exactly those items.

Backends: Azure Boards through the az CLI (default) and GitHub Issues.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default is .boardkit.yaml in the working directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Show debug output")
	rootCmd.PersistentFlags().String("backend", "", "Backend to use: az or github")
	rootCmd.PersistentFlags().String("manifest", "", "Manifest path (default created_items.yaml)")
	rootCmd.PersistentFlags().String("manifest-backend", "", "Manifest store: yaml or sqlite")
	rootCmd.PersistentFlags().String("log-file", "", "Log file (default boardkit.log)")

	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
