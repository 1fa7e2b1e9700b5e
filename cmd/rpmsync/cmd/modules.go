package cmd

import (
	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Commands to manage module streams",
	Long: `Commands to manage module streams and module defaults.

Module documents (modulemd v2 and modulemd-defaults v1) are imported from a
modules.yaml file found in the local repository tree.
`,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}
