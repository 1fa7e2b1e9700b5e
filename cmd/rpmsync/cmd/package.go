package cmd

import (
	"github.com/spf13/cobra"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Commands to manage packages",
	Long: `Commands to manage the packages known to rpmsync.

Module streams are associated with known packages when module documents are imported.
`,
}

func init() {
	rootCmd.AddCommand(packageCmd)
}
