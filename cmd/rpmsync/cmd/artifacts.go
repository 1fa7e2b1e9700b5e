package cmd

import (
	"github.com/spf13/cobra"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Commands to manage content artifacts",
	Long: `Commands to manage content artifacts and the remote artifacts recording
which remotes can supply them.`,
}

func init() {
	rootCmd.AddCommand(artifactsCmd)
}
