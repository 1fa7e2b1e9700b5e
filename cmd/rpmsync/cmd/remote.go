package cmd

import (
	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Commands to manage remotes",
	Long:  "Commands to manage the RPM remotes content is synced from.",
}

func init() {
	rootCmd.AddCommand(remoteCmd)
}
