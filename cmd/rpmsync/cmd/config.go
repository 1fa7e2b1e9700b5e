package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the rpmsync settings",
	Long: `Settings are read from command line flags, RPMSYNC_* environment variables
(e.g. RPMSYNC_STORE_DIR), an rpmsync.yaml file and defaults, by order of precedence.`,
}

var configShow = &cobra.Command{
	Use:   "show",
	Short: "Print the settings in effect, as a config file",
	Example: `% RPMSYNC_BATCH_SIZE=100 rpmsync config show
store-dir: .rpmsync
log-level: info
batch-size: 100`,
	Run: func(cmd *cobra.Command, args []string) {
		b, err := settings.YAML()
		if err != nil {
			wrapFatalln("render settings", err)
			return
		}
		logStdOut("%s", b)
	},
}

func init() {
	configCmd.AddCommand(configShow)
	rootCmd.AddCommand(configCmd)
}
