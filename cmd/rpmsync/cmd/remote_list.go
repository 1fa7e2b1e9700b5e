package cmd

import (
	"github.com/spf13/cobra"
)

var remoteList = &cobra.Command{
	Use:   "list",
	Short: "List remotes",
	Example: `% rpmsync remote list
fedora , https://dl.fedoraproject.org/pub/fedora/linux/releases/30/Everything/x86_64/os/ , immediate`,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer closeStore(st)

		remotes, err := st.ListRemotes(cmd.Context())
		if err != nil {
			wrapFatalln("list remotes", err)
			return
		}
		for _, r := range remotes {
			logStdOut("%s , %s , %s\n", r.Name, r.URL, r.Policy)
		}
	},
}

func init() {
	remoteCmd.AddCommand(remoteList)
}
