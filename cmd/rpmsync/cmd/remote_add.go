package cmd

import (
	"fmt"

	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var remoteAdd = &cobra.Command{
	Use:   "add",
	Short: "Add a remote",
	Long:  "Add an RPM remote. Remote names are unique.",
	Example: `% rpmsync remote add --name fedora --url https://dl.fedoraproject.org/pub/fedora/linux/releases/30/Everything/x86_64/os/
1R6Zq5mP3bdmZ1K2CwMYg2Fzkh1 fedora`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		switch rpmsyncFlags.remote.policy {
		case model.PolicyImmediate, model.PolicyOnDemand, model.PolicyStreamed:
		default:
			wrapFatalln("invalid remote", fmt.Errorf("unknown download policy %q", rpmsyncFlags.remote.policy))
			return
		}

		st, err := openStore()
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer closeStore(st)

		r := model.NewRemote(rpmsyncFlags.remote.name, rpmsyncFlags.remote.url, rpmsyncFlags.remote.policy)
		if err = st.AddRemote(ctx, r); err != nil {
			wrapFatalln("add remote", err)
			return
		}
		logger.Info("remote added", zap.String("pk", r.PK), zap.String("name", r.Name))
		logStdOut("%s %s\n", r.PK, r.Name)
	},
}

func init() {
	markRequired(remoteAdd,
		addRemoteNameFlag(remoteAdd),
		addRemoteURLFlag(remoteAdd),
	)
	addRemotePolicyFlag(remoteAdd)

	remoteCmd.AddCommand(remoteAdd)
}
