package cmd

import (
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/modulemd"
	"github.com/spf13/cobra"
)

var modulesPackages = &cobra.Command{
	Use:   "packages",
	Short: "List the packages of a module stream",
	Example: `% rpmsync modules packages --nsvca nodejs:10:20190101:6c81f848:x86_64
nodejs-1:10.14.1-1.module_2533+7361f245.x86_64 , 3f0e...9a`,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := modulemd.ParseNSVCA(rpmsyncFlags.modules.nsvca)
		if err != nil {
			wrapFatalln("invalid module stream", err)
			return
		}
		stream := model.Modulemd{
			Name:    id.Name,
			Stream:  id.Stream,
			Version: id.Version,
			Context: id.Context,
			Arch:    id.Arch,
		}

		st, err := openStore()
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer closeStore(st)

		ctx := cmd.Context()
		pk := stream.NaturalKey()
		if _, err = st.GetModulemd(ctx, pk); err != nil {
			wrapFatalln("get module stream "+id.String(), err)
			return
		}
		packages, err := st.ModulePackages(ctx, pk)
		if err != nil {
			wrapFatalln("list module packages", err)
			return
		}
		for _, p := range packages {
			logStdOut("%s , %s\n", p.NEVRA(), p.PK)
		}
	},
}

func init() {
	markRequired(modulesPackages, addNSVCAFlag(modulesPackages))

	modulesCmd.AddCommand(modulesPackages)
}
