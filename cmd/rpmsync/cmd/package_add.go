package cmd

import (
	"fmt"
	"strconv"

	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/nevra"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var packageAdd = &cobra.Command{
	Use:   "add",
	Short: "Add a package",
	Long: `Add a package, identified by its NEVRA and checksum.

Adding the same package twice is a no-op.`,
	Example: `% rpmsync package add --nevra bash-0:5.0.7-1.fc30.x86_64 --checksum 4b8a...e1
3f0e...9a bash-0:5.0.7-1.fc30.x86_64`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		p, err := flagsToPackage()
		if err != nil {
			wrapFatalln("invalid package", err)
			return
		}

		st, err := openStore()
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer closeStore(st)

		if err = st.AddPackage(ctx, p); err != nil {
			wrapFatalln("add package", err)
			return
		}
		logger.Info("package added", zap.String("pk", p.PK), zap.String("nevra", p.NEVRA()))
		logStdOut("%s %s\n", p.PK, p.NEVRA())
	},
}

func flagsToPackage() (model.Package, error) {
	n, err := nevra.Parse(rpmsyncFlags.pkg.nevra)
	if err != nil {
		return model.Package{}, err
	}
	if !model.ValidChecksumType(rpmsyncFlags.pkg.checksumType) {
		return model.Package{}, fmt.Errorf("unknown checksum type %q", rpmsyncFlags.pkg.checksumType)
	}
	p := model.Package{
		Name:         n.Name,
		Epoch:        strconv.Itoa(n.Epoch),
		Version:      n.Version,
		Release:      n.Release,
		Arch:         n.Arch,
		PkgID:        rpmsyncFlags.pkg.checksum,
		ChecksumType: rpmsyncFlags.pkg.checksumType,
		Summary:      rpmsyncFlags.pkg.summary,
		LocationHref: rpmsyncFlags.pkg.location,
		Modular:      rpmsyncFlags.pkg.modular,
	}
	if p.LocationHref == "" {
		p.LocationHref = p.Filename()
	}
	p.PK = p.NaturalKey()
	return p, nil
}

func init() {
	markRequired(packageAdd,
		addNEVRAFlag(packageAdd),
		addChecksumFlag(packageAdd),
	)
	addChecksumTypeFlag(packageAdd)
	addLocationFlag(packageAdd)
	addSummaryFlag(packageAdd)
	addModularFlag(packageAdd)

	packageCmd.AddCommand(packageAdd)
}
