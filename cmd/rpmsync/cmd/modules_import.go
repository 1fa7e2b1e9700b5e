package cmd

import (
	"bytes"
	"sort"

	"github.com/oneconcern/rpmsync/pkg/core"
	"github.com/oneconcern/rpmsync/pkg/storage"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

var modulesImport = &cobra.Command{
	Use:   "import",
	Short: "Import module documents",
	Long: `Import the module streams and module defaults of a modules.yaml document,
then associate each stream with the known packages it ships.

A document which fails validation rejects the whole file. Module artifacts
without a matching package are reported, they do not fail the import.`,
	Example: `% rpmsync modules import --root /srv/mirror/fedora --file repodata/modules.yaml
imported 2 module streams, 1 module defaults, 3 package associations
unresolved: nodejs:10:20190101:6c81f848:x86_64 nodejs-1:10.14.1-1.module_2533+7361f245.x86_64 (not found)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		tree := repositoryTree()
		rdr, err := tree.Get(ctx, rpmsyncFlags.modules.file)
		if err != nil {
			wrapFatalln("open module documents", err)
			return
		}
		defer rdr.Close()

		st, err := openStore()
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer closeStore(st)

		report, err := core.ImportModules(ctx, st, rdr, nil, coreOptions()...)
		if err != nil {
			wrapFatalln("import modules", err)
			return
		}

		if rpmsyncFlags.modules.report != "" {
			if err = writeImportReport(cmd, tree, report); err != nil {
				wrapFatalln("write import report", err)
				return
			}
		}

		if len(report.Rejected) > 0 {
			var rejected error
			for _, fail := range report.Rejected {
				rejected = multierr.Append(rejected, fail)
			}
			wrapFatalln("module documents rejected", rejected)
			return
		}

		logStdOut("imported %d module streams, %d module defaults, %d package associations\n",
			len(report.Streams), len(report.Defaults), len(report.Associations))
		for _, skipped := range report.Skipped {
			logStdOut("skipped: %v\n", skipped)
		}
		for _, nsvca := range sortedKeys(report.Unresolved) {
			for _, u := range report.Unresolved[nsvca] {
				logStdOut("unresolved: %s %s (%s)\n", nsvca, u.Artifact, u.Reason)
			}
		}
	},
}

type unresolvedView struct {
	Artifact string `yaml:"artifact"`
	Reason   string `yaml:"reason"`
	Error    string `yaml:"error,omitempty"`
}

// importReportView is the YAML rendition of an import report
type importReportView struct {
	File         string                      `yaml:"file"`
	Modules      []string                    `yaml:"modules"`
	Streams      []string                    `yaml:"streams"`
	Defaults     []string                    `yaml:"defaults"`
	Associations int                         `yaml:"associations"`
	Rejected     []string                    `yaml:"rejected,omitempty"`
	Skipped      []string                    `yaml:"skipped,omitempty"`
	Unresolved   map[string][]unresolvedView `yaml:"unresolved,omitempty"`
}

func newImportReportView(file string, report core.ImportReport) importReportView {
	view := importReportView{
		File:         file,
		Modules:      report.Modules,
		Associations: len(report.Associations),
	}
	for _, s := range report.Streams {
		view.Streams = append(view.Streams, s.NSVCA())
	}
	for _, d := range report.Defaults {
		view.Defaults = append(view.Defaults, d.Module+":"+d.Stream)
	}
	for _, fail := range report.Rejected {
		view.Rejected = append(view.Rejected, fail.Error())
	}
	for _, err := range report.Skipped {
		view.Skipped = append(view.Skipped, err.Error())
	}
	if len(report.Unresolved) > 0 {
		view.Unresolved = make(map[string][]unresolvedView, len(report.Unresolved))
	}
	for nsvca, unresolved := range report.Unresolved {
		for _, u := range unresolved {
			uv := unresolvedView{Artifact: u.Artifact, Reason: string(u.Reason)}
			if u.Err != nil {
				uv.Error = u.Err.Error()
			}
			view.Unresolved[nsvca] = append(view.Unresolved[nsvca], uv)
		}
	}
	return view
}

func writeImportReport(cmd *cobra.Command, tree storage.Store, report core.ImportReport) error {
	b, err := yaml.Marshal(newImportReportView(rpmsyncFlags.modules.file, report))
	if err != nil {
		return err
	}
	if err = tree.Put(cmd.Context(), rpmsyncFlags.modules.report, bytes.NewReader(b), storage.OverWrite); err != nil {
		return err
	}
	logger.Info("import report written", zap.String("report", rpmsyncFlags.modules.report), zap.Stringer("tree", tree))
	return nil
}

func sortedKeys(m map[string][]core.Unresolved) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	markRequired(modulesImport, addModulesFileFlag(modulesImport))
	addReportFlag(modulesImport)

	modulesCmd.AddCommand(modulesImport)
}
