package cmd

import (
	"github.com/oneconcern/rpmsync/pkg/config"
	"github.com/oneconcern/rpmsync/pkg/dlogger"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/stages"
	"github.com/spf13/cobra"
)

type flagsT struct {
	root struct {
		configFile     string
		storeDir       string
		postgresDSN    string
		postgresSchema string
		logLevel       string
		batchSize      int
		metricsFile    string
		root           string
		jaegerAgent    string
	}
	pkg struct {
		nevra        string
		checksum     string
		checksumType string
		location     string
		summary      string
		modular      bool
	}
	modules struct {
		file   string
		nsvca  string
		report string
	}
	artifacts struct {
		batch string
	}
	remote struct {
		name   string
		url    string
		policy string
	}
	version struct {
		yaml bool
	}
}

var rpmsyncFlags = flagsT{}

// root flags are bound to the settings keys of the same name

func addConfigFlag(cmd *cobra.Command) string {
	c := "config"
	cmd.PersistentFlags().StringVar(&rpmsyncFlags.root.configFile, c, "", "Config file (default: rpmsync.yaml in ., $HOME/.rpmsync or /etc/rpmsync)")
	return c
}

func addStoreDirFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&rpmsyncFlags.root.storeDir, config.KeyStoreDir, ".rpmsync", "Directory of the embedded database")
	return config.KeyStoreDir
}

func addPostgresDSNFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&rpmsyncFlags.root.postgresDSN, config.KeyPostgresDSN, "",
		"PostgreSQL connection string. When set, the embedded database is not used")
	return config.KeyPostgresDSN
}

func addPostgresSchemaFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&rpmsyncFlags.root.postgresSchema, config.KeyPostgresSchema, "", "PostgreSQL schema holding the rpmsync tables")
	return config.KeyPostgresSchema
}

func addLogLevelFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&rpmsyncFlags.root.logLevel, config.KeyLogLevel, dlogger.LogLevelInfo, "The logging level: debug, info, warn, error or none")
	return config.KeyLogLevel
}

func addBatchSizeFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().IntVar(&rpmsyncFlags.root.batchSize, config.KeyBatchSize, stages.DefaultBatchSize, "Number of content units handled at once")
	return config.KeyBatchSize
}

func addMetricsFileFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&rpmsyncFlags.root.metricsFile, config.KeyMetricsFile, "", "Write metrics in the prometheus text format to this file")
	return config.KeyMetricsFile
}

func addRootFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&rpmsyncFlags.root.root, config.KeyRoot, "", "Root of the local repository tree (default: current directory)")
	return config.KeyRoot
}

func addJaegerAgentFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&rpmsyncFlags.root.jaegerAgent, config.KeyJaegerAgent, "", "Report traces to the jaeger agent at this host:port")
	return config.KeyJaegerAgent
}

func addNEVRAFlag(cmd *cobra.Command) string {
	n := "nevra"
	cmd.Flags().StringVar(&rpmsyncFlags.pkg.nevra, n, "", "The package as name-[epoch:]version-release.arch")
	return n
}

func addChecksumFlag(cmd *cobra.Command) string {
	c := "checksum"
	cmd.Flags().StringVar(&rpmsyncFlags.pkg.checksum, c, "", "The package checksum (pkgId)")
	return c
}

func addChecksumTypeFlag(cmd *cobra.Command) string {
	c := "checksum-type"
	cmd.Flags().StringVar(&rpmsyncFlags.pkg.checksumType, c, model.ChecksumSHA256, "The type of the package checksum")
	return c
}

func addLocationFlag(cmd *cobra.Command) string {
	l := "location"
	cmd.Flags().StringVar(&rpmsyncFlags.pkg.location, l, "", "The location of the package in the repository tree (default: its file name)")
	return l
}

func addSummaryFlag(cmd *cobra.Command) string {
	s := "summary"
	cmd.Flags().StringVar(&rpmsyncFlags.pkg.summary, s, "", "A one line description of the package")
	return s
}

func addModularFlag(cmd *cobra.Command) string {
	m := "modular"
	cmd.Flags().BoolVar(&rpmsyncFlags.pkg.modular, m, false, "The package is shipped by a module")
	return m
}

func addModulesFileFlag(cmd *cobra.Command) string {
	f := "file"
	cmd.Flags().StringVar(&rpmsyncFlags.modules.file, f, "", "The modules.yaml document, relative to the repository tree root")
	return f
}

func addNSVCAFlag(cmd *cobra.Command) string {
	n := "nsvca"
	cmd.Flags().StringVar(&rpmsyncFlags.modules.nsvca, n, "", "The module stream as name:stream:version:context:arch")
	return n
}

func addReportFlag(cmd *cobra.Command) string {
	r := "report"
	cmd.Flags().StringVar(&rpmsyncFlags.modules.report, r, "", "Write a YAML report of the import to this file, relative to the repository tree root")
	return r
}

func addBatchFlag(cmd *cobra.Command) string {
	b := "batch"
	cmd.Flags().StringVar(&rpmsyncFlags.artifacts.batch, b, "", "The batch of declarative content, relative to the repository tree root")
	return b
}

func addRemoteNameFlag(cmd *cobra.Command) string {
	n := "name"
	cmd.Flags().StringVar(&rpmsyncFlags.remote.name, n, "", "The name of the remote")
	return n
}

func addRemoteURLFlag(cmd *cobra.Command) string {
	u := "url"
	cmd.Flags().StringVar(&rpmsyncFlags.remote.url, u, "", "The base URL of the remote repository")
	return u
}

func addRemotePolicyFlag(cmd *cobra.Command) string {
	p := "policy"
	cmd.Flags().StringVar(&rpmsyncFlags.remote.policy, p, model.PolicyImmediate, "The download policy: immediate, on_demand or streamed")
	return p
}

func markRequired(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
}

func addVersionYAMLFlag(cmd *cobra.Command) string {
	c := "yaml"
	cmd.Flags().BoolVar(&rpmsyncFlags.version.yaml, c, false, "Print the build information as YAML")
	return c
}
