package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/oneconcern/rpmsync/pkg/config"
	"github.com/oneconcern/rpmsync/pkg/core"
	"github.com/oneconcern/rpmsync/pkg/dlogger"
	"github.com/oneconcern/rpmsync/pkg/metrics"
	"github.com/oneconcern/rpmsync/pkg/storage"
	"github.com/oneconcern/rpmsync/pkg/storage/localfs"
	"github.com/oneconcern/rpmsync/pkg/store"
	"github.com/oneconcern/rpmsync/pkg/store/bdgr"
	"github.com/oneconcern/rpmsync/pkg/store/instrumented"
	"github.com/oneconcern/rpmsync/pkg/store/pgstore"
	"github.com/oneconcern/rpmsync/pkg/tracing"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rpmsync",
	Short: "rpmsync keeps track of the content synced from RPM remotes",
	Long: `rpmsync records the content of RPM repositories synced from remotes.

It imports module documents (modules.yaml), associates module streams with the
packages they ship, and records which remotes can supply each content artifact.

The state is kept in an embedded database, or in PostgreSQL when a connection
string is given.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		settings, err = config.Load(v, rpmsyncFlags.root.configFile)
		if err != nil {
			wrapFatalln("load settings", err)
			return
		}
		logger, err = dlogger.GetLogger(settings.LogLevel)
		if err != nil {
			wrapFatalln("create logger", err)
			return
		}
		m = metrics.New()
		tracer, tracerCloser, err = tracing.Init("rpmsync", m.Registry(), logger, settings.JaegerAgent)
		if err != nil {
			logger.Info("failed to initialize tracing, falling back to noop tracer", zap.Error(err))
			tracer, tracerCloser = opentracing.NoopTracer{}, nil
		}
		commandSpan = tracer.StartSpan(cmd.CommandPath())
		cmd.SetContext(opentracing.ContextWithSpan(cmd.Context(), commandSpan))
	},
	// upstream api note:  *PostRun functions aren't called in case of a panic() in Run
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if commandSpan != nil {
			commandSpan.Finish()
			commandSpan = nil
		}
		if tracerCloser != nil {
			_ = tracerCloser.Close()
			tracerCloser = nil
		}
		if settings == nil || settings.MetricsFile == "" {
			return
		}
		if err := m.WriteToTextfile(settings.MetricsFile); err != nil {
			logger.Warn("could not write metrics", zap.String("file", settings.MetricsFile), zap.Error(err))
		}
	},
}

var (
	v        = viper.New()
	settings *config.Config
	logger   = zap.NewNop()
	m        = metrics.New()

	tracer       opentracing.Tracer = opentracing.NoopTracer{}
	tracerCloser io.Closer
	commandSpan  opentracing.Span
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)

	addConfigFlag(rootCmd)
	addStoreDirFlag(rootCmd)
	addPostgresDSNFlag(rootCmd)
	addPostgresSchemaFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	addBatchSizeFlag(rootCmd)
	addMetricsFileFlag(rootCmd)
	addRootFlag(rootCmd)
	addJaegerAgentFlag(rootCmd)

	if err := config.BindFlags(v, rootCmd.PersistentFlags()); err != nil {
		logFatalln(err)
	}
}

// openStore opens the store designated by the settings, instrumented
func openStore() (store.Store, error) {
	var st store.Store
	if settings.PostgresDSN != "" {
		st = pgstore.New(settings.PostgresDSN, pgstore.Logger(logger), pgstore.Schema(settings.PostgresSchema))
	} else {
		st = bdgr.New(settings.StoreDir, bdgr.Logger(logger))
	}
	st = instrumented.New(tracer, m, st)
	if err := st.Initialize(); err != nil {
		return nil, err
	}
	logger.Debug("store opened", zap.Stringer("store", st))
	return st, nil
}

func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		logger.Warn("could not close store", zap.Stringer("store", st), zap.Error(err))
	}
}

// repositoryTree gives access to the local repository tree
func repositoryTree() storage.Store {
	root := settings.Root
	if root == "" {
		root, _ = os.Getwd()
	}
	return localfs.NewAt(root)
}

func coreOptions() []core.Option {
	return []core.Option{
		core.WithLogger(logger),
		core.WithMetrics(m),
		core.WithBatchSize(settings.BatchSize),
	}
}
