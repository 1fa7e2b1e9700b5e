package cmd

import (
	"github.com/docker/go-units"
	"github.com/oneconcern/rpmsync/pkg/core"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/stages"
	"github.com/oneconcern/rpmsync/pkg/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var artifactsReconcile = &cobra.Command{
	Use:   "reconcile",
	Short: "Record the remote artifacts of a batch of content",
	Long: `Run a batch of declarative content through the sync stages: new content is
stored with its content artifacts, then a remote artifact is created for every
declared artifact whose remote does not supply it yet.

The remote artifacts of the batch are listed when done.`,
	Example: `% rpmsync artifacts reconcile --root /srv/mirror --batch batches/productid.yaml
rpm.repo_metadata_file , repodata/productid , rhel , 2.0kB , https://cdn.example.com/repo/repodata/productid`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		b, err := storage.ReadAll(ctx, repositoryTree(), rpmsyncFlags.artifacts.batch)
		if err != nil {
			wrapFatalln("read batch", err)
			return
		}

		st, err := openStore()
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer closeStore(st)

		batch, err := decodeBatch(ctx, st, b)
		if err != nil {
			wrapFatalln("invalid batch", err)
			return
		}

		opts := coreOptions()
		err = stages.Pipeline(ctx, stages.FromSlice(batch),
			core.NewContentSaver(st, opts...),
			core.NewRemoteArtifactSaver(st, opts...),
		)
		if err != nil {
			wrapFatalln("reconcile remote artifacts", err)
			return
		}
		logger.Info("batch reconciled", zap.String("batch", rpmsyncFlags.artifacts.batch), zap.Int("content", len(batch)))

		remoteNames := make(map[string]string)
		contentPKs := make([]string, 0, len(batch))
		for _, d := range batch {
			contentPKs = append(contentPKs, d.Content.PK)
			for _, da := range d.DArtifacts {
				if da.Remote != nil {
					remoteNames[da.Remote.PK] = da.Remote.Name
				}
			}
		}
		prefetched, err := st.PrefetchContentArtifacts(ctx, contentPKs, core.RemotesPresent(batch))
		if err != nil {
			wrapFatalln("list remote artifacts", err)
			return
		}
		for _, d := range batch {
			for _, ca := range prefetched[d.Content.PK] {
				for _, ra := range ca.RemoteArtifacts {
					logStdOut("%s , %s , %s , %s , %s\n",
						d.Content.Type, ca.RelativePath, remoteNames[ra.RemotePK], humanSize(ra), ra.URL)
				}
			}
		}
	},
}

func humanSize(ra model.RemoteArtifact) string {
	if ra.Size <= 0 {
		return "-"
	}
	return units.HumanSize(float64(ra.Size))
}

func init() {
	markRequired(artifactsReconcile, addBatchFlag(artifactsReconcile))

	artifactsCmd.AddCommand(artifactsReconcile)
}
