package core

import (
	"context"
	"testing"

	"github.com/oneconcern/rpmsync/pkg/core/status"
	"github.com/oneconcern/rpmsync/pkg/errors"
	"github.com/oneconcern/rpmsync/pkg/metrics"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/stages"
	storestatus "github.com/oneconcern/rpmsync/pkg/store/status"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRemoteArtifactSaverIdempotent(t *testing.T) {
	st := newFakeStore()
	m := metrics.New()
	r := testRemote("fedora")
	st.addContentArtifact("pkg1", "foo.rpm")

	batch := []*model.DeclarativeContent{
		{Content: packageContent("pkg1"), DArtifacts: []*model.DeclaredArtifact{declared(r, "foo.rpm")}},
	}
	saver := NewRemoteArtifactSaver(st, WithMetrics(m))

	created, err := saver.SaveBatch(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, created, 1)

	created, err = saver.SaveBatch(context.Background(), batch)
	require.NoError(t, err)
	require.Empty(t, created)

	assert.Equal(t, 1, st.remoteArtifactCount())
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Batches))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RemoteArtifactsCreated))
}

func TestRemoteArtifactSaverConflict(t *testing.T) {
	st := newFakeStore()
	r := testRemote("fedora")
	ca := st.addContentArtifact("pkg1", "foo.rpm")
	require.NoError(t, st.BulkCreateRemoteArtifacts(context.Background(), []model.RemoteArtifact{
		declared(r, "foo.rpm").NewRemoteArtifact(ca),
	}))
	st.hideRemoteArtifacts = true

	observed, logs := observer.New(zap.WarnLevel)
	saver := NewRemoteArtifactSaver(st, WithLogger(zap.New(observed)))

	batch := []*model.DeclarativeContent{
		{Content: packageContent("pkg1"), DArtifacts: []*model.DeclaredArtifact{declared(r, "foo.rpm")}},
	}
	_, err := saver.SaveBatch(context.Background(), batch)
	require.True(t, errors.Is(err, storestatus.ErrConflict))
	assert.Equal(t, 1, logs.FilterMessage("remote artifact created concurrently").Len())
}

func TestSyncPipeline(t *testing.T) {
	st := newFakeStore()
	m := metrics.New()
	r := testRemote("fedora")

	// productid is already known, from another repository tree
	st.contents["productid"] = productIDContent("productid")
	st.addContentArtifact("productid", "certs/productid")

	var batch []*model.DeclarativeContent
	for _, name := range []string{"a", "b", "c"} {
		batch = append(batch, &model.DeclarativeContent{
			Content:    packageContent(name),
			DArtifacts: []*model.DeclaredArtifact{declared(r, name+".rpm")},
		})
	}
	batch = append(batch,
		&model.DeclarativeContent{
			Content:    productIDContent("productid"),
			DArtifacts: []*model.DeclaredArtifact{declared(r, "repodata/productid")},
		},
		&model.DeclarativeContent{
			Content:    model.Content{PK: "adv", Type: model.TypeAdvisory},
			DArtifacts: []*model.DeclaredArtifact{declared(nil, "updateinfo.xml")},
			Advisory:   &model.UpdateRecord{ID: "FEDORA-2019-0001", UpdatedDate: "2019-05-14 00:00:00"},
		},
	)

	var forwarded []string
	collect := stages.StageFunc(func(ctx context.Context, in <-chan *model.DeclarativeContent, out chan<- *model.DeclarativeContent) error {
		for d := range in {
			forwarded = append(forwarded, d.Content.PK)
		}
		return nil
	})

	err := stages.Pipeline(context.Background(), stages.FromSlice(batch),
		NewContentSaver(st, WithBatchSize(2)),
		NewRemoteArtifactSaver(st, WithBatchSize(2), WithMetrics(m)),
		collect,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "productid", "adv"}, forwarded)
	assert.Equal(t, 4, st.remoteArtifactCount())
	assert.Len(t, st.cas["productid"], 1)
	assert.Len(t, st.cas["adv"], 1)
	assert.Equal(t, "FEDORA-2019-0001", st.advisories["adv"].ID)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.Batches))
	assert.Equal(t, 3, st.prefetchCalls)
}

func TestContentSaverKeepsKnownContent(t *testing.T) {
	st := newFakeStore()
	st.contents["pkg1"] = packageContent("pkg1")

	batch := []*model.DeclarativeContent{
		{Content: packageContent("pkg1"), DArtifacts: []*model.DeclaredArtifact{declared(nil, "moved.rpm")}},
		{Content: packageContent("pkg2"), DArtifacts: []*model.DeclaredArtifact{declared(nil, "new.rpm")}},
	}
	require.NoError(t, NewContentSaver(st).SaveBatch(context.Background(), batch))

	assert.Empty(t, st.cas["pkg1"])
	require.Len(t, st.cas["pkg2"], 1)
	assert.Equal(t, "new.rpm", st.cas["pkg2"][0].RelativePath)
}

func TestContentSaverAdvisories(t *testing.T) {
	st := newFakeStore()
	u := &model.UpdateRecord{ID: "RHSA-2019:1234", UpdatedDate: "2019-05-14 00:00:00", Severity: "Important"}
	require.NoError(t, u.Identify())

	batch := []*model.DeclarativeContent{
		{Content: u.Content(), DArtifacts: []*model.DeclaredArtifact{declared(nil, "repodata/updateinfo.xml")}, Advisory: u},
	}
	require.NoError(t, NewContentSaver(st).SaveBatch(context.Background(), batch))
	require.Contains(t, st.advisories, u.PK)
	assert.Equal(t, "Important", st.advisories[u.PK].Severity)
	assert.Equal(t, model.TypeAdvisory, st.contents[u.PK].Type)

	// advisory content needs its record
	err := NewContentSaver(st).SaveBatch(context.Background(), []*model.DeclarativeContent{
		{Content: model.Content{PK: "bare", Type: model.TypeAdvisory}},
	})
	require.True(t, errors.Is(err, status.ErrMissingAdvisory))
	assert.NotContains(t, st.contents, "bare")
}

func TestSaversStopBatchingOnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	// inputs are never closed: only the stage returning may stop the batching
	out := make(chan *model.DeclarativeContent, 2)
	r := testRemote("fedora")

	st := newFakeStore()
	st.contentErr = errors.New("store is down")
	in := make(chan *model.DeclarativeContent, 1)
	in <- &model.DeclarativeContent{Content: packageContent("pkg1")}
	err := NewContentSaver(st, WithBatchSize(1)).Run(context.Background(), in, out)
	require.EqualError(t, err, "store is down")

	st = newFakeStore()
	ca := st.addContentArtifact("pkg1", "foo.rpm")
	require.NoError(t, st.BulkCreateRemoteArtifacts(context.Background(), []model.RemoteArtifact{
		declared(r, "foo.rpm").NewRemoteArtifact(ca),
	}))
	st.hideRemoteArtifacts = true
	in = make(chan *model.DeclarativeContent, 1)
	in <- &model.DeclarativeContent{Content: packageContent("pkg1"), DArtifacts: []*model.DeclaredArtifact{declared(r, "foo.rpm")}}
	err = NewRemoteArtifactSaver(st, WithBatchSize(1)).Run(context.Background(), in, out)
	require.True(t, errors.Is(err, storestatus.ErrConflict))
}
