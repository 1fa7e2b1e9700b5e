package instrumented

import (
	"context"
	"testing"

	"github.com/oneconcern/rpmsync/pkg/errors"
	"github.com/oneconcern/rpmsync/pkg/metrics"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/store/bdgr"
	"github.com/oneconcern/rpmsync/pkg/store/status"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedStore(t *testing.T) {
	tr := mocktracer.New()
	m := metrics.New()
	st := New(tr, m, bdgr.New("", bdgr.InMemory(true)))
	require.NoError(t, st.Initialize())
	defer st.Close()

	parent := tr.StartSpan("sync")
	ctx := opentracing.ContextWithSpan(context.Background(), parent)

	r := model.NewRemote("fedora", "https://example.com/", "")
	require.NoError(t, st.AddRemote(ctx, r))
	_, err := st.GetRemote(ctx, "centos")
	require.True(t, errors.Is(err, status.ErrNotFound))
	parent.Finish()

	spans := tr.FinishedSpans()
	require.Len(t, spans, 3)

	add, get := spans[0], spans[1]
	assert.Equal(t, "add remote fedora", add.OperationName)
	assert.Equal(t, parent.Context().(mocktracer.MockSpanContext).SpanID, add.ParentID)
	assert.Equal(t, "badger(in-memory)", add.Tag("store"))
	assert.Nil(t, add.Tag("error"))

	assert.Equal(t, "get remote centos", get.OperationName)
	assert.Equal(t, true, get.Tag("error"))
	assert.Equal(t, "rpmsync-store", get.Tag("component"))
	logs := get.Logs()
	require.Len(t, logs, 1)
	require.NotEmpty(t, logs[0].Fields)
	assert.Equal(t, "event", logs[0].Fields[0].Key)
	assert.Equal(t, "error", logs[0].Fields[0].ValueString)

	assert.Equal(t, 2, testutil.CollectAndCount(m.StoreDuration))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StoreErrors.WithLabelValues("get_remote")))
}
