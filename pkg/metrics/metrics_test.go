package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsAreIndependent(t *testing.T) {
	m1, m2 := New(), New()
	m1.Batches.Inc()
	m1.UnresolvedPackages.WithLabelValues(ReasonNotFound).Add(2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m1.Batches))
	assert.Equal(t, float64(0), testutil.ToFloat64(m2.Batches))
	assert.Equal(t, float64(2), testutil.ToFloat64(m1.UnresolvedPackages.WithLabelValues(ReasonNotFound)))
}

func TestWriteToTextfile(t *testing.T) {
	m := New()
	m.RemoteArtifactsCreated.Add(3)
	m.RemoteArtifactBytes.Observe(2 * MB)

	path := filepath.Join(t.TempDir(), "rpmsync.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rpmsync_artifacts_remote_artifacts_created_total 3")
	assert.Contains(t, string(data), "rpmsync_artifacts_remote_artifact_size_bytes_count 1")
}
