package tracing

import (
	"strings"
	"testing"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitNoop(t *testing.T) {
	tr, closer, err := Init("rpmsync", prometheus.NewRegistry(), nil, "")
	require.NoError(t, err)
	assert.IsType(t, opentracing.NoopTracer{}, tr)
	assert.NoError(t, closer.Close())
}

func TestInitJaeger(t *testing.T) {
	reg := prometheus.NewRegistry()
	tr, closer, err := Init("rpmsync", reg, zap.NewNop(), "127.0.0.1:6831")
	require.NoError(t, err)
	defer closer.Close()

	span := tr.StartSpan("import modules")
	span.Finish()

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "jaeger_tracer_") {
			found = true
		}
	}
	assert.True(t, found, "expected tracer metrics to be registered")
}
