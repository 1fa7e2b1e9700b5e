// Package tracing sets up the opentracing tracer of rpmsync
package tracing

import (
	"io"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	jaeger "github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerzap "github.com/uber/jaeger-client-go/log/zap"
	jprom "github.com/uber/jaeger-lib/metrics/prometheus"
	"go.uber.org/zap"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init creates a tracer reporting every span to a jaeger agent at hostPort.
//
// Without an agent, it returns a noop tracer. Tracer metrics are registered on reg.
func Init(service string, reg prometheus.Registerer, lg *zap.Logger, hostPort string) (opentracing.Tracer, io.Closer, error) {
	if hostPort == "" {
		return opentracing.NoopTracer{}, nopCloser{}, nil
	}
	if lg == nil {
		lg = zap.NewNop()
	}

	cfg := jaegercfg.Configuration{
		ServiceName: service,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort:  hostPort,
			BufferFlushInterval: time.Second,
		},
	}
	return cfg.NewTracer(
		jaegercfg.Logger(jaegerzap.NewLogger(lg)),
		jaegercfg.Metrics(jprom.New(jprom.WithRegisterer(reg))),
	)
}
