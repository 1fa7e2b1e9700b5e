package core

import (
	"github.com/oneconcern/rpmsync/pkg/metrics"
	"github.com/oneconcern/rpmsync/pkg/stages"
	"go.uber.org/zap"
)

type (
	// Option modifies the behavior of the core stages and operations
	Option func(*options)

	options struct {
		l         *zap.Logger
		m         *metrics.M
		batchSize int
	}
)

// WithLogger sets the logger. It defaults to no logging.
func WithLogger(zlg *zap.Logger) Option {
	return func(o *options) {
		if zlg != nil {
			o.l = zlg
		}
	}
}

// WithMetrics sets the metrics to be updated. It defaults to a private set of metrics.
func WithMetrics(m *metrics.M) Option {
	return func(o *options) {
		if m != nil {
			o.m = m
		}
	}
}

// WithBatchSize sets the number of content units handled at once by stages
func WithBatchSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.batchSize = size
		}
	}
}

func defaultOptions(opts []Option) options {
	o := options{
		l:         zap.NewNop(),
		batchSize: stages.DefaultBatchSize,
	}
	for _, apply := range opts {
		apply(&o)
	}
	if o.m == nil {
		o.m = metrics.New()
	}
	return o
}
