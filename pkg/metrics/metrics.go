// Package metrics collects rpmsync counters with prometheus.
//
// Each M owns its registry, so that independent runs (and tests) never share
// counters. A CLI run dumps its registry to a textfile for the node exporter.
package metrics

import (
	"github.com/docker/go-units"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "rpmsync"

	// MB stands for mega bytes (1024 kilo bytes)
	MB = units.MiB
)

// Reasons why a module artifact is left without a package
const (
	ReasonNotFound     = "not_found"
	ReasonLookupError  = "lookup_error"
	ReasonInvalidNEVRA = "invalid_nevra"
)

// M describes the metrics of a sync run
type M struct {
	registry *prometheus.Registry

	// modules
	RejectedDocuments  prometheus.Counter
	SkippedStreams     prometheus.Counter
	ImportedStreams    prometheus.Counter
	UnresolvedPackages *prometheus.CounterVec

	// remote artifacts
	Batches                prometheus.Counter
	RemoteArtifactsCreated prometheus.Counter
	RemoteArtifactBytes    prometheus.Histogram

	// store
	StoreDuration *prometheus.HistogramVec
	StoreErrors   *prometheus.CounterVec
}

// New registers a fresh set of metrics
func New() *M {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &M{
		registry: reg,
		RejectedDocuments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "modules",
			Name:      "rejected_documents_total",
			Help:      "Module documents rejected by the index loader",
		}),
		SkippedStreams: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "modules",
			Name:      "skipped_streams_total",
			Help:      "Module streams skipped because of a malformed NSVCA",
		}),
		ImportedStreams: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "modules",
			Name:      "imported_streams_total",
			Help:      "Module streams persisted",
		}),
		UnresolvedPackages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "modules",
			Name:      "unresolved_packages_total",
			Help:      "Module artifacts which could not be associated with a package",
		}, []string{"reason"}),
		Batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "artifacts",
			Name:      "batches_total",
			Help:      "Batches of declarative content reconciled",
		}),
		RemoteArtifactsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "artifacts",
			Name:      "remote_artifacts_created_total",
			Help:      "Remote artifacts created",
		}),
		RemoteArtifactBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "artifacts",
			Name:      "remote_artifact_size_bytes",
			Help:      "Declared size of created remote artifacts",
			Buckets:   prometheus.ExponentialBuckets(64*units.KiB, 4, 8),
		}),
		StoreDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Failed store operations",
		}, []string{"operation"}),
	}
}

// Registry exposes the registry of these metrics
func (m *M) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile dumps all metrics in the prometheus text format
func (m *M) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
