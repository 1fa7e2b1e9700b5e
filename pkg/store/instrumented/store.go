// Package instrumented wraps a store with tracing spans and latency metrics
package instrumented

import (
	"context"
	"fmt"
	"time"

	"github.com/oneconcern/rpmsync/pkg/metrics"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/store"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	tracelog "github.com/opentracing/opentracing-go/log"
)

// New instruments a store. A nil tracer means the global tracer.
func New(tr opentracing.Tracer, m *metrics.M, w store.Store) store.Store {
	if tr == nil {
		tr = opentracing.GlobalTracer()
	}
	if m == nil {
		m = metrics.New()
	}
	return &instrumentedStore{
		tr: tr,
		m:  m,
		w:  w,
	}
}

type instrumentedStore struct {
	tr opentracing.Tracer
	m  *metrics.M
	w  store.Store
}

func (i *instrumentedStore) Initialize() error { return i.w.Initialize() }
func (i *instrumentedStore) Close() error      { return i.w.Close() }
func (i *instrumentedStore) String() string    { return i.w.String() }

func (i *instrumentedStore) AddPackage(ctx context.Context, p model.Package) (err error) {
	i.traced(ctx, "add_package", "add package "+p.NEVRA(), func() error { err = i.w.AddPackage(ctx, p); return err })
	return
}
func (i *instrumentedStore) GetPackage(ctx context.Context, pk string) (p model.Package, err error) {
	i.traced(ctx, "get_package", "get package "+pk, func() error { p, err = i.w.GetPackage(ctx, pk); return err })
	return
}
func (i *instrumentedStore) FindPackages(ctx context.Context, name, version string) (result []model.Package, err error) {
	i.traced(ctx, "find_packages", "find packages "+name+"-"+version, func() error {
		result, err = i.w.FindPackages(ctx, name, version)
		return err
	})
	return
}

func (i *instrumentedStore) AddContent(ctx context.Context, contents []model.Content) (err error) {
	i.traced(ctx, "add_content", "add content", func() error { err = i.w.AddContent(ctx, contents); return err })
	return
}
func (i *instrumentedStore) GetContent(ctx context.Context, pk string) (c model.Content, err error) {
	i.traced(ctx, "get_content", "get content "+pk, func() error { c, err = i.w.GetContent(ctx, pk); return err })
	return
}
func (i *instrumentedStore) AddContentArtifacts(ctx context.Context, cas []model.ContentArtifact) (err error) {
	i.traced(ctx, "add_content_artifacts", "add content artifacts", func() error {
		err = i.w.AddContentArtifacts(ctx, cas)
		return err
	})
	return
}
func (i *instrumentedStore) PrefetchContentArtifacts(ctx context.Context, contentPKs, remotePKs []string) (result map[string][]store.PrefetchedArtifact, err error) {
	i.traced(ctx, "prefetch_content_artifacts", "prefetch content artifacts", func() error {
		result, err = i.w.PrefetchContentArtifacts(ctx, contentPKs, remotePKs)
		return err
	})
	return
}
func (i *instrumentedStore) BulkCreateRemoteArtifacts(ctx context.Context, ras []model.RemoteArtifact) (err error) {
	i.traced(ctx, "bulk_create_remote_artifacts", "bulk create remote artifacts", func() error {
		err = i.w.BulkCreateRemoteArtifacts(ctx, ras)
		return err
	})
	return
}
func (i *instrumentedStore) ListRemoteArtifacts(ctx context.Context, contentArtifactPK string) (result []model.RemoteArtifact, err error) {
	i.traced(ctx, "list_remote_artifacts", "list remote artifacts "+contentArtifactPK, func() error {
		result, err = i.w.ListRemoteArtifacts(ctx, contentArtifactPK)
		return err
	})
	return
}

func (i *instrumentedStore) AddModulemds(ctx context.Context, modules []model.Modulemd) (err error) {
	i.traced(ctx, "add_modulemds", "add modulemds", func() error { err = i.w.AddModulemds(ctx, modules); return err })
	return
}
func (i *instrumentedStore) GetModulemd(ctx context.Context, pk string) (m model.Modulemd, err error) {
	i.traced(ctx, "get_modulemd", "get modulemd "+pk, func() error { m, err = i.w.GetModulemd(ctx, pk); return err })
	return
}
func (i *instrumentedStore) AddModulemdDefaults(ctx context.Context, defaults []model.ModulemdDefaults) (err error) {
	i.traced(ctx, "add_modulemd_defaults", "add modulemd defaults", func() error {
		err = i.w.AddModulemdDefaults(ctx, defaults)
		return err
	})
	return
}
func (i *instrumentedStore) GetModulemdDefaults(ctx context.Context, pk string) (d model.ModulemdDefaults, err error) {
	i.traced(ctx, "get_modulemd_defaults", "get modulemd defaults "+pk, func() error {
		d, err = i.w.GetModulemdDefaults(ctx, pk)
		return err
	})
	return
}
func (i *instrumentedStore) AddModulePackages(ctx context.Context, assocs []model.ModulePackage) (err error) {
	i.traced(ctx, "add_module_packages", "add module packages", func() error {
		err = i.w.AddModulePackages(ctx, assocs)
		return err
	})
	return
}
func (i *instrumentedStore) ModulePackages(ctx context.Context, modulemdPK string) (result []model.Package, err error) {
	i.traced(ctx, "module_packages", "module packages "+modulemdPK, func() error {
		result, err = i.w.ModulePackages(ctx, modulemdPK)
		return err
	})
	return
}

func (i *instrumentedStore) AddUpdateRecords(ctx context.Context, records []model.UpdateRecord) (err error) {
	i.traced(ctx, "add_update_records", "add update records", func() error {
		err = i.w.AddUpdateRecords(ctx, records)
		return err
	})
	return
}
func (i *instrumentedStore) GetUpdateRecord(ctx context.Context, pk string) (u model.UpdateRecord, err error) {
	i.traced(ctx, "get_update_record", "get update record "+pk, func() error { u, err = i.w.GetUpdateRecord(ctx, pk); return err })
	return
}

func (i *instrumentedStore) AddRemote(ctx context.Context, r model.Remote) (err error) {
	i.traced(ctx, "add_remote", "add remote "+r.Name, func() error { err = i.w.AddRemote(ctx, r); return err })
	return
}
func (i *instrumentedStore) GetRemote(ctx context.Context, name string) (r model.Remote, err error) {
	i.traced(ctx, "get_remote", "get remote "+name, func() error { r, err = i.w.GetRemote(ctx, name); return err })
	return
}
func (i *instrumentedStore) ListRemotes(ctx context.Context) (result []model.Remote, err error) {
	i.traced(ctx, "list_remotes", "list remotes", func() error { result, err = i.w.ListRemotes(ctx); return err })
	return
}

// traced runs action in a span, and records its duration under operation
func (i *instrumentedStore) traced(ctx context.Context, operation, name string, action func() error) {
	parent := opentracing.SpanFromContext(ctx)
	var opts []opentracing.StartSpanOption
	if parent != nil {
		opts = append(opts, opentracing.ChildOf(parent.Context()))
	}
	opts = append(opts, opentracing.Tag{Key: "store", Value: i.w.String()})
	span := i.tr.StartSpan(name, opts...)
	ext.Component.Set(span, "rpmsync-store")
	defer span.Finish()

	t0 := time.Now()
	err := action()
	i.m.StoreDuration.WithLabelValues(operation).Observe(time.Since(t0).Seconds())
	if err != nil {
		ext.Error.Set(span, true)
		span.LogFields(
			tracelog.String("event", "error"),
			tracelog.String("message", err.Error()),
			tracelog.String("error.kind", fmt.Sprintf("%T", err)),
		)
		i.m.StoreErrors.WithLabelValues(operation).Inc()
	}
}
