package core

import (
	"context"
	"io"

	"github.com/oneconcern/rpmsync/pkg/core/status"
	"github.com/oneconcern/rpmsync/pkg/metrics"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/modulemd"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ModuleImportStore persists modules and their package associations
type ModuleImportStore interface {
	PackageLookup
	AddModulemds(context.Context, []model.Modulemd) error
	AddModulemdDefaults(context.Context, []model.ModulemdDefaults) error
	AddModulePackages(context.Context, []model.ModulePackage) error
}

// ImportReport summarizes an import of module documents
type ImportReport struct {
	// Modules touched by the import
	Modules  []string
	Streams  []model.Modulemd
	Defaults []model.ModulemdDefaults

	Associations []model.ModulePackage

	// Rejected documents: when not empty, nothing was imported
	Rejected []modulemd.Failure

	// Skipped streams, with a malformed NSVCA
	Skipped []error

	// Unresolved artifacts, by stream NSVCA
	Unresolved map[string][]Unresolved
}

// ImportModules loads module documents into idx, then stores the module
// streams and defaults found, and associates streams with known packages.
//
// idx accumulates modules across imports. It may be nil for a one-off import.
// Documents which fail validation reject the whole input: they are reported,
// not returned as an error.
func ImportModules(ctx context.Context, st ModuleImportStore, r io.Reader, idx *modulemd.Index, opts ...Option) (ImportReport, error) {
	o := defaultOptions(opts)
	report := ImportReport{Unresolved: make(map[string][]Unresolved)}
	if idx == nil {
		idx = modulemd.NewIndex()
	}

	names, fails, err := modulemd.Load(r, idx)
	if err != nil {
		return report, status.ErrReadModules.Wrap(err)
	}
	report.Modules = names
	if len(fails) > 0 {
		for _, fail := range fails {
			o.l.Warn("rejected module document", zap.Int("document", fail.Document), zap.Error(fail.Err))
		}
		o.m.RejectedDocuments.Add(float64(len(fails)))
		report.Rejected = fails
		return report, nil
	}

	streams, skipped := modulemd.StreamRecords(idx, names)
	report.Skipped = multierr.Errors(skipped)
	for _, err := range report.Skipped {
		o.l.Warn("skipped module stream", zap.Error(err))
	}
	o.m.SkippedStreams.Add(float64(len(report.Skipped)))

	defaults, err := modulemd.DefaultsRecords(idx, names)
	if err != nil {
		return report, err
	}

	if len(streams) > 0 {
		if err := st.AddModulemds(ctx, streams); err != nil {
			return report, err
		}
	}
	if len(defaults) > 0 {
		if err := st.AddModulemdDefaults(ctx, defaults); err != nil {
			return report, err
		}
	}
	report.Streams = streams
	report.Defaults = defaults
	o.m.ImportedStreams.Add(float64(len(streams)))

	for _, stream := range streams {
		res, err := ResolveModulePackages(ctx, st, stream)
		if err != nil {
			return report, err
		}
		report.Associations = append(report.Associations, res.Associations...)
		if len(res.Unresolved) == 0 {
			continue
		}
		report.Unresolved[stream.NSVCA()] = res.Unresolved
		for _, u := range res.Unresolved {
			o.l.Info("unresolved module artifact",
				zap.String("module", stream.NSVCA()),
				zap.String("artifact", u.Artifact),
				zap.String("reason", string(u.Reason)),
				zap.Error(u.Err),
			)
			o.m.UnresolvedPackages.WithLabelValues(reasonLabel(u.Reason)).Inc()
		}
	}

	if len(report.Associations) > 0 {
		if err := st.AddModulePackages(ctx, report.Associations); err != nil {
			return report, err
		}
	}
	o.l.Info("modules imported",
		zap.Strings("modules", names),
		zap.Int("streams", len(streams)),
		zap.Int("defaults", len(defaults)),
		zap.Int("associations", len(report.Associations)),
	)
	return report, nil
}

func reasonLabel(reason UnresolvedReason) string {
	switch reason {
	case ReasonLookupError:
		return metrics.ReasonLookupError
	case ReasonInvalidNEVRA:
		return metrics.ReasonInvalidNEVRA
	default:
		return metrics.ReasonNotFound
	}
}
