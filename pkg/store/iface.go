// Package store defines the persistence of rpmsync content.
//
// Implementations live in sub-packages: bdgr (embedded badger database) and
// pgstore (PostgreSQL). Errors returned by implementations are declared in
// store/status.
package store

import (
	"context"

	"github.com/oneconcern/rpmsync/pkg/model"
)

// A PackageStore manages packages
type PackageStore interface {
	// AddPackage stores a package. Adding the same package twice is a no-op.
	AddPackage(context.Context, model.Package) error
	GetPackage(context.Context, string) (model.Package, error)

	// FindPackages returns all packages with this name and version,
	// regardless of their epoch, release or arch.
	FindPackages(ctx context.Context, name, version string) ([]model.Package, error)
}

// A ContentStore manages content, content artifacts and remote artifacts
type ContentStore interface {
	AddContent(context.Context, []model.Content) error
	GetContent(context.Context, string) (model.Content, error)

	// AddContentArtifacts stores content artifacts. A (content, relative path)
	// pair which already exists is left untouched.
	AddContentArtifacts(context.Context, []model.ContentArtifact) error

	// PrefetchContentArtifacts loads, in one go, the content artifacts of all
	// the given content, each with its remote artifacts restricted to the
	// given remotes. The result is keyed by content PK.
	PrefetchContentArtifacts(ctx context.Context, contentPKs, remotePKs []string) (map[string][]PrefetchedArtifact, error)

	// BulkCreateRemoteArtifacts stores new remote artifacts atomically. It fails
	// with status.ErrConflict if a (content artifact, remote) pair already exists.
	BulkCreateRemoteArtifacts(context.Context, []model.RemoteArtifact) error
	ListRemoteArtifacts(ctx context.Context, contentArtifactPK string) ([]model.RemoteArtifact, error)
}

// A ModuleStore manages module streams, module defaults and their packages
type ModuleStore interface {
	AddModulemds(context.Context, []model.Modulemd) error
	GetModulemd(context.Context, string) (model.Modulemd, error)
	AddModulemdDefaults(context.Context, []model.ModulemdDefaults) error
	GetModulemdDefaults(context.Context, string) (model.ModulemdDefaults, error)

	// AddModulePackages associates module streams and packages.
	// Associations are a set: adding an existing one is a no-op.
	AddModulePackages(context.Context, []model.ModulePackage) error
	ModulePackages(ctx context.Context, modulemdPK string) ([]model.Package, error)
}

// An AdvisoryStore manages update records
type AdvisoryStore interface {
	// AddUpdateRecords stores update records with their collections and
	// references. Records are keyed on their digest: adding a known record
	// is a no-op.
	AddUpdateRecords(context.Context, []model.UpdateRecord) error
	GetUpdateRecord(context.Context, string) (model.UpdateRecord, error)
}

// A RemoteStore manages remotes
type RemoteStore interface {
	// AddRemote stores a remote. Names are unique.
	AddRemote(context.Context, model.Remote) error
	GetRemote(ctx context.Context, name string) (model.Remote, error)
	ListRemotes(context.Context) ([]model.Remote, error)
}

// Store is the complete rpmsync persistence
type Store interface {
	Initialize() error
	Close() error
	String() string

	PackageStore
	ContentStore
	ModuleStore
	AdvisoryStore
	RemoteStore
}
