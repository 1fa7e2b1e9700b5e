package core

import (
	"context"

	"github.com/oneconcern/rpmsync/pkg/core/status"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/nevra"
)

// PackageLookup finds known packages by name and version
type PackageLookup interface {
	FindPackages(ctx context.Context, name, version string) ([]model.Package, error)
}

// UnresolvedReason tells why a module artifact has no package
type UnresolvedReason string

// Reasons for unresolved module artifacts
const (
	ReasonNotFound     UnresolvedReason = "not found"
	ReasonLookupError  UnresolvedReason = "lookup error"
	ReasonInvalidNEVRA UnresolvedReason = "invalid NEVRA"
)

// Unresolved is a module artifact which could not be associated with a package
type Unresolved struct {
	Artifact string
	Name     string
	Version  string
	Reason   UnresolvedReason
	Err      error
}

// Resolution is the outcome of resolving the packages of a module stream
type Resolution struct {
	Associations []model.ModulePackage
	Unresolved   []Unresolved
}

// ResolveModulePackages associates a module stream with the known packages of
// its artifacts.
//
// Artifacts are matched on name and version only: all packages with this name
// and version are associated, whatever their arch or release. A miss never
// stops the resolution, it is reported as unresolved. The only error is a
// module stream with undecodable artifacts.
func ResolveModulePackages(ctx context.Context, lookup PackageLookup, module model.Modulemd) (Resolution, error) {
	var res Resolution

	artifacts, err := module.ArtifactList()
	if err != nil {
		return res, status.ErrInvalidModule.Wrapf("%s: %v", module.NSVCA(), err)
	}

	seen := make(map[string]struct{})
	for _, artifact := range artifacts {
		name, version, err := nevra.PackageVersion(artifact)
		if err != nil {
			res.Unresolved = append(res.Unresolved, Unresolved{
				Artifact: artifact,
				Reason:   ReasonInvalidNEVRA,
				Err:      err,
			})
			continue
		}

		pkgs, err := lookup.FindPackages(ctx, name, version)
		switch {
		case err != nil:
			res.Unresolved = append(res.Unresolved, Unresolved{
				Artifact: artifact,
				Name:     name,
				Version:  version,
				Reason:   ReasonLookupError,
				Err:      err,
			})
			continue
		case len(pkgs) == 0:
			res.Unresolved = append(res.Unresolved, Unresolved{
				Artifact: artifact,
				Name:     name,
				Version:  version,
				Reason:   ReasonNotFound,
			})
			continue
		}

		for _, p := range pkgs {
			if _, dup := seen[p.PK]; dup {
				continue
			}
			seen[p.PK] = struct{}{}
			res.Associations = append(res.Associations, model.ModulePackage{
				ModulemdPK: module.PK,
				PackagePK:  p.PK,
			})
		}
	}
	return res, nil
}
