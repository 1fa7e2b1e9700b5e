// Copyright © 2018 One Concern

package model

import "fmt"

// Package is the "rpm.package" content type, as described by repository metadata.
//
// Only the fields needed to identify and locate a package are kept: header
// level metadata (changelogs, files, dependencies) is out of scope.
type Package struct {
	PK           string `json:"pk" yaml:"pk"`
	Name         string `json:"name" yaml:"name"`
	Epoch        string `json:"epoch" yaml:"epoch"`
	Version      string `json:"version" yaml:"version"`
	Release      string `json:"release" yaml:"release"`
	Arch         string `json:"arch" yaml:"arch"`
	PkgID        string `json:"pkgId" yaml:"pkgId"`
	ChecksumType string `json:"checksum_type" yaml:"checksum_type"`
	Summary      string `json:"summary,omitempty" yaml:"summary,omitempty"`
	LocationBase string `json:"location_base,omitempty" yaml:"location_base,omitempty"`
	LocationHref string `json:"location_href,omitempty" yaml:"location_href,omitempty"`
	Modular      bool   `json:"modular,omitempty" yaml:"modular,omitempty"`
}

// NEVRA string (Name-Epoch-Version-Release-Architecture)
func (p Package) NEVRA() string {
	return fmt.Sprintf("%s-%s:%s-%s.%s", p.Name, p.Epoch, p.Version, p.Release, p.Arch)
}

// NVRA string (Name-Version-Release-Architecture)
func (p Package) NVRA() string {
	return fmt.Sprintf("%s-%s-%s.%s", p.Name, p.Version, p.Release, p.Arch)
}

// Filename of the rpm file for this package
func (p Package) Filename() string {
	return p.NVRA() + ".rpm"
}

// RelativePath of the package in a repository tree
func (p Package) RelativePath() string {
	if p.LocationHref != "" {
		return p.LocationHref
	}
	return p.Filename()
}

// NaturalKey returns the primary key derived from the package unique fields
func (p Package) NaturalKey() string {
	return NaturalKey(TypePackage, p.Name, p.Epoch, p.Version, p.Release, p.Arch, p.ChecksumType, p.PkgID)
}

// Content returns the content unit for this package
func (p Package) Content() Content {
	return Content{PK: p.PK, Type: TypePackage}
}
