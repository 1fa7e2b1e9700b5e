// Copyright © 2018 One Concern

package model

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/rpmsync/pkg/nevra"
	"go.uber.org/multierr"
)

// Modulemd is the "rpm.modulemd" content type: one module stream.
//
// Artifacts and Dependencies are JSON texts, kept opaque by the store.
type Modulemd struct {
	PK           string `json:"pk" yaml:"pk"`
	Name         string `json:"name" yaml:"name"`
	Stream       string `json:"stream" yaml:"stream"`
	Version      string `json:"version" yaml:"version"`
	Context      string `json:"context" yaml:"context"`
	Arch         string `json:"arch" yaml:"arch"`
	Dependencies string `json:"dependencies" yaml:"dependencies"`
	Artifacts    string `json:"artifacts" yaml:"artifacts"`
}

// NSVCA returns the colon-joined identity of the stream
func (m Modulemd) NSVCA() string {
	return strings.Join([]string{m.Name, m.Stream, m.Version, m.Context, m.Arch}, ":")
}

// NaturalKey returns the primary key derived from the stream identity
func (m Modulemd) NaturalKey() string {
	return NaturalKey(TypeModulemd, m.Name, m.Stream, m.Version, m.Context, m.Arch)
}

// Content returns the content unit for this module stream
func (m Modulemd) Content() Content {
	return Content{PK: m.PK, Type: TypeModulemd}
}

// ArtifactList decodes the NEVRA artifacts of the stream
func (m Modulemd) ArtifactList() ([]string, error) {
	if m.Artifacts == "" {
		return nil, nil
	}
	var artifacts []string
	if err := jsoniter.UnmarshalFromString(m.Artifacts, &artifacts); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// PkgVer is the (name, version) pair of a module artifact
type PkgVer struct {
	Artifact string `json:"artifact" yaml:"artifact"`
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version" yaml:"version"`
}

// PackagesToPkgVer splits the artifacts of the stream into package names and versions.
//
// Malformed artifacts are left out of the result and reported in the combined error.
func (m Modulemd) PackagesToPkgVer() ([]PkgVer, error) {
	artifacts, err := m.ArtifactList()
	if err != nil {
		return nil, err
	}
	var (
		result    []PkgVer
		malformed error
	)
	for _, artifact := range artifacts {
		name, version, err := nevra.PackageVersion(artifact)
		if err != nil {
			malformed = multierr.Append(malformed, err)
			continue
		}
		result = append(result, PkgVer{Artifact: artifact, Name: name, Version: version})
	}
	return result, malformed
}

// DependencyMap decodes the runtime dependencies of the stream
func (m Modulemd) DependencyMap() (map[string][]string, error) {
	if m.Dependencies == "" {
		return nil, nil
	}
	var deps map[string][]string
	if err := jsoniter.UnmarshalFromString(m.Dependencies, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

// ModulemdDefaults is the "rpm.modulemd_defaults" content type
type ModulemdDefaults struct {
	PK       string `json:"pk" yaml:"pk"`
	Module   string `json:"module" yaml:"module"`
	Stream   string `json:"stream" yaml:"stream"`
	Profiles string `json:"profiles" yaml:"profiles"`
}

// NaturalKey returns the primary key derived from the defaults identity
func (d ModulemdDefaults) NaturalKey() string {
	return NaturalKey(TypeModulemdDefaults, d.Module, d.Stream)
}

// Content returns the content unit for these defaults
func (d ModulemdDefaults) Content() Content {
	return Content{PK: d.PK, Type: TypeModulemdDefaults}
}

// ModulePackage associates a module stream with a package it ships
type ModulePackage struct {
	ModulemdPK string `json:"modulemd" yaml:"modulemd"`
	PackagePK  string `json:"package" yaml:"package"`
}
