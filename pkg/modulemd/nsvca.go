package modulemd

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/modulemd/status"
	"go.uber.org/multierr"
)

// json encodes with sorted map keys, so stored texts are stable
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const nsvcaFields = 5

// NSVCA is the identity of a module stream
type NSVCA struct {
	Name    string
	Stream  string
	Version string
	Context string
	Arch    string
}

func (n NSVCA) String() string {
	return strings.Join([]string{n.Name, n.Stream, n.Version, n.Context, n.Arch}, ":")
}

// ParseNSVCA splits name:stream:version:context:arch.
//
// At least 5 fields are required. Fields past the 5th are ignored.
func ParseNSVCA(s string) (NSVCA, error) {
	fields := strings.SplitN(s, ":", nsvcaFields+1)
	if len(fields) < nsvcaFields {
		return NSVCA{}, status.ErrMalformedNSVCA.Wrapf("%q has %d fields, expected %d", s, len(fields), nsvcaFields)
	}
	return NSVCA{
		Name:    fields[0],
		Stream:  fields[1],
		Version: fields[2],
		Context: fields[3],
		Arch:    fields[4],
	}, nil
}

// ParseStream builds the module record for a stream.
//
// Artifacts are stored as a JSON array of NEVRA strings. Dependencies are
// stored as a JSON object mapping a required module to its accepted streams:
// when a module appears in several dependency entries, the last one wins.
func ParseStream(s Stream) (model.Modulemd, error) {
	id, err := ParseNSVCA(s.NSVCA())
	if err != nil {
		return model.Modulemd{}, err
	}

	artifacts := s.RpmArtifacts()
	if artifacts == nil {
		artifacts = []string{}
	}
	artifactsJSON, err := json.MarshalToString(artifacts)
	if err != nil {
		return model.Modulemd{}, err
	}

	deps := make(map[string][]string)
	for _, dep := range s.Dependencies() {
		for _, module := range dep.RuntimeModules() {
			deps[module] = dep.RuntimeStreams(module)
		}
	}
	depsJSON, err := json.MarshalToString(deps)
	if err != nil {
		return model.Modulemd{}, err
	}

	m := model.Modulemd{
		Name:         id.Name,
		Stream:       id.Stream,
		Version:      id.Version,
		Context:      id.Context,
		Arch:         id.Arch,
		Artifacts:    artifactsJSON,
		Dependencies: depsJSON,
	}
	m.PK = m.NaturalKey()
	return m, nil
}

// StreamRecords builds the module records of all streams of the named modules.
//
// A stream which cannot be parsed is skipped: its siblings are still
// returned and the skipped streams are reported in the combined error.
func StreamRecords(idx *Index, names []string) ([]model.Modulemd, error) {
	var (
		records []model.Modulemd
		skipped error
	)
	for _, name := range names {
		module := idx.Module(name)
		if module == nil {
			continue
		}
		for _, s := range module.Streams() {
			record, err := ParseStream(s)
			if err != nil {
				skipped = multierr.Append(skipped, err)
				continue
			}
			records = append(records, record)
		}
	}
	return records, skipped
}

// DefaultsRecords builds the module defaults records of the named modules
func DefaultsRecords(idx *Index, names []string) ([]model.ModulemdDefaults, error) {
	var records []model.ModulemdDefaults
	for _, name := range names {
		module := idx.Module(name)
		if module == nil || module.Defaults() == nil {
			continue
		}
		d := module.Defaults()
		profiles := d.Profiles
		if profiles == nil {
			profiles = map[string][]string{}
		}
		profilesJSON, err := json.MarshalToString(profiles)
		if err != nil {
			return nil, err
		}
		record := model.ModulemdDefaults{
			Module:   d.Module,
			Stream:   d.Stream,
			Profiles: profilesJSON,
		}
		record.PK = record.NaturalKey()
		records = append(records, record)
	}
	return records, nil
}
