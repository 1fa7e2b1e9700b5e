package modulemd

import (
	"sort"
	"strconv"
	"strings"

	"github.com/oneconcern/rpmsync/pkg/modulemd/status"
)

const (
	documentModulemd             = "modulemd"
	documentModulemdDefaults     = "modulemd-defaults"
	documentModulemdObsoletes    = "modulemd-obsoletes"
	documentModulemdTranslations = "modulemd-translations"

	modulemdVersion             = 2
	modulemdLegacyVersion       = 1
	modulemdDefaultsVersion     = 1
	modulemdObsoletesVersion    = 1
	modulemdTranslationsVersion = 1
)

// document is one subdocument of a modules.yaml stream.
//
// The envelope is decoded first, then the whole document is decoded again
// with the data section typed after the document kind, so that strict
// decoding applies to the data section too. Legacy modulemd v1 streams are
// upgraded to the v2 layout.
type document struct {
	kind         string
	stream       *streamData
	defaults     *defaultsData
	obsoletes    *obsoletesData
	translations *translationsData
}

func (d *document) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var header struct {
		Document string      `yaml:"document"`
		Version  int         `yaml:"version"`
		Data     interface{} `yaml:"data"`
	}
	if err := unmarshal(&header); err != nil {
		return err
	}

	switch {
	case header.Document == documentModulemd && header.Version == modulemdVersion:
		var body struct {
			Document string     `yaml:"document"`
			Version  int        `yaml:"version"`
			Data     streamData `yaml:"data"`
		}
		if err := unmarshal(&body); err != nil {
			return err
		}
		if body.Data.Name == "" || body.Data.Stream == "" {
			return status.ErrMissingField.Wrapf("module stream requires a name and a stream")
		}
		d.kind = documentModulemd
		d.stream = &body.Data

	case header.Document == documentModulemd && header.Version == modulemdLegacyVersion:
		var body struct {
			Document string           `yaml:"document"`
			Version  int              `yaml:"version"`
			Data     legacyStreamData `yaml:"data"`
		}
		if err := unmarshal(&body); err != nil {
			return err
		}
		if body.Data.Name == "" || body.Data.Stream == "" {
			return status.ErrMissingField.Wrapf("module stream requires a name and a stream")
		}
		d.kind = documentModulemd
		d.stream = body.Data.upgrade()

	case header.Document == documentModulemdDefaults && header.Version == modulemdDefaultsVersion:
		var body struct {
			Document string       `yaml:"document"`
			Version  int          `yaml:"version"`
			Data     defaultsData `yaml:"data"`
		}
		if err := unmarshal(&body); err != nil {
			return err
		}
		if body.Data.Module == "" {
			return status.ErrMissingField.Wrapf("module defaults require a module")
		}
		d.kind = documentModulemdDefaults
		d.defaults = &body.Data

	case header.Document == documentModulemdObsoletes && header.Version == modulemdObsoletesVersion:
		var body struct {
			Document string        `yaml:"document"`
			Version  int           `yaml:"version"`
			Data     obsoletesData `yaml:"data"`
		}
		if err := unmarshal(&body); err != nil {
			return err
		}
		if body.Data.Module == "" || body.Data.Stream == "" {
			return status.ErrMissingField.Wrapf("module obsoletes require a module and a stream")
		}
		d.kind = documentModulemdObsoletes
		d.obsoletes = &body.Data

	case header.Document == documentModulemdTranslations && header.Version == modulemdTranslationsVersion:
		var body struct {
			Document string           `yaml:"document"`
			Version  int              `yaml:"version"`
			Data     translationsData `yaml:"data"`
		}
		if err := unmarshal(&body); err != nil {
			return err
		}
		if body.Data.Module == "" || body.Data.Stream == "" {
			return status.ErrMissingField.Wrapf("module translations require a module and a stream")
		}
		d.kind = documentModulemdTranslations
		d.translations = &body.Data

	default:
		return status.ErrUnknownDocument.Wrapf("document %q version %d", header.Document, header.Version)
	}
	return nil
}

type artifactsData struct {
	RPMs   []string               `yaml:"rpms,omitempty"`
	RPMMap map[string]interface{} `yaml:"rpm-map,omitempty"`
}

type dependencyData struct {
	BuildRequires map[string][]string `yaml:"buildrequires,omitempty"`
	Requires      map[string][]string `yaml:"requires,omitempty"`
}

// streamData is the data section of a modulemd v2 document
type streamData struct {
	Name          string                 `yaml:"name"`
	Stream        string                 `yaml:"stream"`
	Version       uint64                 `yaml:"version,omitempty"`
	Context       string                 `yaml:"context,omitempty"`
	Arch          string                 `yaml:"arch,omitempty"`
	Summary       string                 `yaml:"summary,omitempty"`
	Description   string                 `yaml:"description,omitempty"`
	StaticContext bool                   `yaml:"static_context,omitempty"`
	EOL           string                 `yaml:"eol,omitempty"`
	ServiceLevels map[string]interface{} `yaml:"servicelevels,omitempty"`
	License       map[string][]string    `yaml:"license,omitempty"`
	XMD           map[string]interface{} `yaml:"xmd,omitempty"`
	Dependencies  []dependencyData       `yaml:"dependencies,omitempty"`
	References    map[string]string      `yaml:"references,omitempty"`
	Profiles      map[string]interface{} `yaml:"profiles,omitempty"`
	API           map[string][]string    `yaml:"api,omitempty"`
	Filter        map[string][]string    `yaml:"filter,omitempty"`
	BuildOpts     map[string]interface{} `yaml:"buildopts,omitempty"`
	Components    map[string]interface{} `yaml:"components,omitempty"`
	Artifacts     artifactsData          `yaml:"artifacts,omitempty"`
}

// defaultsData is the data section of a modulemd-defaults v1 document
type defaultsData struct {
	Module   string                            `yaml:"module"`
	Stream   string                            `yaml:"stream,omitempty"`
	Modified uint64                            `yaml:"modified,omitempty"`
	Profiles map[string][]string               `yaml:"profiles,omitempty"`
	Intents  map[string]map[string]interface{} `yaml:"intents,omitempty"`
}

// legacyStreamData is the data section of a modulemd v1 document.
//
// v1 dependencies map a module to a single stream, and there is only one
// set of them per stream.
type legacyStreamData struct {
	Name          string                 `yaml:"name"`
	Stream        string                 `yaml:"stream"`
	Version       uint64                 `yaml:"version,omitempty"`
	Context       string                 `yaml:"context,omitempty"`
	Arch          string                 `yaml:"arch,omitempty"`
	Summary       string                 `yaml:"summary,omitempty"`
	Description   string                 `yaml:"description,omitempty"`
	EOL           string                 `yaml:"eol,omitempty"`
	ServiceLevels map[string]interface{} `yaml:"servicelevels,omitempty"`
	License       map[string][]string    `yaml:"license,omitempty"`
	XMD           map[string]interface{} `yaml:"xmd,omitempty"`
	Dependencies  struct {
		BuildRequires map[string]string `yaml:"buildrequires,omitempty"`
		Requires      map[string]string `yaml:"requires,omitempty"`
	} `yaml:"dependencies,omitempty"`
	References map[string]string      `yaml:"references,omitempty"`
	Profiles   map[string]interface{} `yaml:"profiles,omitempty"`
	API        map[string][]string    `yaml:"api,omitempty"`
	Filter     map[string][]string    `yaml:"filter,omitempty"`
	BuildOpts  map[string]interface{} `yaml:"buildopts,omitempty"`
	Components map[string]interface{} `yaml:"components,omitempty"`
	Artifacts  artifactsData          `yaml:"artifacts,omitempty"`
}

func (l legacyStreamData) upgrade() *streamData {
	s := &streamData{
		Name:          l.Name,
		Stream:        l.Stream,
		Version:       l.Version,
		Context:       l.Context,
		Arch:          l.Arch,
		Summary:       l.Summary,
		Description:   l.Description,
		EOL:           l.EOL,
		ServiceLevels: l.ServiceLevels,
		License:       l.License,
		XMD:           l.XMD,
		References:    l.References,
		Profiles:      l.Profiles,
		API:           l.API,
		Filter:        l.Filter,
		BuildOpts:     l.BuildOpts,
		Components:    l.Components,
		Artifacts:     l.Artifacts,
	}
	if len(l.Dependencies.BuildRequires) == 0 && len(l.Dependencies.Requires) == 0 {
		return s
	}
	s.Dependencies = []dependencyData{{
		BuildRequires: singleStreams(l.Dependencies.BuildRequires),
		Requires:      singleStreams(l.Dependencies.Requires),
	}}
	return s
}

func singleStreams(deps map[string]string) map[string][]string {
	if len(deps) == 0 {
		return nil
	}
	out := make(map[string][]string, len(deps))
	for module, stream := range deps {
		out[module] = []string{stream}
	}
	return out
}

type obsoletedByData struct {
	Module string `yaml:"module"`
	Stream string `yaml:"stream"`
}

// obsoletesData is the data section of a modulemd-obsoletes v1 document
type obsoletesData struct {
	Modified    string           `yaml:"modified"`
	Reset       bool             `yaml:"reset,omitempty"`
	Module      string           `yaml:"module"`
	Stream      string           `yaml:"stream"`
	Context     string           `yaml:"context,omitempty"`
	EOLDate     string           `yaml:"eol_date,omitempty"`
	Message     string           `yaml:"message"`
	ObsoletedBy *obsoletedByData `yaml:"obsoleted_by,omitempty"`
}

type translationEntry struct {
	Summary     string            `yaml:"summary,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Profiles    map[string]string `yaml:"profiles,omitempty"`
}

// translationsData is the data section of a modulemd-translations v1 document
type translationsData struct {
	Module       string                      `yaml:"module"`
	Stream       string                      `yaml:"stream"`
	Modified     uint64                      `yaml:"modified"`
	Translations map[string]translationEntry `yaml:"translations,omitempty"`
}

// Dependency is one entry of the dependencies of a module stream
type Dependency interface {
	// RuntimeModules lists the names of the modules required at runtime, sorted
	RuntimeModules() []string

	// RuntimeStreams lists the accepted streams of a required module
	RuntimeStreams(module string) []string
}

// Stream is a parsed module stream, as consumed by rpmsync
type Stream interface {
	// NSVCA returns name:stream:version:context:arch. Trailing empty
	// fields are dropped, so a stream without arch yields 4 fields.
	NSVCA() string

	// RpmArtifacts lists the NEVRA of the packages shipped by the stream
	RpmArtifacts() []string

	// Dependencies lists the dependency entries of the stream, in document order
	Dependencies() []Dependency
}

type dependency struct {
	data dependencyData
}

func (d dependency) RuntimeModules() []string {
	names := make([]string, 0, len(d.data.Requires))
	for name := range d.data.Requires {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d dependency) RuntimeStreams(module string) []string {
	streams := d.data.Requires[module]
	if streams == nil {
		return []string{}
	}
	return append([]string(nil), streams...)
}

type moduleStream struct {
	data streamData
}

func (s *moduleStream) NSVCA() string {
	var version string
	if s.data.Version != 0 {
		version = strconv.FormatUint(s.data.Version, 10)
	}
	nsvca := strings.Join([]string{s.data.Name, s.data.Stream, version, s.data.Context, s.data.Arch}, ":")
	return strings.TrimRight(nsvca, ":")
}

func (s *moduleStream) RpmArtifacts() []string {
	return append([]string(nil), s.data.Artifacts.RPMs...)
}

func (s *moduleStream) Dependencies() []Dependency {
	deps := make([]Dependency, 0, len(s.data.Dependencies))
	for _, d := range s.data.Dependencies {
		deps = append(deps, dependency{data: d})
	}
	return deps
}

// Defaults holds the default stream and profiles of a module
type Defaults struct {
	Module   string
	Stream   string
	Profiles map[string][]string
}

// Obsoletes announces the end of life of a module stream, and optionally
// the stream replacing it
type Obsoletes struct {
	Module   string
	Stream   string
	Context  string
	Modified string
	Reset    bool
	EOLDate  string
	Message  string

	// ObsoletedByModule and ObsoletedByStream are empty when no stream replaces it
	ObsoletedByModule string
	ObsoletedByStream string
}

func newObsoletes(data *obsoletesData) Obsoletes {
	o := Obsoletes{
		Module:   data.Module,
		Stream:   data.Stream,
		Context:  data.Context,
		Modified: data.Modified,
		Reset:    data.Reset,
		EOLDate:  data.EOLDate,
		Message:  data.Message,
	}
	if data.ObsoletedBy != nil {
		o.ObsoletedByModule = data.ObsoletedBy.Module
		o.ObsoletedByStream = data.ObsoletedBy.Stream
	}
	return o
}

// Translation holds the localized summary and description of a module stream
type Translation struct {
	Stream      string
	Locale      string
	Summary     string
	Description string
	Profiles    map[string]string
}
