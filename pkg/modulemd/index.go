package modulemd

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/oneconcern/rpmsync/pkg/errors"
	"github.com/oneconcern/rpmsync/pkg/modulemd/status"
	"gopkg.in/yaml.v2"
)

// Failure reports a subdocument which could not be merged into an index
type Failure struct {
	// Document is the 0-based position of the subdocument in the stream
	Document int
	Err      error
}

func (f Failure) Error() string {
	return "subdocument #" + strconv.Itoa(f.Document) + ": " + f.Err.Error()
}

// Module is a named collection of streams
type Module struct {
	name         string
	streams      []*moduleStream
	defaults     *Defaults
	obsoletes    []Obsoletes
	translations []Translation
}

// Name of the module
func (m *Module) Name() string {
	return m.name
}

// Streams of the module, in the order they were first seen
func (m *Module) Streams() []Stream {
	streams := make([]Stream, 0, len(m.streams))
	for _, s := range m.streams {
		streams = append(streams, s)
	}
	return streams
}

// Defaults of the module, if any were loaded
func (m *Module) Defaults() *Defaults {
	return m.defaults
}

// Obsoletes of the module streams, in the order they were first seen
func (m *Module) Obsoletes() []Obsoletes {
	return append([]Obsoletes(nil), m.obsoletes...)
}

// Translations of the module streams, sorted by stream then locale
func (m *Module) Translations() []Translation {
	return append([]Translation(nil), m.translations...)
}

// addObsoletes keeps one entry per stream, context and modification date
func (m *Module) addObsoletes(o Obsoletes) {
	for i, existing := range m.obsoletes {
		if existing.Stream == o.Stream && existing.Context == o.Context && existing.Modified == o.Modified {
			m.obsoletes[i] = o
			return
		}
	}
	m.obsoletes = append(m.obsoletes, o)
}

// setTranslations replaces the translations of one stream
func (m *Module) setTranslations(data *translationsData) {
	kept := m.translations[:0]
	for _, t := range m.translations {
		if t.Stream != data.Stream {
			kept = append(kept, t)
		}
	}
	for locale, entry := range data.Translations {
		kept = append(kept, Translation{
			Stream:      data.Stream,
			Locale:      locale,
			Summary:     entry.Summary,
			Description: entry.Description,
			Profiles:    entry.Profiles,
		})
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Stream != kept[j].Stream {
			return kept[i].Stream < kept[j].Stream
		}
		return kept[i].Locale < kept[j].Locale
	})
	m.translations = kept
}

func (m *Module) addStream(s *moduleStream) {
	nsvca := s.NSVCA()
	for i, existing := range m.streams {
		if existing.NSVCA() == nsvca {
			m.streams[i] = s
			return
		}
	}
	m.streams = append(m.streams, s)
}

// Index accumulates modules across successive loads.
//
// The zero value is not usable: use NewIndex. An Index must not be shared by
// concurrent loaders.
type Index struct {
	modules map[string]*Module
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{modules: make(map[string]*Module)}
}

// ModuleNames lists all modules in the index, sorted
func (idx *Index) ModuleNames() []string {
	names := make([]string, 0, len(idx.modules))
	for name := range idx.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Module returns a module by name, or nil
func (idx *Index) Module(name string) *Module {
	return idx.modules[name]
}

// UpdateFromString merges a YAML stream of subdocuments into the index.
//
// Module streams (v1 and v2), defaults, obsoletes and translations are
// recognized. In strict mode, unknown fields or document types are
// failures and the stream is merged only if all of its subdocuments are
// valid. Otherwise, valid subdocuments are merged and failures are only
// reported.
func (idx *Index) UpdateFromString(text string, strict bool) (bool, []Failure) {
	_, fails := idx.update(text, strict)
	return len(fails) == 0, fails
}

// update merges text and returns the names of the modules it touched
func (idx *Index) update(text string, strict bool) ([]string, []Failure) {
	docs, fails := decodeDocuments(text, strict)
	if strict && len(fails) > 0 {
		return nil, fails
	}

	touched := make(map[string]struct{})
	for _, doc := range docs {
		var name string
		switch doc.kind {
		case documentModulemd:
			name = doc.stream.Name
			idx.ensure(name).addStream(&moduleStream{data: *doc.stream})
		case documentModulemdDefaults:
			name = doc.defaults.Module
			idx.ensure(name).defaults = &Defaults{
				Module:   doc.defaults.Module,
				Stream:   doc.defaults.Stream,
				Profiles: doc.defaults.Profiles,
			}
		case documentModulemdObsoletes:
			name = doc.obsoletes.Module
			idx.ensure(name).addObsoletes(newObsoletes(doc.obsoletes))
		case documentModulemdTranslations:
			name = doc.translations.Module
			idx.ensure(name).setTranslations(doc.translations)
		default:
			continue
		}
		touched[name] = struct{}{}
	}

	names := make([]string, 0, len(touched))
	for name := range touched {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, fails
}

func (idx *Index) ensure(name string) *Module {
	m, ok := idx.modules[name]
	if !ok {
		m = &Module{name: name}
		idx.modules[name] = m
	}
	return m
}

func decodeDocuments(text string, strict bool) ([]document, []Failure) {
	var (
		docs  []document
		fails []Failure
	)
	dec := yaml.NewDecoder(strings.NewReader(text))
	dec.SetStrict(strict)

	for i := 0; ; i++ {
		var doc document
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			fails = append(fails, Failure{Document: i, Err: status.ErrInvalidDocument.Wrap(err)})
			if recoverable(err) {
				continue
			}
			// syntax errors leave the parser in an unusable state
			break
		}
		if doc.kind == "" {
			// empty subdocument
			continue
		}
		docs = append(docs, doc)
	}
	return docs, fails
}

func recoverable(err error) bool {
	var terr *yaml.TypeError
	return errors.As(err, &terr) ||
		errors.Is(err, status.ErrUnknownDocument) ||
		errors.Is(err, status.ErrMissingField)
}
