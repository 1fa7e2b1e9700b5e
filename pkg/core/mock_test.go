package core

import (
	"context"
	"sync"

	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/store"
	storestatus "github.com/oneconcern/rpmsync/pkg/store/status"
)

// fakeStore is an in-memory store recording how it is queried
type fakeStore struct {
	mx sync.Mutex

	packages  map[string][]model.Package
	lookupErr map[string]error

	contents   map[string]model.Content
	contentErr error
	cas        map[string][]model.ContentArtifact
	ras        map[string][]model.RemoteArtifact
	advisories map[string]model.UpdateRecord

	modulemds map[string]model.Modulemd
	defaults  map[string]model.ModulemdDefaults
	assocs    map[model.ModulePackage]struct{}

	// hideRemoteArtifacts simulates a concurrent writer: prefetch does not see
	// the remote artifacts which already exist
	hideRemoteArtifacts bool

	prefetchCalls   int
	prefetchContent [][]string
	prefetchRemotes [][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		packages:   make(map[string][]model.Package),
		lookupErr:  make(map[string]error),
		contents:   make(map[string]model.Content),
		cas:        make(map[string][]model.ContentArtifact),
		ras:        make(map[string][]model.RemoteArtifact),
		advisories: make(map[string]model.UpdateRecord),
		modulemds:  make(map[string]model.Modulemd),
		defaults:   make(map[string]model.ModulemdDefaults),
		assocs:     make(map[model.ModulePackage]struct{}),
	}
}

func nvKey(name, version string) string {
	return name + "\x00" + version
}

func (f *fakeStore) addPackage(p model.Package) model.Package {
	if p.PK == "" {
		p.PK = p.NaturalKey()
	}
	k := nvKey(p.Name, p.Version)
	f.packages[k] = append(f.packages[k], p)
	return p
}

func (f *fakeStore) addContentArtifact(contentPK, relativePath string) model.ContentArtifact {
	ca := model.NewContentArtifact(contentPK, relativePath)
	f.cas[contentPK] = append(f.cas[contentPK], ca)
	return ca
}

func (f *fakeStore) FindPackages(_ context.Context, name, version string) ([]model.Package, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	if err := f.lookupErr[nvKey(name, version)]; err != nil {
		return nil, err
	}
	return f.packages[nvKey(name, version)], nil
}

func (f *fakeStore) GetContent(_ context.Context, pk string) (model.Content, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	if f.contentErr != nil {
		return model.Content{}, f.contentErr
	}
	c, ok := f.contents[pk]
	if !ok {
		return c, storestatus.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) AddContent(_ context.Context, contents []model.Content) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	for _, c := range contents {
		f.contents[c.PK] = c
	}
	return nil
}

func (f *fakeStore) AddContentArtifacts(_ context.Context, cas []model.ContentArtifact) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	for _, ca := range cas {
		exists := false
		for _, known := range f.cas[ca.ContentPK] {
			if known.RelativePath == ca.RelativePath {
				exists = true
				break
			}
		}
		if !exists {
			f.cas[ca.ContentPK] = append(f.cas[ca.ContentPK], ca)
		}
	}
	return nil
}

func (f *fakeStore) AddUpdateRecords(_ context.Context, records []model.UpdateRecord) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	for _, u := range records {
		f.advisories[u.PK] = u
	}
	return nil
}

func (f *fakeStore) PrefetchContentArtifacts(_ context.Context, contentPKs, remotePKs []string) (map[string][]store.PrefetchedArtifact, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.prefetchCalls++
	f.prefetchContent = append(f.prefetchContent, contentPKs)
	f.prefetchRemotes = append(f.prefetchRemotes, remotePKs)

	remotes := make(map[string]bool, len(remotePKs))
	for _, pk := range remotePKs {
		remotes[pk] = true
	}
	result := make(map[string][]store.PrefetchedArtifact)
	for _, contentPK := range contentPKs {
		for _, ca := range f.cas[contentPK] {
			p := store.PrefetchedArtifact{ContentArtifact: ca}
			if !f.hideRemoteArtifacts {
				for _, ra := range f.ras[ca.PK] {
					if remotes[ra.RemotePK] {
						p.RemoteArtifacts = append(p.RemoteArtifacts, ra)
					}
				}
			}
			result[contentPK] = append(result[contentPK], p)
		}
	}
	return result, nil
}

func (f *fakeStore) BulkCreateRemoteArtifacts(_ context.Context, ras []model.RemoteArtifact) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	for _, ra := range ras {
		for _, known := range f.ras[ra.ContentArtifactPK] {
			if known.RemotePK == ra.RemotePK {
				return storestatus.ErrConflict.Wrapf("remote artifact for %s and %s", ra.ContentArtifactPK, ra.RemotePK)
			}
		}
	}
	for _, ra := range ras {
		f.ras[ra.ContentArtifactPK] = append(f.ras[ra.ContentArtifactPK], ra)
	}
	return nil
}

func (f *fakeStore) AddModulemds(_ context.Context, modules []model.Modulemd) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	for _, m := range modules {
		f.modulemds[m.PK] = m
	}
	return nil
}

func (f *fakeStore) AddModulemdDefaults(_ context.Context, defaults []model.ModulemdDefaults) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	for _, d := range defaults {
		f.defaults[d.PK] = d
	}
	return nil
}

func (f *fakeStore) AddModulePackages(_ context.Context, assocs []model.ModulePackage) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	for _, a := range assocs {
		f.assocs[a] = struct{}{}
	}
	return nil
}

func (f *fakeStore) remoteArtifactCount() int {
	f.mx.Lock()
	defer f.mx.Unlock()
	n := 0
	for _, ras := range f.ras {
		n += len(ras)
	}
	return n
}
