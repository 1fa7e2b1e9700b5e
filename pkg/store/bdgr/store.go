// Package bdgr implements the rpmsync store on an embedded badger database.
//
// Records are stored as JSON values. Keys are prefixed by record kind, and
// child records are keyed under their parent so that they can be loaded with
// a prefix scan:
//
//	content:<content>              content
//	ca:<content>\x00<artifact>     content artifacts of a content
//	ra:<artifact>\x00<remote>      remote artifacts of a content artifact
//	pkg:<package>                  packages
//	pkgnv:<name>\x00<version>\x00<package>
//	md:<modulemd>, mdd:<defaults>  module streams and defaults
//	mp:<modulemd>\x00<package>     packages of a module stream
//	ur:<advisory>                  update records, with collections and references
//	remote:<name>                  remotes
package bdgr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/store"
	"github.com/oneconcern/rpmsync/pkg/store/status"
	"go.uber.org/zap"
)

const (
	contentDb = "content"
	sep       = '\x00'
)

var (
	contentPref = []byte("content:")
	caPref      = []byte("ca:")
	raPref      = []byte("ra:")
	pkgPref     = []byte("pkg:")
	pkgNVPref   = []byte("pkgnv:")
	mdPref      = []byte("md:")
	mddPref     = []byte("mdd:")
	mpPref      = []byte("mp:")
	urPref      = []byte("ur:")
	remotePref  = []byte("remote:")
)

var _ store.Store = &badgerStore{}

// New creates a badger based store in baseDir
func New(baseDir string, opts ...Option) store.Store {
	if baseDir == "" {
		baseDir = ".rpmsync"
	}
	s := &badgerStore{
		baseDir: baseDir,
		l:       zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

type badgerStore struct {
	baseDir    string
	inMemory   bool
	syncWrites bool
	l          *zap.Logger

	db    *badger.DB
	init  sync.Once
	close sync.Once
}

func (s *badgerStore) String() string {
	if s.inMemory {
		return "badger(in-memory)"
	}
	return "badger@" + filepath.Join(s.baseDir, contentDb)
}

func (s *badgerStore) Initialize() error {
	var err error
	s.init.Do(func() {
		var opts badger.Options
		if s.inMemory {
			opts = badger.DefaultOptions("").WithInMemory(true)
		} else {
			dir := filepath.Join(s.baseDir, contentDb)
			if err = os.MkdirAll(dir, 0700); err != nil {
				return
			}
			opts = badger.DefaultOptions(dir).WithSyncWrites(s.syncWrites)
		}
		opts = opts.WithLogger(badgerLogger{s: s.l.Sugar()})

		var db *badger.DB
		db, err = badger.Open(opts)
		if err != nil {
			return
		}
		s.db = db
		s.l.Debug("opened badger store", zap.Stringer("store", s))
	})
	return err
}

func (s *badgerStore) Close() error {
	var err error
	s.close.Do(func() {
		if s.db != nil {
			err = s.db.Close()
			if err == nil {
				s.db = nil
			}
		}
	})
	return err
}

func (s *badgerStore) view(ctx context.Context, fn func(*badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db == nil {
		return status.ErrNotInitialized
	}
	return s.db.View(fn)
}

func (s *badgerStore) update(ctx context.Context, fn func(*badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db == nil {
		return status.ErrNotInitialized
	}
	return s.db.Update(fn)
}

// Packages

func (s *badgerStore) AddPackage(ctx context.Context, p model.Package) error {
	if p.Name == "" {
		return status.ErrNameRequired
	}
	if p.PK == "" {
		p.PK = p.NaturalKey()
	}
	return s.update(ctx, func(txn *badger.Txn) error {
		added, err := setIfAbsent(txn, key(pkgPref, p.PK), p)
		if err != nil || !added {
			return err
		}
		if err := txn.Set(key(pkgNVPref, p.Name, p.Version, p.PK), store.UnsafeStringToBytes(p.PK)); err != nil {
			return err
		}
		_, err = setIfAbsent(txn, key(contentPref, p.PK), p.Content())
		return err
	})
}

func (s *badgerStore) GetPackage(ctx context.Context, pk string) (model.Package, error) {
	var p model.Package
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, key(pkgPref, pk), &p)
	})
	return p, err
}

func (s *badgerStore) FindPackages(ctx context.Context, name, version string) ([]model.Package, error) {
	var result []model.Package
	err := s.view(ctx, func(txn *badger.Txn) error {
		var pks []string
		if err := scan(txn, under(pkgNVPref, name, version), func(v []byte) error {
			pks = append(pks, store.UnsafeBytesToString(v))
			return nil
		}); err != nil {
			return err
		}
		for _, pk := range pks {
			var p model.Package
			if err := getJSON(txn, key(pkgPref, pk), &p); err != nil {
				return err
			}
			result = append(result, p)
		}
		return nil
	})
	return result, err
}

// Content

func (s *badgerStore) AddContent(ctx context.Context, contents []model.Content) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for _, c := range contents {
			if c.PK == "" {
				return status.ErrNameRequired.Wrapf("content of type %s has no pk", c.Type)
			}
			if _, err := setIfAbsent(txn, key(contentPref, c.PK), c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *badgerStore) GetContent(ctx context.Context, pk string) (model.Content, error) {
	var c model.Content
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, key(contentPref, pk), &c)
	})
	return c, err
}

func (s *badgerStore) AddContentArtifacts(ctx context.Context, cas []model.ContentArtifact) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for _, ca := range cas {
			if ca.PK == "" {
				ca.PK = model.NewContentArtifact(ca.ContentPK, ca.RelativePath).PK
			}
			if _, err := setIfAbsent(txn, key(caPref, ca.ContentPK, ca.PK), ca); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *badgerStore) PrefetchContentArtifacts(ctx context.Context, contentPKs, remotePKs []string) (map[string][]store.PrefetchedArtifact, error) {
	remotes := make(map[string]struct{}, len(remotePKs))
	for _, pk := range remotePKs {
		remotes[pk] = struct{}{}
	}

	result := make(map[string][]store.PrefetchedArtifact, len(contentPKs))
	err := s.view(ctx, func(txn *badger.Txn) error {
		for _, contentPK := range contentPKs {
			if _, done := result[contentPK]; done {
				continue
			}
			var cas []store.PrefetchedArtifact
			if err := scan(txn, under(caPref, contentPK), func(v []byte) error {
				var ca model.ContentArtifact
				if err := unmarshal(v, &ca); err != nil {
					return err
				}
				cas = append(cas, store.PrefetchedArtifact{ContentArtifact: ca})
				return nil
			}); err != nil {
				return err
			}

			if len(remotes) > 0 {
				for i := range cas {
					if err := scan(txn, under(raPref, cas[i].PK), func(v []byte) error {
						var ra model.RemoteArtifact
						if err := unmarshal(v, &ra); err != nil {
							return err
						}
						if _, wanted := remotes[ra.RemotePK]; wanted {
							cas[i].RemoteArtifacts = append(cas[i].RemoteArtifacts, ra)
						}
						return nil
					}); err != nil {
						return err
					}
				}
			}
			result[contentPK] = cas
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *badgerStore) BulkCreateRemoteArtifacts(ctx context.Context, ras []model.RemoteArtifact) error {
	if len(ras) == 0 {
		return nil
	}
	return s.update(ctx, func(txn *badger.Txn) error {
		seen := make(map[string]struct{}, len(ras))
		for _, ra := range ras {
			if ra.ContentArtifactPK == "" || ra.RemotePK == "" {
				return status.ErrNameRequired.Wrapf("remote artifact %q lacks its content artifact or remote", ra.URL)
			}
			if ra.PK == "" {
				ra.PK = model.RemoteArtifactPK(ra.ContentArtifactPK, ra.RemotePK)
			}
			k := key(raPref, ra.ContentArtifactPK, ra.RemotePK)
			_, dup := seen[string(k)]
			if !dup {
				exists, err := has(txn, k)
				if err != nil {
					return err
				}
				dup = exists
			}
			if dup {
				return status.ErrConflict.Wrapf("remote artifact for content artifact %s and remote %s", ra.ContentArtifactPK, ra.RemotePK)
			}
			seen[string(k)] = struct{}{}
			if err := setJSON(txn, k, ra); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *badgerStore) ListRemoteArtifacts(ctx context.Context, contentArtifactPK string) ([]model.RemoteArtifact, error) {
	var result []model.RemoteArtifact
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scan(txn, under(raPref, contentArtifactPK), func(v []byte) error {
			var ra model.RemoteArtifact
			if err := unmarshal(v, &ra); err != nil {
				return err
			}
			result = append(result, ra)
			return nil
		})
	})
	return result, err
}

// Modules

func (s *badgerStore) AddModulemds(ctx context.Context, modules []model.Modulemd) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for _, m := range modules {
			if m.PK == "" {
				m.PK = m.NaturalKey()
			}
			if _, err := setIfAbsent(txn, key(mdPref, m.PK), m); err != nil {
				return err
			}
			if _, err := setIfAbsent(txn, key(contentPref, m.PK), m.Content()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *badgerStore) GetModulemd(ctx context.Context, pk string) (model.Modulemd, error) {
	var m model.Modulemd
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, key(mdPref, pk), &m)
	})
	return m, err
}

func (s *badgerStore) AddModulemdDefaults(ctx context.Context, defaults []model.ModulemdDefaults) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for _, d := range defaults {
			if d.PK == "" {
				d.PK = d.NaturalKey()
			}
			// defaults are mutable: the latest document wins
			if err := setJSON(txn, key(mddPref, d.PK), d); err != nil {
				return err
			}
			if _, err := setIfAbsent(txn, key(contentPref, d.PK), d.Content()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *badgerStore) GetModulemdDefaults(ctx context.Context, pk string) (model.ModulemdDefaults, error) {
	var d model.ModulemdDefaults
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, key(mddPref, pk), &d)
	})
	return d, err
}

func (s *badgerStore) AddModulePackages(ctx context.Context, assocs []model.ModulePackage) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for _, a := range assocs {
			if _, err := setIfAbsent(txn, key(mpPref, a.ModulemdPK, a.PackagePK), a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *badgerStore) ModulePackages(ctx context.Context, modulemdPK string) ([]model.Package, error) {
	var result []model.Package
	err := s.view(ctx, func(txn *badger.Txn) error {
		var assocs []model.ModulePackage
		if err := scan(txn, under(mpPref, modulemdPK), func(v []byte) error {
			var a model.ModulePackage
			if err := unmarshal(v, &a); err != nil {
				return err
			}
			assocs = append(assocs, a)
			return nil
		}); err != nil {
			return err
		}
		for _, a := range assocs {
			var p model.Package
			if err := getJSON(txn, key(pkgPref, a.PackagePK), &p); err != nil {
				return err
			}
			result = append(result, p)
		}
		return nil
	})
	return result, err
}

// Advisories

func (s *badgerStore) AddUpdateRecords(ctx context.Context, records []model.UpdateRecord) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for _, u := range records {
			if u.Digest == "" {
				digest, err := u.ComputeDigest()
				if err != nil {
					return err
				}
				u.Digest = digest
			}
			if u.PK == "" {
				u.PK = u.NaturalKey()
			}
			if _, err := setIfAbsent(txn, key(urPref, u.PK), u); err != nil {
				return err
			}
			if _, err := setIfAbsent(txn, key(contentPref, u.PK), u.Content()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *badgerStore) GetUpdateRecord(ctx context.Context, pk string) (model.UpdateRecord, error) {
	var u model.UpdateRecord
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, key(urPref, pk), &u)
	})
	return u, err
}

// Remotes

func (s *badgerStore) AddRemote(ctx context.Context, r model.Remote) error {
	if r.Name == "" {
		return status.ErrNameRequired
	}
	return s.update(ctx, func(txn *badger.Txn) error {
		added, err := setIfAbsent(txn, key(remotePref, r.Name), r)
		if err != nil {
			return err
		}
		if !added {
			return status.ErrConflict.Wrapf("remote %q already exists", r.Name)
		}
		return nil
	})
}

func (s *badgerStore) GetRemote(ctx context.Context, name string) (model.Remote, error) {
	var r model.Remote
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, key(remotePref, name), &r)
	})
	return r, err
}

func (s *badgerStore) ListRemotes(ctx context.Context) ([]model.Remote, error) {
	var result []model.Remote
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scan(txn, remotePref, func(v []byte) error {
			var r model.Remote
			if err := unmarshal(v, &r); err != nil {
				return err
			}
			result = append(result, r)
			return nil
		})
	})
	return result, err
}

// helpers

func key(prefix []byte, parts ...string) []byte {
	size := len(prefix)
	for _, p := range parts {
		size += len(p) + 1
	}
	k := make([]byte, 0, size)
	k = append(k, prefix...)
	for i, p := range parts {
		if i > 0 {
			k = append(k, sep)
		}
		k = append(k, p...)
	}
	return k
}

// under returns the prefix of all children keys of a parent
func under(prefix []byte, parents ...string) []byte {
	return append(key(prefix, parents...), sep)
}

func mapError(err error) error {
	switch err {
	case badger.ErrKeyNotFound:
		return status.ErrNotFound
	case badger.ErrEmptyKey:
		return status.ErrNameRequired
	default:
		return err
	}
}

func unmarshal(data []byte, v interface{}) error {
	if e := jsoniter.Unmarshal(data, v); e != nil {
		return fmt.Errorf("json unmarshal failed: %v", e)
	}
	return nil
}

func getJSON(txn *badger.Txn, k []byte, v interface{}) error {
	item, err := txn.Get(k)
	if err != nil {
		return mapError(err)
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return mapError(err)
	}
	return unmarshal(data, v)
}

func setJSON(txn *badger.Txn, k []byte, v interface{}) error {
	data, err := jsoniter.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(k, data)
}

func has(txn *badger.Txn, k []byte) (bool, error) {
	_, err := txn.Get(k)
	switch err {
	case nil:
		return true, nil
	case badger.ErrKeyNotFound:
		return false, nil
	default:
		return false, err
	}
}

func setIfAbsent(txn *badger.Txn, k []byte, v interface{}) (bool, error) {
	exists, err := has(txn, k)
	if err != nil || exists {
		return false, err
	}
	return true, setJSON(txn, k, v)
}

func scan(txn *badger.Txn, prefix []byte, fn func(value []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		v, err := it.Item().ValueCopy(nil)
		if err != nil {
			return mapError(err)
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}
