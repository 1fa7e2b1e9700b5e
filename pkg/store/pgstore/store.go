// Package pgstore implements the rpmsync store on PostgreSQL.
//
// Uniqueness constraints are enforced by the database. Unique violations are
// reported as status.ErrConflict.
package pgstore

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/oneconcern/rpmsync/pkg/errors"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/store"
	"github.com/oneconcern/rpmsync/pkg/store/status"
	"go.uber.org/zap"
)

const uniqueViolation = pq.ErrorCode("23505")

var _ store.Store = &pgStore{}

// New creates a PostgreSQL store for this connection string
func New(dsn string, opts ...Option) store.Store {
	s := &pgStore{
		dsn:          dsn,
		l:            zap.NewNop(),
		maxOpenConns: 10,
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

type pgStore struct {
	dsn          string
	schema       string
	maxOpenConns int
	l            *zap.Logger

	db    *sql.DB
	init  sync.Once
	close sync.Once
}

func (s *pgStore) String() string {
	if s.schema != "" {
		return "postgres(" + s.schema + ")"
	}
	return "postgres"
}

func (s *pgStore) Initialize() error {
	var err error
	s.init.Do(func() {
		var db *sql.DB
		db, err = sql.Open("postgres", s.dsn)
		if err != nil {
			return
		}
		db.SetMaxOpenConns(s.maxOpenConns)

		ctx := context.Background()
		if err = db.PingContext(ctx); err != nil {
			_ = db.Close()
			return
		}
		if s.schema != "" {
			if _, err = db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(s.schema)); err != nil {
				_ = db.Close()
				return
			}
		}
		for _, stmt := range schemaStatements {
			if _, err = db.ExecContext(ctx, s.q(stmt)); err != nil {
				_ = db.Close()
				return
			}
		}
		s.db = db
		s.l.Debug("opened postgres store", zap.Stringer("store", s))
	})
	return err
}

func (s *pgStore) Close() error {
	var err error
	s.close.Do(func() {
		if s.db != nil {
			err = s.db.Close()
			s.db = nil
		}
	})
	return err
}

// q qualifies the tables of a query with the schema
func (s *pgStore) q(query string) string {
	if s.schema == "" {
		return strings.ReplaceAll(query, "{schema}.", "")
	}
	return strings.ReplaceAll(query, "{schema}.", pq.QuoteIdentifier(s.schema)+".")
}

func (s *pgStore) conn(ctx context.Context) (*sql.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.db == nil {
		return nil, status.ErrNotInitialized
	}
	return s.db, nil
}

func (s *pgStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.l.Warn("rollback failed", zap.Error(rbErr))
		}
		return mapError(err)
	}
	return mapError(tx.Commit())
}

// Packages

func (s *pgStore) AddPackage(ctx context.Context, p model.Package) error {
	if p.Name == "" {
		return status.ErrNameRequired
	}
	if p.PK == "" {
		p.PK = p.NaturalKey()
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO {schema}.packages (pk, name, epoch, version, release, arch, pkg_id,
				checksum_type, summary, location_base, location_href, modular)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (pk) DO NOTHING`),
			p.PK, p.Name, p.Epoch, p.Version, p.Release, p.Arch, p.PkgID,
			p.ChecksumType, p.Summary, p.LocationBase, p.LocationHref, p.Modular,
		); err != nil {
			return err
		}
		return s.insertContent(ctx, tx, p.Content())
	})
}

const packageColumns = `pk, name, epoch, version, release, arch, pkg_id, checksum_type, summary, location_base, location_href, modular`

func scanPackage(row interface{ Scan(...interface{}) error }) (model.Package, error) {
	var p model.Package
	err := row.Scan(&p.PK, &p.Name, &p.Epoch, &p.Version, &p.Release, &p.Arch, &p.PkgID,
		&p.ChecksumType, &p.Summary, &p.LocationBase, &p.LocationHref, &p.Modular)
	return p, err
}

func (s *pgStore) GetPackage(ctx context.Context, pk string) (model.Package, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return model.Package{}, err
	}
	p, err := scanPackage(db.QueryRowContext(ctx, s.q(`SELECT `+packageColumns+` FROM {schema}.packages WHERE pk = $1`), pk))
	return p, mapError(err)
}

func (s *pgStore) FindPackages(ctx context.Context, name, version string) ([]model.Package, error) {
	return s.queryPackages(ctx, s.q(`SELECT `+packageColumns+` FROM {schema}.packages
		WHERE name = $1 AND version = $2 ORDER BY pk`), name, version)
}

func (s *pgStore) queryPackages(ctx context.Context, query string, args ...interface{}) ([]model.Package, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, mapError(err)
		}
		result = append(result, p)
	}
	return result, mapError(rows.Err())
}

// Content

func (s *pgStore) insertContent(ctx context.Context, tx *sql.Tx, c model.Content) error {
	_, err := tx.ExecContext(ctx, s.q(`
		INSERT INTO {schema}.content (pk, type, data_type) VALUES ($1, $2, $3)
		ON CONFLICT (pk) DO NOTHING`), c.PK, c.Type, c.DataType)
	return err
}

func (s *pgStore) AddContent(ctx context.Context, contents []model.Content) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range contents {
			if c.PK == "" {
				return status.ErrNameRequired.Wrapf("content of type %s has no pk", c.Type)
			}
			if err := s.insertContent(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *pgStore) GetContent(ctx context.Context, pk string) (model.Content, error) {
	var c model.Content
	db, err := s.conn(ctx)
	if err != nil {
		return c, err
	}
	err = db.QueryRowContext(ctx, s.q(`SELECT pk, type, data_type FROM {schema}.content WHERE pk = $1`), pk).
		Scan(&c.PK, &c.Type, &c.DataType)
	return c, mapError(err)
}

func (s *pgStore) AddContentArtifacts(ctx context.Context, cas []model.ContentArtifact) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, ca := range cas {
			if ca.PK == "" {
				ca.PK = model.NewContentArtifact(ca.ContentPK, ca.RelativePath).PK
			}
			if _, err := tx.ExecContext(ctx, s.q(`
				INSERT INTO {schema}.content_artifacts (pk, content_pk, relative_path, artifact_digest)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT DO NOTHING`),
				ca.PK, ca.ContentPK, ca.RelativePath, ca.ArtifactDigest,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrefetchContentArtifacts runs exactly two queries: content artifacts of the
// content, then their remote artifacts restricted to the remotes.
func (s *pgStore) PrefetchContentArtifacts(ctx context.Context, contentPKs, remotePKs []string) (map[string][]store.PrefetchedArtifact, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string][]store.PrefetchedArtifact, len(contentPKs))
	if len(contentPKs) == 0 {
		return result, nil
	}

	rows, err := db.QueryContext(ctx, s.q(`
		SELECT pk, content_pk, relative_path, artifact_digest FROM {schema}.content_artifacts
		WHERE content_pk = ANY($1) ORDER BY pk`), pq.Array(contentPKs))
	if err != nil {
		return nil, mapError(err)
	}
	type position struct {
		contentPK string
		i         int
	}
	positions := make(map[string]position)
	var caPKs []string
	for rows.Next() {
		var ca model.ContentArtifact
		if err := rows.Scan(&ca.PK, &ca.ContentPK, &ca.RelativePath, &ca.ArtifactDigest); err != nil {
			rows.Close()
			return nil, mapError(err)
		}
		positions[ca.PK] = position{contentPK: ca.ContentPK, i: len(result[ca.ContentPK])}
		result[ca.ContentPK] = append(result[ca.ContentPK], store.PrefetchedArtifact{ContentArtifact: ca})
		caPKs = append(caPKs, ca.PK)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	if len(caPKs) == 0 || len(remotePKs) == 0 {
		return result, nil
	}

	ras, err := s.queryRemoteArtifacts(ctx, db, s.q(`
		SELECT pk, content_artifact_pk, remote_pk, url, size, digests FROM {schema}.remote_artifacts
		WHERE content_artifact_pk = ANY($1) AND remote_pk = ANY($2)`),
		pq.Array(caPKs), pq.Array(remotePKs))
	if err != nil {
		return nil, err
	}
	for _, ra := range ras {
		pos, ok := positions[ra.ContentArtifactPK]
		if !ok {
			continue
		}
		prefetched := &result[pos.contentPK][pos.i]
		prefetched.RemoteArtifacts = append(prefetched.RemoteArtifacts, ra)
	}
	return result, nil
}

func (s *pgStore) queryRemoteArtifacts(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]model.RemoteArtifact, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.RemoteArtifact
	for rows.Next() {
		var (
			ra      model.RemoteArtifact
			digests string
		)
		if err := rows.Scan(&ra.PK, &ra.ContentArtifactPK, &ra.RemotePK, &ra.URL, &ra.Size, &digests); err != nil {
			return nil, mapError(err)
		}
		if err := jsoniter.UnmarshalFromString(digests, &ra.Digests); err != nil {
			return nil, err
		}
		result = append(result, ra)
	}
	return result, mapError(rows.Err())
}

// BulkCreateRemoteArtifacts streams the rows with COPY in a single transaction
func (s *pgStore) BulkCreateRemoteArtifacts(ctx context.Context, ras []model.RemoteArtifact) error {
	if len(ras) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		columns := []string{"pk", "content_artifact_pk", "remote_pk", "url", "size", "digests"}
		copyIn := pq.CopyIn("remote_artifacts", columns...)
		if s.schema != "" {
			copyIn = pq.CopyInSchema(s.schema, "remote_artifacts", columns...)
		}
		stmt, err := tx.PrepareContext(ctx, copyIn)
		if err != nil {
			return err
		}
		for _, ra := range ras {
			if ra.ContentArtifactPK == "" || ra.RemotePK == "" {
				_ = stmt.Close()
				return status.ErrNameRequired.Wrapf("remote artifact %q lacks its content artifact or remote", ra.URL)
			}
			if ra.PK == "" {
				ra.PK = model.RemoteArtifactPK(ra.ContentArtifactPK, ra.RemotePK)
			}
			digests, err := jsoniter.MarshalToString(ra.Digests)
			if err != nil {
				_ = stmt.Close()
				return err
			}
			if _, err := stmt.ExecContext(ctx, ra.PK, ra.ContentArtifactPK, ra.RemotePK, ra.URL, ra.Size, digests); err != nil {
				_ = stmt.Close()
				return err
			}
		}
		// flush
		if _, err := stmt.ExecContext(ctx); err != nil {
			_ = stmt.Close()
			return err
		}
		return stmt.Close()
	})
}

func (s *pgStore) ListRemoteArtifacts(ctx context.Context, contentArtifactPK string) ([]model.RemoteArtifact, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	return s.queryRemoteArtifacts(ctx, db, s.q(`
		SELECT pk, content_artifact_pk, remote_pk, url, size, digests FROM {schema}.remote_artifacts
		WHERE content_artifact_pk = $1 ORDER BY remote_pk`), contentArtifactPK)
}

// Modules

func (s *pgStore) AddModulemds(ctx context.Context, modules []model.Modulemd) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, m := range modules {
			if m.PK == "" {
				m.PK = m.NaturalKey()
			}
			if _, err := tx.ExecContext(ctx, s.q(`
				INSERT INTO {schema}.modulemds (pk, name, stream, version, context, arch, dependencies, artifacts)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (pk) DO NOTHING`),
				m.PK, m.Name, m.Stream, m.Version, m.Context, m.Arch, m.Dependencies, m.Artifacts,
			); err != nil {
				return err
			}
			if err := s.insertContent(ctx, tx, m.Content()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *pgStore) GetModulemd(ctx context.Context, pk string) (model.Modulemd, error) {
	var m model.Modulemd
	db, err := s.conn(ctx)
	if err != nil {
		return m, err
	}
	err = db.QueryRowContext(ctx, s.q(`
		SELECT pk, name, stream, version, context, arch, dependencies, artifacts
		FROM {schema}.modulemds WHERE pk = $1`), pk).
		Scan(&m.PK, &m.Name, &m.Stream, &m.Version, &m.Context, &m.Arch, &m.Dependencies, &m.Artifacts)
	return m, mapError(err)
}

func (s *pgStore) AddModulemdDefaults(ctx context.Context, defaults []model.ModulemdDefaults) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, d := range defaults {
			if d.PK == "" {
				d.PK = d.NaturalKey()
			}
			if _, err := tx.ExecContext(ctx, s.q(`
				INSERT INTO {schema}.modulemd_defaults (pk, module, stream, profiles)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (pk) DO UPDATE SET profiles = EXCLUDED.profiles`),
				d.PK, d.Module, d.Stream, d.Profiles,
			); err != nil {
				return err
			}
			if err := s.insertContent(ctx, tx, d.Content()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *pgStore) GetModulemdDefaults(ctx context.Context, pk string) (model.ModulemdDefaults, error) {
	var d model.ModulemdDefaults
	db, err := s.conn(ctx)
	if err != nil {
		return d, err
	}
	err = db.QueryRowContext(ctx, s.q(`
		SELECT pk, module, stream, profiles FROM {schema}.modulemd_defaults WHERE pk = $1`), pk).
		Scan(&d.PK, &d.Module, &d.Stream, &d.Profiles)
	return d, mapError(err)
}

func (s *pgStore) AddModulePackages(ctx context.Context, assocs []model.ModulePackage) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range assocs {
			if _, err := tx.ExecContext(ctx, s.q(`
				INSERT INTO {schema}.modulemd_packages (modulemd_pk, package_pk) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`), a.ModulemdPK, a.PackagePK); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *pgStore) ModulePackages(ctx context.Context, modulemdPK string) ([]model.Package, error) {
	return s.queryPackages(ctx, s.q(`
		SELECT p.pk, p.name, p.epoch, p.version, p.release, p.arch, p.pkg_id, p.checksum_type,
			p.summary, p.location_base, p.location_href, p.modular
		FROM {schema}.packages p JOIN {schema}.modulemd_packages mp ON mp.package_pk = p.pk
		WHERE mp.modulemd_pk = $1 ORDER BY p.pk`), modulemdPK)
}

// Advisories

func (s *pgStore) AddUpdateRecords(ctx context.Context, records []model.UpdateRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
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
			res, err := tx.ExecContext(ctx, s.q(`
				INSERT INTO {schema}.update_records (pk, digest, id, updated_date, description, issued_date,
					fromstr, status, title, summary, version, type, severity, solution, release, rights, pushcount)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
				ON CONFLICT (pk) DO NOTHING`),
				u.PK, u.Digest, u.ID, u.UpdatedDate, u.Description, u.IssuedDate,
				u.FromStr, u.Status, u.Title, u.Summary, u.Version, u.Type, u.Severity, u.Solution,
				u.Release, u.Rights, u.PushCount,
			)
			if err != nil {
				return err
			}
			inserted, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if inserted == 0 {
				// known digest: collections and references are already there
				continue
			}
			if err := s.insertUpdateChildren(ctx, tx, u); err != nil {
				return err
			}
			if err := s.insertContent(ctx, tx, u.Content()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *pgStore) insertUpdateChildren(ctx context.Context, tx *sql.Tx, u model.UpdateRecord) error {
	for i, c := range u.Collections {
		if _, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO {schema}.update_collections (update_record_pk, position, name, shortname)
			VALUES ($1, $2, $3, $4)`), u.PK, i, c.Name, c.ShortName); err != nil {
			return err
		}
		for j, p := range c.Packages {
			epoch := p.Epoch
			if epoch == "" {
				epoch = "0"
			}
			if _, err := tx.ExecContext(ctx, s.q(`
				INSERT INTO {schema}.update_collection_packages (update_record_pk, collection_position, position,
					name, epoch, version, release, arch, filename, sum, sum_type, src, reboot_suggested)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`),
				u.PK, i, j, p.Name, epoch, p.Version, p.Release, p.Arch, p.Filename, p.Sum, p.SumType, p.Src, p.RebootSuggested,
			); err != nil {
				return err
			}
		}
	}
	for i, r := range u.References {
		if _, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO {schema}.update_references (update_record_pk, position, href, ref_id, title, ref_type)
			VALUES ($1, $2, $3, $4, $5, $6)`), u.PK, i, r.Href, r.RefID, r.Title, r.RefType); err != nil {
			return err
		}
	}
	return nil
}

func (s *pgStore) GetUpdateRecord(ctx context.Context, pk string) (model.UpdateRecord, error) {
	var u model.UpdateRecord
	db, err := s.conn(ctx)
	if err != nil {
		return u, err
	}
	err = db.QueryRowContext(ctx, s.q(`
		SELECT pk, digest, id, updated_date, description, issued_date, fromstr, status, title, summary,
			version, type, severity, solution, release, rights, pushcount
		FROM {schema}.update_records WHERE pk = $1`), pk).
		Scan(&u.PK, &u.Digest, &u.ID, &u.UpdatedDate, &u.Description, &u.IssuedDate, &u.FromStr, &u.Status,
			&u.Title, &u.Summary, &u.Version, &u.Type, &u.Severity, &u.Solution, &u.Release, &u.Rights, &u.PushCount)
	if err != nil {
		return u, mapError(err)
	}

	rows, err := db.QueryContext(ctx, s.q(`
		SELECT name, shortname FROM {schema}.update_collections
		WHERE update_record_pk = $1 ORDER BY position`), pk)
	if err != nil {
		return u, mapError(err)
	}
	for rows.Next() {
		var c model.UpdateCollection
		if err := rows.Scan(&c.Name, &c.ShortName); err != nil {
			rows.Close()
			return u, mapError(err)
		}
		u.Collections = append(u.Collections, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return u, mapError(err)
	}

	rows, err = db.QueryContext(ctx, s.q(`
		SELECT collection_position, name, epoch, version, release, arch, filename, sum, sum_type, src, reboot_suggested
		FROM {schema}.update_collection_packages
		WHERE update_record_pk = $1 ORDER BY collection_position, position`), pk)
	if err != nil {
		return u, mapError(err)
	}
	for rows.Next() {
		var (
			i int
			p model.UpdateCollectionPackage
		)
		if err := rows.Scan(&i, &p.Name, &p.Epoch, &p.Version, &p.Release, &p.Arch, &p.Filename,
			&p.Sum, &p.SumType, &p.Src, &p.RebootSuggested); err != nil {
			rows.Close()
			return u, mapError(err)
		}
		if i < 0 || i >= len(u.Collections) {
			continue
		}
		u.Collections[i].Packages = append(u.Collections[i].Packages, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return u, mapError(err)
	}

	rows, err = db.QueryContext(ctx, s.q(`
		SELECT href, ref_id, title, ref_type FROM {schema}.update_references
		WHERE update_record_pk = $1 ORDER BY position`), pk)
	if err != nil {
		return u, mapError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var r model.UpdateReference
		if err := rows.Scan(&r.Href, &r.RefID, &r.Title, &r.RefType); err != nil {
			return u, mapError(err)
		}
		u.References = append(u.References, r)
	}
	return u, mapError(rows.Err())
}

// Remotes

func (s *pgStore) AddRemote(ctx context.Context, r model.Remote) error {
	if r.Name == "" {
		return status.ErrNameRequired
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, s.q(`
		INSERT INTO {schema}.remotes (pk, name, type, url, policy) VALUES ($1, $2, $3, $4, $5)`),
		r.PK, r.Name, r.Type, r.URL, r.Policy)
	return mapError(err)
}

func (s *pgStore) GetRemote(ctx context.Context, name string) (model.Remote, error) {
	var r model.Remote
	db, err := s.conn(ctx)
	if err != nil {
		return r, err
	}
	err = db.QueryRowContext(ctx, s.q(`SELECT pk, name, type, url, policy FROM {schema}.remotes WHERE name = $1`), name).
		Scan(&r.PK, &r.Name, &r.Type, &r.URL, &r.Policy)
	return r, mapError(err)
}

func (s *pgStore) ListRemotes(ctx context.Context) ([]model.Remote, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, s.q(`SELECT pk, name, type, url, policy FROM {schema}.remotes ORDER BY name`))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Remote
	for rows.Next() {
		var r model.Remote
		if err := rows.Scan(&r.PK, &r.Name, &r.Type, &r.URL, &r.Policy); err != nil {
			return nil, mapError(err)
		}
		result = append(result, r)
	}
	return result, mapError(rows.Err())
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var mapped *errors.Error
	if errors.As(err, &mapped) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return status.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return status.ErrConflict.Wrap(err)
	}
	return err
}
