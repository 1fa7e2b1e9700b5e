package bdgr

import (
	"context"
	"testing"

	"github.com/oneconcern/rpmsync/pkg/errors"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/store"
	"github.com/oneconcern/rpmsync/pkg/store/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) store.Store {
	st := New(t.TempDir())
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testPackage(name, version, release, arch string) model.Package {
	p := model.Package{
		Name:         name,
		Epoch:        "0",
		Version:      version,
		Release:      release,
		Arch:         arch,
		PkgID:        "abc" + name + version + release + arch,
		ChecksumType: model.ChecksumSHA256,
	}
	p.PK = p.NaturalKey()
	return p
}

func TestStoreNotInitialized(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.GetPackage(context.Background(), "x")
	require.True(t, errors.Is(err, status.ErrNotInitialized))
}

func TestInMemoryStore(t *testing.T) {
	st := New("", InMemory(true))
	require.NoError(t, st.Initialize())
	defer st.Close()

	require.Equal(t, "badger(in-memory)", st.String())
	p := testPackage("foo", "1.0", "1.el8", "x86_64")
	require.NoError(t, st.AddPackage(context.Background(), p))

	found, err := st.GetPackage(context.Background(), p.PK)
	require.NoError(t, err)
	require.Equal(t, p, found)
}

func TestPackages(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	pkgs := []model.Package{
		testPackage("foo", "1.0", "1.el8", "x86_64"),
		testPackage("foo", "1.0", "2.el8", "noarch"),
		testPackage("foo", "1.1", "1.el8", "x86_64"),
		testPackage("foobar", "1.0", "1.el8", "x86_64"),
	}
	for _, p := range pkgs {
		require.NoError(t, st.AddPackage(ctx, p))
	}
	// idempotent
	require.NoError(t, st.AddPackage(ctx, pkgs[0]))

	found, err := st.FindPackages(ctx, "foo", "1.0")
	require.NoError(t, err)
	assert.ElementsMatch(t, pkgs[:2], found)

	found, err = st.FindPackages(ctx, "foo", "2.0")
	require.NoError(t, err)
	assert.Empty(t, found)

	c, err := st.GetContent(ctx, pkgs[3].PK)
	require.NoError(t, err)
	assert.Equal(t, model.TypePackage, c.Type)

	_, err = st.GetPackage(ctx, "missing")
	require.True(t, errors.Is(err, status.ErrNotFound))

	require.True(t, errors.Is(st.AddPackage(ctx, model.Package{}), status.ErrNameRequired))
}

func TestRemotes(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	r := model.NewRemote("fedora", "https://example.com/fedora/", "")
	require.NoError(t, st.AddRemote(ctx, r))

	err := st.AddRemote(ctx, model.NewRemote("fedora", "https://example.com/other/", ""))
	require.True(t, errors.Is(err, status.ErrConflict))

	got, err := st.GetRemote(ctx, "fedora")
	require.NoError(t, err)
	require.Equal(t, r, got)

	require.NoError(t, st.AddRemote(ctx, model.NewRemote("centos", "https://example.com/centos/", model.PolicyOnDemand)))
	all, err := st.ListRemotes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "centos", all[0].Name)
}

func TestModules(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	md := model.Modulemd{
		Name:         "nodejs",
		Stream:       "10",
		Version:      "20180920144631",
		Context:      "6c81f848",
		Arch:         "x86_64",
		Artifacts:    `["nodejs-1:10.11.0-1.module_2200+adbac02b.x86_64"]`,
		Dependencies: `{"platform":["f29"]}`,
	}
	md.PK = md.NaturalKey()
	require.NoError(t, st.AddModulemds(ctx, []model.Modulemd{md, md}))

	got, err := st.GetModulemd(ctx, md.PK)
	require.NoError(t, err)
	require.Equal(t, md, got)

	d := model.ModulemdDefaults{Module: "nodejs", Stream: "10", Profiles: `{"10":["default"]}`}
	require.NoError(t, st.AddModulemdDefaults(ctx, []model.ModulemdDefaults{d}))
	d.Profiles = `{"10":["minimal"]}`
	require.NoError(t, st.AddModulemdDefaults(ctx, []model.ModulemdDefaults{d}))

	gotDefaults, err := st.GetModulemdDefaults(ctx, d.NaturalKey())
	require.NoError(t, err)
	assert.Equal(t, `{"10":["minimal"]}`, gotDefaults.Profiles)

	p1 := testPackage("nodejs", "10.11.0", "1.module_2200+adbac02b", "x86_64")
	p2 := testPackage("nodejs", "10.11.0", "1.module_2200+adbac02b", "src")
	require.NoError(t, st.AddPackage(ctx, p1))
	require.NoError(t, st.AddPackage(ctx, p2))

	assocs := []model.ModulePackage{
		{ModulemdPK: md.PK, PackagePK: p1.PK},
		{ModulemdPK: md.PK, PackagePK: p2.PK},
	}
	require.NoError(t, st.AddModulePackages(ctx, assocs))
	require.NoError(t, st.AddModulePackages(ctx, assocs[:1]))

	pkgs, err := st.ModulePackages(ctx, md.PK)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.Package{p1, p2}, pkgs)
}

func TestPrefetchFiltersRemotes(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	r1 := model.NewRemote("r1", "https://one.example.com/", "")
	r2 := model.NewRemote("r2", "https://two.example.com/", "")

	p := testPackage("foo", "1.0", "1.el8", "x86_64")
	require.NoError(t, st.AddPackage(ctx, p))
	ca := model.NewContentArtifact(p.PK, p.Filename())
	require.NoError(t, st.AddContentArtifacts(ctx, []model.ContentArtifact{ca, ca}))

	d1 := &model.DeclaredArtifact{URL: r1.URL + p.Filename(), RelativePath: p.Filename(), Remote: &r1}
	d2 := &model.DeclaredArtifact{URL: r2.URL + p.Filename(), RelativePath: p.Filename(), Remote: &r2}
	require.NoError(t, st.BulkCreateRemoteArtifacts(ctx, []model.RemoteArtifact{
		d1.NewRemoteArtifact(ca),
		d2.NewRemoteArtifact(ca),
	}))

	prefetched, err := st.PrefetchContentArtifacts(ctx, []string{p.PK, "unknown"}, []string{r1.PK})
	require.NoError(t, err)
	require.Len(t, prefetched[p.PK], 1)
	require.Empty(t, prefetched["unknown"])

	got := prefetched[p.PK][0]
	assert.Equal(t, ca, got.ContentArtifact)
	require.Len(t, got.RemoteArtifacts, 1)
	assert.True(t, got.HasRemote(r1.PK))
	assert.False(t, got.HasRemote(r2.PK))

	prefetched, err = st.PrefetchContentArtifacts(ctx, []string{p.PK}, nil)
	require.NoError(t, err)
	require.Len(t, prefetched[p.PK], 1)
	assert.Empty(t, prefetched[p.PK][0].RemoteArtifacts)

	all, err := st.ListRemoteArtifacts(ctx, ca.PK)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBulkCreateConflict(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	r := model.NewRemote("r", "https://example.com/", "")
	a := model.NewContentArtifact("content-a", "a.rpm")
	b := model.NewContentArtifact("content-b", "b.rpm")
	da := &model.DeclaredArtifact{URL: "https://example.com/a.rpm", RelativePath: "a.rpm", Remote: &r}
	db := &model.DeclaredArtifact{URL: "https://example.com/b.rpm", RelativePath: "b.rpm", Remote: &r}

	require.NoError(t, st.BulkCreateRemoteArtifacts(ctx, []model.RemoteArtifact{da.NewRemoteArtifact(a)}))

	// a conflicting pair rejects the whole batch
	err := st.BulkCreateRemoteArtifacts(ctx, []model.RemoteArtifact{db.NewRemoteArtifact(b), da.NewRemoteArtifact(a)})
	require.True(t, errors.Is(err, status.ErrConflict))
	got, err := st.ListRemoteArtifacts(ctx, b.PK)
	require.NoError(t, err)
	assert.Empty(t, got)

	// duplicates within a batch conflict too
	err = st.BulkCreateRemoteArtifacts(ctx, []model.RemoteArtifact{db.NewRemoteArtifact(b), db.NewRemoteArtifact(b)})
	require.True(t, errors.Is(err, status.ErrConflict))

	require.NoError(t, st.BulkCreateRemoteArtifacts(ctx, nil))
}

func TestUpdateRecords(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	u := model.UpdateRecord{
		ID:          "FEDORA-2019-0001",
		UpdatedDate: "2019-05-14 00:00:00",
		Type:        "bugfix",
		Collections: []model.UpdateCollection{{
			Name: "fedora-30",
			Packages: []model.UpdateCollectionPackage{
				{Name: "bash", Version: "5.0.7", Release: "1.fc30", Arch: "x86_64"},
			},
		}},
		References: []model.UpdateReference{{Href: "https://bugzilla.redhat.com/show_bug.cgi?id=2", RefType: "bugzilla"}},
	}

	// the digest and key are derived when missing
	require.NoError(t, st.AddUpdateRecords(ctx, []model.UpdateRecord{u}))
	require.NoError(t, u.Identify())
	found, err := st.GetUpdateRecord(ctx, u.PK)
	require.NoError(t, err)
	assert.Equal(t, u, found)

	// same id, other content: another record
	changed := u
	changed.UpdatedDate = "2019-06-01 00:00:00"
	changed.PK, changed.Digest = "", ""
	require.NoError(t, changed.Identify())
	require.NotEqual(t, u.PK, changed.PK)
	require.NoError(t, st.AddUpdateRecords(ctx, []model.UpdateRecord{changed, u}))

	c, err := st.GetContent(ctx, changed.PK)
	require.NoError(t, err)
	assert.Equal(t, model.TypeAdvisory, c.Type)

	_, err = st.GetUpdateRecord(ctx, "missing")
	require.True(t, errors.Is(err, status.ErrNotFound))
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	p := testPackage("foo", "1.0", "1.el8", "x86_64")

	st := New(dir, SyncWrites(true))
	require.NoError(t, st.Initialize())
	require.NoError(t, st.AddPackage(ctx, p))
	require.NoError(t, st.Close())

	st = New(dir)
	require.NoError(t, st.Initialize())
	defer st.Close()
	got, err := st.GetPackage(ctx, p.PK)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []byte("ca:a\x00b"), key(caPref, "a", "b"))
	assert.Equal(t, []byte("ca:a\x00"), under(caPref, "a"))
	assert.Equal(t, []byte("remote:"), key(remotePref))
}
