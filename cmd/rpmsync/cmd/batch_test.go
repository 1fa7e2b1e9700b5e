package cmd

import (
	"context"
	"testing"

	"github.com/oneconcern/rpmsync/pkg/core"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/stages"
	"github.com/oneconcern/rpmsync/pkg/store/bdgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdvisoryBatch = `content:
  - type: rpm.advisory
    advisory:
      id: RHSA-2019:1234
      updated_date: "2019-05-14 00:00:00"
      type: security
      severity: Important
      collections:
        - name: rhel-8
          shortname: rhel-8-x86_64
          packages:
            - {name: bash, version: 4.4.19, release: 8.el8, arch: x86_64, reboot_suggested: true}
      references:
        - {href: "https://bugzilla.redhat.com/show_bug.cgi?id=1", ref_id: "1", ref_type: bugzilla}
    artifacts:
      - relative_path: repodata/updateinfo.xml
`

func TestDecodeBatchAdvisory(t *testing.T) {
	ctx := context.Background()
	st := bdgr.New("", bdgr.InMemory(true))
	require.NoError(t, st.Initialize())
	defer st.Close()

	batch, err := decodeBatch(ctx, st, []byte(testAdvisoryBatch))
	require.NoError(t, err)
	require.Len(t, batch, 1)
	d := batch[0]
	require.NotNil(t, d.Advisory)
	assert.Equal(t, model.TypeAdvisory, d.Content.Type)
	assert.Equal(t, d.Advisory.PK, d.Content.PK)
	assert.NotEmpty(t, d.Advisory.Digest)

	// the same advisory decodes to the same key
	again, err := decodeBatch(ctx, st, []byte(testAdvisoryBatch))
	require.NoError(t, err)
	assert.Equal(t, d.Content.PK, again[0].Content.PK)

	require.NoError(t, stages.Pipeline(ctx, stages.FromSlice(batch), core.NewContentSaver(st)))

	u, err := st.GetUpdateRecord(ctx, d.Content.PK)
	require.NoError(t, err)
	assert.Equal(t, "RHSA-2019:1234", u.ID)
	require.Len(t, u.Collections, 1)
	require.Len(t, u.Collections[0].Packages, 1)
	assert.True(t, u.Collections[0].Packages[0].RebootSuggested)
	require.Len(t, u.References, 1)
	assert.Equal(t, "bugzilla", u.References[0].RefType)

	prefetched, err := st.PrefetchContentArtifacts(ctx, []string{d.Content.PK}, nil)
	require.NoError(t, err)
	require.Len(t, prefetched[d.Content.PK], 1)
	assert.Equal(t, "repodata/updateinfo.xml", prefetched[d.Content.PK][0].RelativePath)
}

func TestDecodeBatchAdvisoryErrors(t *testing.T) {
	ctx := context.Background()
	st := bdgr.New("", bdgr.InMemory(true))
	require.NoError(t, st.Initialize())
	defer st.Close()

	_, err := decodeBatch(ctx, st, []byte("content:\n  - type: rpm.advisory\n    artifacts: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an update record")

	_, err = decodeBatch(ctx, st, []byte("content:\n  - type: rpm.package\n    advisory: {id: X, updated_date: now}\n    artifacts: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update record on rpm.package content")

	_, err = decodeBatch(ctx, st, []byte("content:\n  - type: rpm.advisory\n    advisory: {updated_date: now}\n    artifacts: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "advisory id is required")

	// update records are decoded strictly
	_, err = decodeBatch(ctx, st, []byte("content:\n  - type: rpm.advisory\n    advisory: {id: X, errata_from: me}\n    artifacts: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "errata_from")
}
