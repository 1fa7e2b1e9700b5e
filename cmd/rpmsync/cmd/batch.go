package cmd

import (
	"context"
	"fmt"

	"github.com/oneconcern/rpmsync/pkg/errors"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/store"
	"github.com/oneconcern/rpmsync/pkg/store/status"
	"gopkg.in/yaml.v2"
)

// batchFile is a batch of declarative content, as produced by parsing
// repository metadata. Remotes are referred to by name.
//
//	content:
//	  - type: rpm.repo_metadata_file
//	    data_type: productid
//	    artifacts:
//	      - relative_path: repodata/productid
//	        url: https://cdn.example.com/repo/repodata/productid
//	        remote: rhel
//	        size: 2048
//	        digests:
//	          sha256: 0f1e...
//	  - type: rpm.advisory
//	    advisory:
//	      id: RHSA-2019:1234
//	      updated_date: "2019-05-14 00:00:00"
//	      collections:
//	        - name: rhel-8
//	          packages:
//	            - {name: bash, version: 4.4.19, release: 8.el8, arch: x86_64}
//	    artifacts:
//	      - relative_path: repodata/updateinfo.xml
//
// Advisories are keyed on the digest of their update record.
type batchFile struct {
	Content []batchContent `yaml:"content"`
}

type batchContent struct {
	// PK of known content. When empty, a key is derived from the content
	// type and its first declared artifact.
	PK        string          `yaml:"pk,omitempty"`
	Type      string          `yaml:"type"`
	DataType  string          `yaml:"data_type,omitempty"`
	Artifacts []batchArtifact `yaml:"artifacts"`

	// Advisory is required for, and only allowed on, rpm.advisory content
	Advisory *model.UpdateRecord `yaml:"advisory,omitempty"`
}

type batchArtifact struct {
	RelativePath string        `yaml:"relative_path"`
	URL          string        `yaml:"url"`
	Remote       string        `yaml:"remote,omitempty"`
	Size         int64         `yaml:"size,omitempty"`
	Digests      model.Digests `yaml:"digests,omitempty"`
}

// remoteGetter finds remotes by name
type remoteGetter interface {
	GetRemote(ctx context.Context, name string) (model.Remote, error)
}

var _ remoteGetter = store.Store(nil)

// decodeBatch reads a batch file and resolves the remotes it refers to
func decodeBatch(ctx context.Context, remotes remoteGetter, b []byte) ([]*model.DeclarativeContent, error) {
	var bf batchFile
	if err := yaml.UnmarshalStrict(b, &bf); err != nil {
		return nil, fmt.Errorf("decoding batch: %w", err)
	}

	known := make(map[string]*model.Remote)
	remote := func(name string) (*model.Remote, error) {
		if name == "" {
			return nil, nil
		}
		if r, ok := known[name]; ok {
			return r, nil
		}
		r, err := remotes.GetRemote(ctx, name)
		if err != nil {
			if errors.Is(err, status.ErrNotFound) {
				return nil, fmt.Errorf("unknown remote %q", name)
			}
			return nil, err
		}
		known[name] = &r
		return &r, nil
	}

	batch := make([]*model.DeclarativeContent, 0, len(bf.Content))
	for i, bc := range bf.Content {
		if bc.Type == "" {
			return nil, fmt.Errorf("content #%d: type is required", i)
		}
		d := &model.DeclarativeContent{
			Content: model.Content{
				PK:       bc.PK,
				Type:     bc.Type,
				DataType: bc.DataType,
			},
		}
		for j, ba := range bc.Artifacts {
			if ba.RelativePath == "" {
				return nil, fmt.Errorf("content #%d, artifact #%d: relative path is required", i, j)
			}
			r, err := remote(ba.Remote)
			if err != nil {
				return nil, fmt.Errorf("content #%d, artifact #%d: %w", i, j, err)
			}
			d.DArtifacts = append(d.DArtifacts, &model.DeclaredArtifact{
				URL:          ba.URL,
				RelativePath: ba.RelativePath,
				Size:         ba.Size,
				Digests:      ba.Digests,
				Remote:       r,
			})
		}
		switch {
		case bc.Type == model.TypeAdvisory && bc.Advisory == nil:
			return nil, fmt.Errorf("content #%d: advisory content requires an update record", i)
		case bc.Type != model.TypeAdvisory && bc.Advisory != nil:
			return nil, fmt.Errorf("content #%d: update record on %s content", i, bc.Type)
		case bc.Advisory != nil:
			u := *bc.Advisory
			if u.ID == "" {
				return nil, fmt.Errorf("content #%d: advisory id is required", i)
			}
			if err := u.Identify(); err != nil {
				return nil, fmt.Errorf("content #%d: %w", i, err)
			}
			d.Advisory = &u
			if d.Content.PK == "" {
				d.Content.PK = u.PK
			}
		}
		if d.Content.PK == "" {
			d.Content.PK = derivedContentKey(bc)
		}
		batch = append(batch, d)
	}
	return batch, nil
}

// derivedContentKey identifies content by its first artifact digest, or path
// when there is no digest. Product id files found at several paths with the
// same digest are then the same content.
func derivedContentKey(bc batchContent) string {
	if len(bc.Artifacts) == 0 {
		return model.NaturalKey(bc.Type, bc.DataType)
	}
	first := bc.Artifacts[0]
	if typ, digest := first.Digests.Strongest(); digest != "" {
		return model.NaturalKey(bc.Type, bc.DataType, typ, digest)
	}
	return model.NaturalKey(bc.Type, bc.DataType, first.RelativePath)
}
