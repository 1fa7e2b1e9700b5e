// Copyright © 2018 One Concern

package model

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// Content types handled by rpmsync
const (
	TypePackage          = "rpm.package"
	TypeAdvisory         = "rpm.advisory"
	TypeModulemd         = "rpm.modulemd"
	TypeModulemdDefaults = "rpm.modulemd_defaults"
	TypeRepoMetadataFile = "rpm.repo_metadata_file"
)

// DataTypeProductID marks repository metadata files holding a product id certificate
const DataTypeProductID = "productid"

// RemoteTypeRPM is the only kind of remote rpmsync syncs from
const RemoteTypeRPM = "rpm"

// Download policies for a remote
const (
	PolicyImmediate = "immediate"
	PolicyOnDemand  = "on_demand"
	PolicyStreamed  = "streamed"
)

// Remote describes where content may be fetched from
type Remote struct {
	PK     string `json:"pk" yaml:"pk"`
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	URL    string `json:"url" yaml:"url"`
	Policy string `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// NewRemote builds an rpm remote with a fresh primary key
func NewRemote(name, url, policy string) Remote {
	if policy == "" {
		policy = PolicyImmediate
	}
	return Remote{
		PK:     ksuid.New().String(),
		Name:   name,
		Type:   RemoteTypeRPM,
		URL:    url,
		Policy: policy,
	}
}

// Content is a unit of content in a repository
type Content struct {
	PK   string `json:"pk" yaml:"pk"`
	Type string `json:"type" yaml:"type"`

	// DataType is only set on repository metadata files
	DataType string `json:"data_type,omitempty" yaml:"data_type,omitempty"`
}

func (c Content) String() string {
	if c.DataType != "" {
		return fmt.Sprintf("<%s: %s (%s)>", c.Type, c.PK, c.DataType)
	}
	return fmt.Sprintf("<%s: %s>", c.Type, c.PK)
}

// IsProductID tells if the content is a product id repository metadata file.
//
// Such files are stored once and referenced from several repository trees,
// so their declared path may differ from the path recorded on the content.
func IsProductID(c Content) bool {
	return c.DataType == DataTypeProductID
}

// ContentArtifact relates a content unit to a relative path in the repository tree
type ContentArtifact struct {
	PK             string `json:"pk" yaml:"pk"`
	ContentPK      string `json:"content" yaml:"content"`
	RelativePath   string `json:"relative_path" yaml:"relative_path"`
	ArtifactDigest string `json:"artifact,omitempty" yaml:"artifact,omitempty"`
}

// NewContentArtifact builds a content artifact keyed on (content, relative path)
func NewContentArtifact(contentPK, relativePath string) ContentArtifact {
	return ContentArtifact{
		PK:           NaturalKey(contentPK, relativePath),
		ContentPK:    contentPK,
		RelativePath: relativePath,
	}
}

// RemoteArtifact records that a remote can supply a content artifact
type RemoteArtifact struct {
	PK                string  `json:"pk" yaml:"pk"`
	ContentArtifactPK string  `json:"content_artifact" yaml:"content_artifact"`
	RemotePK          string  `json:"remote" yaml:"remote"`
	URL               string  `json:"url" yaml:"url"`
	Size              int64   `json:"size,omitempty" yaml:"size,omitempty"`
	Digests           Digests `json:"digests,omitempty" yaml:"digests,omitempty"`
}

// RemoteArtifactPK is the primary key of the remote artifact for a (content artifact, remote) pair
func RemoteArtifactPK(contentArtifactPK, remotePK string) string {
	return NaturalKey(contentArtifactPK, remotePK)
}

// DeclaredArtifact describes where and from which remote the payload of some
// content can be fetched. It is not persisted.
type DeclaredArtifact struct {
	URL          string  `json:"url" yaml:"url"`
	RelativePath string  `json:"relative_path" yaml:"relative_path"`
	Size         int64   `json:"size,omitempty" yaml:"size,omitempty"`
	Digests      Digests `json:"digests,omitempty" yaml:"digests,omitempty"`

	// Remote is nil for artifacts which are never fetched remotely
	Remote *Remote `json:"remote,omitempty" yaml:"remote,omitempty"`
}

// NewRemoteArtifact builds the remote artifact matching a declared artifact
// for some content artifact. The declared artifact must have a remote.
func (d *DeclaredArtifact) NewRemoteArtifact(ca ContentArtifact) RemoteArtifact {
	return RemoteArtifact{
		PK:                RemoteArtifactPK(ca.PK, d.Remote.PK),
		ContentArtifactPK: ca.PK,
		RemotePK:          d.Remote.PK,
		URL:               d.URL,
		Size:              d.Size,
		Digests:           d.Digests.Copy(),
	}
}

// DeclarativeContent is a content unit together with the artifacts it declares
type DeclarativeContent struct {
	Content    Content             `json:"content" yaml:"content"`
	DArtifacts []*DeclaredArtifact `json:"artifacts" yaml:"artifacts"`

	// Advisory carries the update record of "rpm.advisory" content, stored along with it
	Advisory *UpdateRecord `json:"advisory,omitempty" yaml:"advisory,omitempty"`
}
