package store

import "github.com/oneconcern/rpmsync/pkg/model"

// PrefetchedArtifact is a content artifact with the remote artifacts loaded along with it
type PrefetchedArtifact struct {
	model.ContentArtifact `yaml:",inline"`
	RemoteArtifacts       []model.RemoteArtifact `json:"remote_artifacts,omitempty" yaml:"remote_artifacts,omitempty"`
}

// HasRemote tells if a remote artifact from this remote was loaded
func (p PrefetchedArtifact) HasRemote(remotePK string) bool {
	for _, ra := range p.RemoteArtifacts {
		if ra.RemotePK == remotePK {
			return true
		}
	}
	return false
}
