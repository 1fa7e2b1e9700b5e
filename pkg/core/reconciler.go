package core

import (
	"context"
	"sort"

	"github.com/oneconcern/rpmsync/pkg/core/status"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/store"
)

// RemoteArtifactPrefetcher loads the content artifacts of a set of content,
// with their remote artifacts restricted to a set of remotes, in one bulk call.
type RemoteArtifactPrefetcher interface {
	PrefetchContentArtifacts(ctx context.Context, contentPKs, remotePKs []string) (map[string][]store.PrefetchedArtifact, error)
}

// RemotesPresent returns the sorted keys of the remotes referenced by the
// declared artifacts of a batch
func RemotesPresent(batch []*model.DeclarativeContent) []string {
	set := make(map[string]struct{})
	for _, d := range batch {
		for _, da := range d.DArtifacts {
			if da.Remote != nil {
				set[da.Remote.PK] = struct{}{}
			}
		}
	}
	remotes := make([]string, 0, len(set))
	for pk := range set {
		remotes = append(remotes, pk)
	}
	sort.Strings(remotes)
	return remotes
}

// NeededRemoteArtifacts builds the remote artifacts which must be created for a batch.
//
// The content artifacts of the batch and their remote artifacts are loaded
// with a single prefetch, limited to the remotes the batch refers to. Each
// content artifact is then paired with the declared artifact of its content
// sharing its relative path. A content artifact without such a declared
// artifact is an error, except for product id content: the first declared
// artifact of the content is then moved to the path of the content artifact.
//
// A remote artifact is needed when the declared artifact has a remote and the
// content artifact has no remote artifact for this remote yet.
func NeededRemoteArtifacts(ctx context.Context, prefetcher RemoteArtifactPrefetcher, batch []*model.DeclarativeContent) ([]model.RemoteArtifact, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	contentPKs := make([]string, 0, len(batch))
	for _, d := range batch {
		contentPKs = append(contentPKs, d.Content.PK)
	}
	prefetched, err := prefetcher.PrefetchContentArtifacts(ctx, contentPKs, RemotesPresent(batch))
	if err != nil {
		return nil, err
	}

	var needed []model.RemoteArtifact
	planned := make(map[string]struct{})
	for _, d := range batch {
		for _, ca := range prefetched[d.Content.PK] {
			da := matchDeclaredArtifact(d, ca.ContentArtifact)
			if da == nil {
				return nil, status.ErrMissingDeclaredArtifact.Wrapf(
					"no declared artifact with relative path %q for content %s", ca.RelativePath, d.Content)
			}

			if da.Remote == nil || ca.HasRemote(da.Remote.PK) {
				continue
			}
			ra := da.NewRemoteArtifact(ca.ContentArtifact)
			if _, dup := planned[ra.PK]; dup {
				continue
			}
			planned[ra.PK] = struct{}{}
			needed = append(needed, ra)
		}
	}
	return needed, nil
}

// matchDeclaredArtifact finds the declared artifact for a content artifact.
//
// For product id content, the first declared artifact stands for any content
// artifact with a path and takes its relative path.
func matchDeclaredArtifact(d *model.DeclarativeContent, ca model.ContentArtifact) *model.DeclaredArtifact {
	for _, da := range d.DArtifacts {
		if da.RelativePath == ca.RelativePath {
			return da
		}
	}
	if model.IsProductID(d.Content) && ca.RelativePath != "" && len(d.DArtifacts) > 0 {
		da := d.DArtifacts[0]
		da.RelativePath = ca.RelativePath
		return da
	}
	return nil
}
