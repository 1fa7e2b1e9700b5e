package core

import (
	"context"

	"github.com/oneconcern/rpmsync/pkg/core/status"
	"github.com/oneconcern/rpmsync/pkg/errors"
	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/oneconcern/rpmsync/pkg/stages"
	storestatus "github.com/oneconcern/rpmsync/pkg/store/status"
	"go.uber.org/zap"
)

// RemoteArtifactStore prefetches and creates remote artifacts
type RemoteArtifactStore interface {
	RemoteArtifactPrefetcher
	BulkCreateRemoteArtifacts(context.Context, []model.RemoteArtifact) error
}

// ContentStore persists content, its content artifacts and the update
// records of advisories
type ContentStore interface {
	GetContent(ctx context.Context, pk string) (model.Content, error)
	AddContent(context.Context, []model.Content) error
	AddContentArtifacts(context.Context, []model.ContentArtifact) error
	AddUpdateRecords(context.Context, []model.UpdateRecord) error
}

var (
	_ stages.Stage = &RemoteArtifactSaver{}
	_ stages.Stage = &ContentSaver{}
)

// RemoteArtifactSaver is a stage creating the remote artifacts needed by batches of content.
//
// A conflict in the store, i.e. a remote artifact created concurrently for the
// same content artifact and remote, fails the stage with store/status.ErrConflict.
type RemoteArtifactSaver struct {
	store RemoteArtifactStore
	options
}

// NewRemoteArtifactSaver builds a remote artifact saving stage
func NewRemoteArtifactSaver(st RemoteArtifactStore, opts ...Option) *RemoteArtifactSaver {
	return &RemoteArtifactSaver{
		store:   st,
		options: defaultOptions(opts),
	}
}

// Run the stage
//
// Returning early cancels the batching of in.
func (s *RemoteArtifactSaver) Run(ctx context.Context, in <-chan *model.DeclarativeContent, out chan<- *model.DeclarativeContent) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for batch := range stages.Batches(ctx, in, s.batchSize) {
		created, err := s.SaveBatch(ctx, batch)
		if err != nil {
			return err
		}
		s.l.Debug("remote artifacts saved", zap.Int("batch", len(batch)), zap.Int("created", len(created)))

		for _, d := range batch {
			if err := stages.Send(ctx, out, d); err != nil {
				return err
			}
		}
	}
	return ctx.Err()
}

// SaveBatch creates the remote artifacts needed by one batch and returns them
func (s *RemoteArtifactSaver) SaveBatch(ctx context.Context, batch []*model.DeclarativeContent) ([]model.RemoteArtifact, error) {
	s.m.Batches.Inc()

	needed, err := NeededRemoteArtifacts(ctx, s.store, batch)
	if err != nil {
		return nil, err
	}
	if len(needed) == 0 {
		return nil, nil
	}

	if err := s.store.BulkCreateRemoteArtifacts(ctx, needed); err != nil {
		if errors.Is(err, storestatus.ErrConflict) {
			s.l.Warn("remote artifact created concurrently", zap.Error(err))
		}
		return nil, err
	}

	s.m.RemoteArtifactsCreated.Add(float64(len(needed)))
	for _, ra := range needed {
		if ra.Size > 0 {
			s.m.RemoteArtifactBytes.Observe(float64(ra.Size))
		}
	}
	return needed, nil
}

// ContentSaver is a stage storing new content with its content artifacts.
//
// Content already known to the store is forwarded untouched: its content
// artifacts keep their original relative paths.
type ContentSaver struct {
	store ContentStore
	options
}

// NewContentSaver builds a content saving stage
func NewContentSaver(st ContentStore, opts ...Option) *ContentSaver {
	return &ContentSaver{
		store:   st,
		options: defaultOptions(opts),
	}
}

// Run the stage
//
// Returning early cancels the batching of in.
func (s *ContentSaver) Run(ctx context.Context, in <-chan *model.DeclarativeContent, out chan<- *model.DeclarativeContent) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for batch := range stages.Batches(ctx, in, s.batchSize) {
		if err := s.SaveBatch(ctx, batch); err != nil {
			return err
		}
		for _, d := range batch {
			if err := stages.Send(ctx, out, d); err != nil {
				return err
			}
		}
	}
	return ctx.Err()
}

// SaveBatch stores the new content of a batch
func (s *ContentSaver) SaveBatch(ctx context.Context, batch []*model.DeclarativeContent) error {
	var (
		contents   []model.Content
		cas        []model.ContentArtifact
		advisories []model.UpdateRecord
	)
	for _, d := range batch {
		_, err := s.store.GetContent(ctx, d.Content.PK)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, storestatus.ErrNotFound):
			return err
		}

		if d.Content.Type == model.TypeAdvisory {
			if d.Advisory == nil {
				return status.ErrMissingAdvisory.Wrapf("content %s", d.Content.PK)
			}
			u := *d.Advisory
			u.PK = d.Content.PK
			advisories = append(advisories, u)
		}
		contents = append(contents, d.Content)
		for _, da := range d.DArtifacts {
			cas = append(cas, model.NewContentArtifact(d.Content.PK, da.RelativePath))
		}
	}
	if len(contents) == 0 {
		return nil
	}

	if err := s.store.AddContent(ctx, contents); err != nil {
		return err
	}
	if len(advisories) > 0 {
		if err := s.store.AddUpdateRecords(ctx, advisories); err != nil {
			return err
		}
	}
	if err := s.store.AddContentArtifacts(ctx, cas); err != nil {
		return err
	}
	s.l.Debug("content saved", zap.Int("content", len(contents)), zap.Int("artifacts", len(cas)), zap.Int("advisories", len(advisories)))
	return nil
}
