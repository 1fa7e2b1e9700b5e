package stages

import (
	"context"

	"github.com/oneconcern/rpmsync/pkg/model"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of content units handled at once by batching stages
const DefaultBatchSize = 500

// Stage consumes declarative content from in, and forwards it to out
type Stage interface {
	Run(ctx context.Context, in <-chan *model.DeclarativeContent, out chan<- *model.DeclarativeContent) error
}

// StageFunc adapts a function to a Stage
type StageFunc func(context.Context, <-chan *model.DeclarativeContent, chan<- *model.DeclarativeContent) error

// Run the function
func (f StageFunc) Run(ctx context.Context, in <-chan *model.DeclarativeContent, out chan<- *model.DeclarativeContent) error {
	return f(ctx, in, out)
}

// Source produces the content of a pipeline
type Source func(ctx context.Context, out chan<- *model.DeclarativeContent) error

// FromSlice is a source which emits all items in order
func FromSlice(items []*model.DeclarativeContent) Source {
	return func(ctx context.Context, out chan<- *model.DeclarativeContent) error {
		for _, d := range items {
			if err := Send(ctx, out, d); err != nil {
				return err
			}
		}
		return nil
	}
}

// Send forwards one item, unless the context is done first
func Send(ctx context.Context, out chan<- *model.DeclarativeContent, d *model.DeclarativeContent) error {
	select {
	case out <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Batches groups the input in slices of at most size items.
//
// The last batch may be shorter. The output is closed when the input is
// closed or the context is done.
func Batches(ctx context.Context, in <-chan *model.DeclarativeContent, size int) <-chan []*model.DeclarativeContent {
	if size <= 0 {
		size = DefaultBatchSize
	}
	out := make(chan []*model.DeclarativeContent)

	go func() {
		defer close(out)

		batch := make([]*model.DeclarativeContent, 0, size)
		flush := func() bool {
			if len(batch) == 0 {
				return true
			}
			select {
			case out <- batch:
				batch = make([]*model.DeclarativeContent, 0, size)
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case d, ok := <-in:
				if !ok {
					flush()
					return
				}
				batch = append(batch, d)
				if len(batch) >= size && !flush() {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Pipeline connects the source to the stages and runs them all concurrently.
//
// The output of the last stage is drained. Pipeline returns when all stages
// are done, with the first error met.
func Pipeline(ctx context.Context, source Source, stages ...Stage) error {
	g, ctx := errgroup.WithContext(ctx)

	first := make(chan *model.DeclarativeContent)
	g.Go(func() error {
		defer close(first)
		return source(ctx, first)
	})

	in := first
	for _, stage := range stages {
		stage := stage
		stageIn := in
		out := make(chan *model.DeclarativeContent)
		g.Go(func() error {
			defer close(out)
			err := stage.Run(ctx, stageIn, out)
			if err != nil {
				return err
			}
			// let upstream stages finish
			for range stageIn {
			}
			return nil
		})
		in = out
	}

	last := in
	g.Go(func() error {
		for range last {
		}
		return nil
	})

	return g.Wait()
}
