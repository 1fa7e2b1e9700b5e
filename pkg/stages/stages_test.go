package stages

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/oneconcern/rpmsync/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contents(n int) []*model.DeclarativeContent {
	items := make([]*model.DeclarativeContent, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, &model.DeclarativeContent{
			Content: model.Content{PK: strconv.Itoa(i), Type: model.TypePackage},
		})
	}
	return items
}

func TestBatches(t *testing.T) {
	for _, toPin := range []struct {
		name     string
		items    int
		size     int
		expected []int
	}{
		{name: "empty", items: 0, size: 3, expected: nil},
		{name: "exact", items: 6, size: 3, expected: []int{3, 3}},
		{name: "partial", items: 7, size: 3, expected: []int{3, 3, 1}},
		{name: "default size", items: 2, size: 0, expected: []int{2}},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			in := make(chan *model.DeclarativeContent)
			go func() {
				defer close(in)
				for _, d := range contents(fixture.items) {
					in <- d
				}
			}()

			var sizes []int
			next := 0
			for batch := range Batches(context.Background(), in, fixture.size) {
				sizes = append(sizes, len(batch))
				for _, d := range batch {
					require.Equal(t, strconv.Itoa(next), d.Content.PK)
					next++
				}
			}
			assert.Equal(t, fixture.expected, sizes)
		})
	}
}

func TestBatchesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan *model.DeclarativeContent)
	out := Batches(ctx, in, 10)
	cancel()

	_, open := <-out
	require.False(t, open)
}

func TestPipeline(t *testing.T) {
	var (
		mx   sync.Mutex
		seen []string
	)
	double := StageFunc(func(ctx context.Context, in <-chan *model.DeclarativeContent, out chan<- *model.DeclarativeContent) error {
		for d := range in {
			if err := Send(ctx, out, d); err != nil {
				return err
			}
		}
		return nil
	})
	record := StageFunc(func(ctx context.Context, in <-chan *model.DeclarativeContent, out chan<- *model.DeclarativeContent) error {
		for d := range in {
			mx.Lock()
			seen = append(seen, d.Content.PK)
			mx.Unlock()
			if err := Send(ctx, out, d); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, Pipeline(context.Background(), FromSlice(contents(5)), double, record))
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, seen)
}

func TestPipelineError(t *testing.T) {
	boom := errors.New("boom")
	failing := StageFunc(func(ctx context.Context, in <-chan *model.DeclarativeContent, out chan<- *model.DeclarativeContent) error {
		<-in
		return boom
	})
	passing := StageFunc(func(ctx context.Context, in <-chan *model.DeclarativeContent, out chan<- *model.DeclarativeContent) error {
		for d := range in {
			if err := Send(ctx, out, d); err != nil {
				return err
			}
		}
		return nil
	})

	err := Pipeline(context.Background(), FromSlice(contents(100)), passing, failing, passing)
	require.ErrorIs(t, err, boom)
}

func TestPipelineNoStage(t *testing.T) {
	require.NoError(t, Pipeline(context.Background(), FromSlice(contents(3))))
}
