package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type flakyEmbedder struct {
	fail  bool
	calls int
	dim   int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("backend down")
	}
	return make([]float32, f.dim), nil
}

func (f *flakyEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("backend down")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}

func (f *flakyEmbedder) ModelName() string { return "m" }
func (f *flakyEmbedder) Dimension() int    { return f.dim }

func TestGroupEmbedderFallsBack(t *testing.T) {
	primary := &flakyEmbedder{fail: true, dim: 4}
	backup := &flakyEmbedder{dim: 4}
	g := NewGroupEmbedder([]EmbedderEntry{
		{Name: "primary", Embedder: primary},
		{Name: "backup", Embedder: backup},
	})

	vec, err := g.Embed(context.Background(), "hello", TaskRetrievalQuery)
	require.NoError(t, err)
	require.Len(t, vec, 4)
	require.Equal(t, 1, primary.calls)
	require.Equal(t, 1, backup.calls)

	vecs, err := g.EmbedBatch(context.Background(), []string{"a", "b"}, TaskRetrievalDocument)
	require.NoError(t, err)
	require.Len(t, vecs, 2)
}

func TestGroupEmbedderStopsAtFirstSuccess(t *testing.T) {
	primary := &flakyEmbedder{dim: 4}
	backup := &flakyEmbedder{dim: 4}
	g := NewGroupEmbedder([]EmbedderEntry{
		{Name: "primary", Embedder: primary},
		{Name: "backup", Embedder: backup},
	})

	_, err := g.Embed(context.Background(), "hello", TaskRetrievalQuery)
	require.NoError(t, err)
	require.Equal(t, 1, primary.calls)
	require.Zero(t, backup.calls)
}

func TestGroupEmbedderAllFail(t *testing.T) {
	g := NewGroupEmbedder([]EmbedderEntry{
		{Name: "a", Embedder: &flakyEmbedder{fail: true, dim: 4}},
		{Name: "b", Embedder: &flakyEmbedder{fail: true, dim: 4}},
	})
	_, err := g.Embed(context.Background(), "hello", TaskRetrievalQuery)
	require.Error(t, err)

	require.Nil(t, NewGroupEmbedder(nil))
}
