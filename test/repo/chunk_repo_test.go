package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scoutdb/codescout/internal/model"
	"github.com/scoutdb/codescout/internal/repo"
	"github.com/scoutdb/codescout/test/testutil"
)

func chunkOf(repoID, path string, seq int, content string, vec []float32) *model.DocumentChunk {
	return &model.DocumentChunk{
		ID:           nextID("chunk"),
		RepositoryID: repoID,
		FilePath:     path,
		Seq:          seq,
		Content:      content,
		ContentType:  model.ContentTypeCode,
		Embedding:    vec,
		Importance:   0.5,
		IndexedBy:    "tester",
		ContentHash:  nextID("hash"),
		Ctime:        time.Now().Unix(),
	}
}

func TestChunkRepoSupersedeAndSearch(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()
	chunks := repo.NewChunkRepo(db)

	owner := seedUser(t, db)
	repoID := seedRepository(t, db, owner)
	const modelName = "test-model-3d"

	require.NoError(t, chunks.SupersedeFile(ctx, repoID, "a.go", []*model.DocumentChunk{
		chunkOf(repoID, "a.go", 0, "first version part one", []float32{1, 0, 0}),
		chunkOf(repoID, "a.go", 1, "first version part two", []float32{0, 1, 0}),
	}, modelName))

	matches, err := chunks.Search(ctx, []float32{1, 0, 0}, modelName, repo.SearchFilter{
		RepositoryID: repoID,
		Limit:        10,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	// Cosine ranking: the identical vector comes first.
	require.Equal(t, "first version part one", matches[0].Chunk.Content)
	require.InDelta(t, 1.0, float64(matches[0].Similarity), 1e-6)

	// Superseding replaces rather than appends.
	require.NoError(t, chunks.SupersedeFile(ctx, repoID, "a.go", []*model.DocumentChunk{
		chunkOf(repoID, "a.go", 0, "second version", []float32{0, 0, 1}),
	}, modelName))

	matches, err = chunks.Search(ctx, []float32{0, 0, 1}, modelName, repo.SearchFilter{
		RepositoryID: repoID,
		Limit:        10,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "second version", matches[0].Chunk.Content)
}

func TestChunkRepoSearchFiltersByModel(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()
	chunks := repo.NewChunkRepo(db)

	owner := seedUser(t, db)
	repoID := seedRepository(t, db, owner)

	require.NoError(t, chunks.SupersedeFile(ctx, repoID, "old.go", []*model.DocumentChunk{
		chunkOf(repoID, "old.go", 0, "embedded by the old model", []float32{1, 0, 0}),
	}, "old-model"))

	matches, err := chunks.Search(ctx, []float32{1, 0, 0}, "new-model", repo.SearchFilter{
		RepositoryID: repoID,
		Limit:        10,
	})
	require.NoError(t, err)
	require.Empty(t, matches, "vectors from another model must never be compared")

	stale, err := chunks.ListByModelMismatch(ctx, model.ContentTypeCode, "new-model", 100)
	require.NoError(t, err)
	found := false
	for _, c := range stale {
		if c.RepositoryID == repoID {
			found = true
		}
	}
	require.True(t, found, "old-model chunk should be reported as stale")
}
