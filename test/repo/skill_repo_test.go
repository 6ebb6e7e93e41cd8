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

// skillVec builds a 1024-dim vector dominated by one axis so cosine
// ordering in assertions is easy to reason about.
func skillVec(axis int) []float32 {
	v := make([]float32, 1024)
	v[axis] = 1
	return v
}

func TestSkillRepoUpsertAccumulatesEvidence(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()
	skills := repo.NewSkillRepo(db)

	user := seedUser(t, db)
	category := nextID("cat")

	require.NoError(t, skills.Upsert(ctx, &model.SkillEmbedding{
		UserID:          user,
		SkillCategoryID: category,
		Embedding:       skillVec(0),
		SkillLevel:      2,
		Mtime:           time.Now().Unix(),
	}, 3))

	got, err := skills.Get(ctx, user, category)
	require.NoError(t, err)
	require.Equal(t, 3, got.EvidenceCount)
	require.Equal(t, 2, got.SkillLevel)

	// Second upsert adds evidence and takes the newest level and vector.
	require.NoError(t, skills.Upsert(ctx, &model.SkillEmbedding{
		UserID:          user,
		SkillCategoryID: category,
		Embedding:       skillVec(1),
		SkillLevel:      4,
		Mtime:           time.Now().Unix(),
	}, 2))

	got, err = skills.Get(ctx, user, category)
	require.NoError(t, err)
	require.Equal(t, 5, got.EvidenceCount)
	require.Equal(t, 4, got.SkillLevel)
}

func TestSkillRepoFindSimilarExcludesSelf(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()
	skills := repo.NewSkillRepo(db)

	me := seedUser(t, db)
	twin := seedUser(t, db)
	opposite := seedUser(t, db)
	category := nextID("cat")
	now := time.Now().Unix()

	for user, axis := range map[string]int{me: 0, twin: 0, opposite: 500} {
		require.NoError(t, skills.Upsert(ctx, &model.SkillEmbedding{
			UserID:          user,
			SkillCategoryID: category,
			Embedding:       skillVec(axis),
			SkillLevel:      3,
			Mtime:           now,
		}, 1))
	}

	similar, err := skills.FindSimilar(ctx, me, category, skillVec(0), 0.9, 10)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	require.Equal(t, twin, similar[0].UserID)
	require.InDelta(t, 1.0, similar[0].Similarity, 0.01)
}

func TestContentRepoRankForEmbedding(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()
	content := repo.NewContentRepo(db)

	category := nextID("cat")
	now := time.Now().Unix()
	near := nextID("content")
	far := nextID("content")

	require.NoError(t, content.Create(ctx, &model.LearningContent{
		ID:              near,
		SkillCategoryID: category,
		Title:           "close match",
		Body:            "body",
		Difficulty:      "intermediate",
		Embedding:       skillVec(0),
		Ctime:           now,
	}))
	require.NoError(t, content.Create(ctx, &model.LearningContent{
		ID:              far,
		SkillCategoryID: category,
		Title:           "distant match",
		Body:            "body",
		Difficulty:      "advanced",
		Embedding:       skillVec(500),
		Ctime:           now,
	}))

	ranked, err := content.RankForEmbedding(ctx, category, skillVec(0), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.Equal(t, near, ranked[0].Content.ID)
	require.Greater(t, ranked[0].Similarity, ranked[1].Similarity)
}
