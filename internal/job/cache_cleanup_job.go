package job

import (
	"context"
	"time"

	"github.com/scoutdb/codescout/internal/repo"
)

type CacheCleanupJob struct {
	repo       *repo.EmbeddingCacheRepo
	maxAgeDays int
}

func NewCacheCleanupJob(repo *repo.EmbeddingCacheRepo, maxAgeDays int) *CacheCleanupJob {
	return &CacheCleanupJob{repo: repo, maxAgeDays: maxAgeDays}
}

func (j *CacheCleanupJob) Name() string {
	return "embedding_cache_cleanup"
}

func (j *CacheCleanupJob) Run(ctx context.Context) error {
	if j.repo == nil {
		return nil
	}
	maxAgeDays := j.maxAgeDays
	if maxAgeDays <= 0 {
		maxAgeDays = 30
	}
	cutoff := time.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour).Unix()
	_, err := j.repo.DeleteBefore(ctx, cutoff)
	return err
}
