package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scoutdb/codescout/internal/pkg/logutil"
	"github.com/scoutdb/codescout/internal/repo"
)

type GrantCleanupJob struct {
	repo *repo.GrantRepo
}

func NewGrantCleanupJob(repo *repo.GrantRepo) *GrantCleanupJob {
	return &GrantCleanupJob{repo: repo}
}

func (j *GrantCleanupJob) Name() string {
	return "expired_grant_cleanup"
}

func (j *GrantCleanupJob) Run(ctx context.Context) error {
	if j.repo == nil {
		return nil
	}
	deleted, err := j.repo.DeleteExpired(ctx, time.Now().Unix())
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("pruned expired grants", zap.Int64("deleted", deleted))
	}
	return nil
}
