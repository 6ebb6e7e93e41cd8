package job

import (
	"context"

	"go.uber.org/zap"

	"github.com/scoutdb/codescout/internal/ai"
	"github.com/scoutdb/codescout/internal/model"
	"github.com/scoutdb/codescout/internal/pkg/logutil"
	"github.com/scoutdb/codescout/internal/repo"
)

// ReembedJob migrates stored chunks to the currently configured model for
// their content class. Runs incrementally, one bounded batch per class per
// tick, so a model switch drains over time without a stop-the-world rebuild.
type ReembedJob struct {
	chunks    *repo.ChunkRepo
	router    *ai.Router
	batchSize int
}

func NewReembedJob(chunks *repo.ChunkRepo, router *ai.Router, batchSize int) *ReembedJob {
	return &ReembedJob{chunks: chunks, router: router, batchSize: batchSize}
}

func (j *ReembedJob) Name() string {
	return "chunk_reembed"
}

func (j *ReembedJob) Run(ctx context.Context) error {
	if j.chunks == nil || j.router == nil {
		return nil
	}
	batchSize := j.batchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	classes := []model.ContentType{
		model.ContentTypeCode,
		model.ContentTypeDocumentation,
		model.ContentTypeExample,
		model.ContentTypeConfig,
	}
	for _, ct := range classes {
		if err := j.reembedClass(ctx, ct, batchSize); err != nil {
			return err
		}
	}
	return nil
}

func (j *ReembedJob) reembedClass(ctx context.Context, ct model.ContentType, batchSize int) error {
	embedder := j.router.ForContentType(ct)
	stale, err := j.chunks.ListByModelMismatch(ctx, ct, embedder.ModelName(), batchSize)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}
	texts := make([]string, len(stale))
	for i, chunk := range stale {
		texts[i] = chunk.Content
		if ct == model.ContentTypeDocumentation {
			if plain := ai.MarkdownPlaintext(chunk.Content); plain != "" {
				texts[i] = plain
			}
		}
	}
	vecs, err := embedder.EmbedBatch(ctx, texts, ai.TaskRetrievalDocument)
	if err != nil {
		return err
	}
	for i, chunk := range stale {
		if err := j.chunks.UpdateEmbedding(ctx, chunk.ID, vecs[i], embedder.ModelName()); err != nil {
			return err
		}
	}
	logutil.GetLogger(ctx).Info("re-embedded stale chunks",
		zap.String("content_type", string(ct)),
		zap.String("model", embedder.ModelName()),
		zap.Int("count", len(stale)))
	return nil
}
