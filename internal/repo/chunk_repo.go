package repo

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/scoutdb/codescout/internal/model"
)

type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// SupersedeFile replaces every chunk of one file in a single transaction.
// Re-indexing therefore never duplicates (repository, path, seq) rows and a
// reader never observes a half-written file.
func (r *ChunkRepo) SupersedeFile(ctx context.Context, repositoryID, filePath string, chunks []*model.DocumentChunk, modelName string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM document_chunks WHERE repository_id = $1 AND file_path = $2`,
		repositoryID, filePath); err != nil {
		return err
	}
	const insert = `
		INSERT INTO document_chunks
			(id, repository_id, file_path, seq, content, content_type, language,
			 embedding, model_name, importance, indexed_by, content_hash, ctime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, insert,
			chunk.ID,
			chunk.RepositoryID,
			chunk.FilePath,
			chunk.Seq,
			chunk.Content,
			string(chunk.ContentType),
			chunk.Language,
			pgvector.NewVector(chunk.Embedding),
			modelName,
			chunk.Importance,
			chunk.IndexedBy,
			chunk.ContentHash,
			chunk.Ctime,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type SearchFilter struct {
	RepositoryID  string
	ContentType   model.ContentType
	MinImportance float64
	Limit         int
}

// Search ranks chunks by cosine similarity to the query vector. Only chunks
// embedded by the same model are comparable, so modelName always constrains
// the scan.
func (r *ChunkRepo) Search(ctx context.Context, queryVec []float32, modelName string, filter SearchFilter) ([]model.ChunkMatch, error) {
	const query = `
		SELECT id, repository_id, file_path, seq, content, content_type, language,
		       importance, indexed_by, content_hash, ctime,
		       1 - (embedding <=> $1) AS similarity
		FROM document_chunks
		WHERE model_name = $2
		  AND ($3 = '' OR repository_id = $3)
		  AND ($4 = '' OR content_type = $4)
		  AND importance >= $5
		ORDER BY embedding <=> $1
		LIMIT $6
	`
	rows, err := r.db.QueryContext(ctx, query,
		pgvector.NewVector(queryVec),
		modelName,
		filter.RepositoryID,
		string(filter.ContentType),
		filter.MinImportance,
		filter.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []model.ChunkMatch
	for rows.Next() {
		var m model.ChunkMatch
		var contentType string
		if err := rows.Scan(
			&m.Chunk.ID,
			&m.Chunk.RepositoryID,
			&m.Chunk.FilePath,
			&m.Chunk.Seq,
			&m.Chunk.Content,
			&contentType,
			&m.Chunk.Language,
			&m.Chunk.Importance,
			&m.Chunk.IndexedBy,
			&m.Chunk.ContentHash,
			&m.Chunk.Ctime,
			&m.Similarity,
		); err != nil {
			return nil, err
		}
		m.Chunk.ContentType = model.ContentType(contentType)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListByModelMismatch returns chunks embedded by a model other than the one
// currently configured for their content class, used by the re-embed job
// after a model migration.
func (r *ChunkRepo) ListByModelMismatch(ctx context.Context, contentType model.ContentType, currentModel string, limit int) ([]model.DocumentChunk, error) {
	const query = `
		SELECT id, repository_id, file_path, seq, content, content_type, language,
		       importance, indexed_by, content_hash, ctime
		FROM document_chunks
		WHERE content_type = $1 AND model_name <> $2
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, string(contentType), currentModel, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []model.DocumentChunk
	for rows.Next() {
		var c model.DocumentChunk
		var contentTypeStr string
		if err := rows.Scan(
			&c.ID, &c.RepositoryID, &c.FilePath, &c.Seq, &c.Content,
			&contentTypeStr, &c.Language, &c.Importance, &c.IndexedBy,
			&c.ContentHash, &c.Ctime,
		); err != nil {
			return nil, err
		}
		c.ContentType = model.ContentType(contentTypeStr)
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (r *ChunkRepo) UpdateEmbedding(ctx context.Context, chunkID string, embedding []float32, modelName string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE document_chunks SET embedding = $1, model_name = $2 WHERE id = $3`,
		pgvector.NewVector(embedding), modelName, chunkID)
	return err
}

func (r *ChunkRepo) DeleteByRepository(ctx context.Context, repositoryID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM document_chunks WHERE repository_id = $1`, repositoryID)
	return err
}
