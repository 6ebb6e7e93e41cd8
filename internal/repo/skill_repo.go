package repo

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/scoutdb/codescout/internal/model"
	appErr "github.com/scoutdb/codescout/internal/pkg/errors"
)

type SkillRepo struct {
	db *sql.DB
}

func NewSkillRepo(db *sql.DB) *SkillRepo {
	return &SkillRepo{db: db}
}

// Upsert keeps one row per (user, category). EvidenceCount accumulates
// across upserts; the embedding and level always take the newest value.
func (r *SkillRepo) Upsert(ctx context.Context, emb *model.SkillEmbedding, newEvidence int) error {
	const query = `
		INSERT INTO skill_embeddings (user_id, skill_category_id, embedding, skill_level, evidence_count, mtime)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, skill_category_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			skill_level = EXCLUDED.skill_level,
			evidence_count = skill_embeddings.evidence_count + $5,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, query,
		emb.UserID,
		emb.SkillCategoryID,
		pgvector.NewVector(emb.Embedding),
		emb.SkillLevel,
		newEvidence,
		emb.Mtime,
	)
	return err
}

func (r *SkillRepo) Get(ctx context.Context, userID, skillCategoryID string) (*model.SkillEmbedding, error) {
	const query = `
		SELECT user_id, skill_category_id, embedding, skill_level, evidence_count, mtime
		FROM skill_embeddings
		WHERE user_id = $1 AND skill_category_id = $2
	`
	row := r.db.QueryRowContext(ctx, query, userID, skillCategoryID)
	var emb model.SkillEmbedding
	var vec pgvector.Vector
	if err := row.Scan(&emb.UserID, &emb.SkillCategoryID, &vec, &emb.SkillLevel, &emb.EvidenceCount, &emb.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	emb.Embedding = vec.Slice()
	return &emb, nil
}

// FindSimilar ranks other users' vectors in the category by cosine
// similarity, excluding the requester and anything below minSimilarity.
func (r *SkillRepo) FindSimilar(ctx context.Context, userID, skillCategoryID string, queryVec []float32, minSimilarity float32, limit int) ([]model.SimilarUser, error) {
	const query = `
		SELECT user_id, skill_level, 1 - (embedding <=> $1) AS similarity
		FROM skill_embeddings
		WHERE skill_category_id = $2
		  AND user_id <> $3
		  AND 1 - (embedding <=> $1) >= $4
		ORDER BY embedding <=> $1
		LIMIT $5
	`
	rows, err := r.db.QueryContext(ctx, query,
		pgvector.NewVector(queryVec), skillCategoryID, userID, minSimilarity, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.SimilarUser
	for rows.Next() {
		var u model.SimilarUser
		if err := rows.Scan(&u.UserID, &u.SkillLevel, &u.Similarity); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
