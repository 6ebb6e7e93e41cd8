package repo

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/scoutdb/codescout/internal/model"
)

type ContentRepo struct {
	db *sql.DB
}

func NewContentRepo(db *sql.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

func (r *ContentRepo) Create(ctx context.Context, c *model.LearningContent) error {
	const query = `
		INSERT INTO learning_content (id, skill_category_id, title, body, difficulty, embedding, ctime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.SkillCategoryID, c.Title, c.Body, c.Difficulty,
		pgvector.NewVector(c.Embedding), c.Ctime)
	return err
}

// RankForEmbedding orders content in a category by cosine similarity to
// the given skill vector, most relevant first.
func (r *ContentRepo) RankForEmbedding(ctx context.Context, skillCategoryID string, queryVec []float32, limit int) ([]model.RankedContent, error) {
	const query = `
		SELECT id, skill_category_id, title, body, difficulty, 1 - (embedding <=> $1) AS similarity, ctime
		FROM learning_content
		WHERE skill_category_id = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, pgvector.NewVector(queryVec), skillCategoryID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []model.RankedContent
	for rows.Next() {
		var rc model.RankedContent
		if err := rows.Scan(&rc.Content.ID, &rc.Content.SkillCategoryID, &rc.Content.Title,
			&rc.Content.Body, &rc.Content.Difficulty, &rc.Similarity, &rc.Content.Ctime); err != nil {
			return nil, err
		}
		ranked = append(ranked, rc)
	}
	return ranked, rows.Err()
}
