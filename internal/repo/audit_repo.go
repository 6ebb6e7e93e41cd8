package repo

import (
	"context"
	"database/sql"

	"github.com/scoutdb/codescout/internal/model"
)

// AuditRepo writes the append-only access log. Rows are never updated or
// deleted by the application.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Append(ctx context.Context, entry *model.AccessLogEntry) error {
	var repoID interface{}
	if entry.RepositoryID != "" {
		repoID = entry.RepositoryID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO access_log (user_id, operation, repository_id, succeeded, ts) VALUES ($1, $2, $3, $4, $5)`,
		entry.UserID, entry.Operation, repoID, entry.Succeeded, entry.Ts)
	return err
}

func (r *AuditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.AccessLogEntry, error) {
	const query = `
		SELECT id, user_id, operation, COALESCE(repository_id, ''), succeeded, ts
		FROM access_log
		WHERE user_id = $1
		ORDER BY ts DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AccessLogEntry
	for rows.Next() {
		var e model.AccessLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Operation, &e.RepositoryID, &e.Succeeded, &e.Ts); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
