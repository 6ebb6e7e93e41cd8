package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/scoutdb/codescout/internal/model"
	"github.com/scoutdb/codescout/internal/pkg/dbutil"
	appErr "github.com/scoutdb/codescout/internal/pkg/errors"
)

type RepositoryRepo struct {
	db *sql.DB
}

func NewRepositoryRepo(db *sql.DB) *RepositoryRepo {
	return &RepositoryRepo{db: db}
}

func (r *RepositoryRepo) Create(ctx context.Context, repo *model.Repository) error {
	data := map[string]interface{}{
		"id":               repo.ID,
		"owner_id":         repo.OwnerID,
		"name":             repo.Name,
		"primary_language": repo.PrimaryLanguage,
		"ctime":            repo.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("repositories", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err = r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *RepositoryRepo) Get(ctx context.Context, id string) (*model.Repository, error) {
	sqlStr, args, err := builder.BuildSelect("repositories",
		map[string]interface{}{"id": id},
		[]string{"id", "owner_id", "name", "primary_language", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var repo model.Repository
	if err := row.Scan(&repo.ID, &repo.OwnerID, &repo.Name, &repo.PrimaryLanguage, &repo.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &repo, nil
}

func (r *RepositoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Repository, error) {
	sqlStr, args, err := builder.BuildSelect("repositories",
		map[string]interface{}{"owner_id": ownerID, "_orderby": "ctime desc"},
		[]string{"id", "owner_id", "name", "primary_language", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []model.Repository
	for rows.Next() {
		var repo model.Repository
		if err := rows.Scan(&repo.ID, &repo.OwnerID, &repo.Name, &repo.PrimaryLanguage, &repo.Ctime); err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	return repos, rows.Err()
}

func (r *RepositoryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM repositories WHERE id = $1`, id)
	return err
}
