package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/scoutdb/codescout/internal/pkg/dbutil"
	appErr "github.com/scoutdb/codescout/internal/pkg/errors"
)

type OrgRepo struct {
	db *sql.DB
}

func NewOrgRepo(db *sql.DB) *OrgRepo {
	return &OrgRepo{db: db}
}

func (r *OrgRepo) AddMember(ctx context.Context, orgID, userID string, ctime int64) error {
	data := map[string]interface{}{
		"org_id":  orgID,
		"user_id": userID,
		"ctime":   ctime,
	}
	sqlStr, args, err := builder.BuildInsert("org_members", []map[string]interface{}{data})
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

func (r *OrgRepo) RemoveMember(ctx context.Context, orgID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM org_members WHERE org_id = $1 AND user_id = $2`, orgID, userID)
	return err
}

func (r *OrgRepo) IsMember(ctx context.Context, orgID, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM org_members WHERE org_id = $1 AND user_id = $2)`,
		orgID, userID).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}
