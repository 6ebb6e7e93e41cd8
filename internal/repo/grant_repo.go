package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/scoutdb/codescout/internal/model"
	"github.com/scoutdb/codescout/internal/pkg/dbutil"
	appErr "github.com/scoutdb/codescout/internal/pkg/errors"
)

type GrantRepo struct {
	db *sql.DB
}

func NewGrantRepo(db *sql.DB) *GrantRepo {
	return &GrantRepo{db: db}
}

func (r *GrantRepo) Create(ctx context.Context, grant *model.AccessGrant) error {
	data := map[string]interface{}{
		"id":            grant.ID,
		"repository_id": grant.RepositoryID,
		"access_type":   int(grant.AccessType),
		"granted_by":    grant.GrantedBy,
		"ctime":         grant.Ctime,
	}
	if grant.GranteeUserID != "" {
		data["grantee_user_id"] = grant.GranteeUserID
	} else {
		data["grantee_org_id"] = grant.GranteeOrgID
	}
	if grant.ExpiresAt > 0 {
		data["expires_at"] = grant.ExpiresAt
	}
	sqlStr, args, err := builder.BuildInsert("access_grants", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

// HasAccess answers the single permission question: does the user hold a
// non-expired grant of at least the required level, directly or through an
// org membership, or own the repository. No caching, the table is the only
// source of truth so revocations take effect immediately.
func (r *GrantRepo) HasAccess(ctx context.Context, userID, repositoryID string, required model.AccessLevel, now int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM repositories
			WHERE id = $2 AND owner_id = $1
		) OR EXISTS (
			SELECT 1 FROM access_grants g
			WHERE g.repository_id = $2
			  AND g.access_type >= $3
			  AND (g.expires_at IS NULL OR g.expires_at > $4)
			  AND (g.grantee_user_id = $1
			       OR g.grantee_org_id IN (SELECT org_id FROM org_members WHERE user_id = $1))
		)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, repositoryID, int(required), now).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *GrantRepo) ListByRepository(ctx context.Context, repositoryID string) ([]model.AccessGrant, error) {
	const query = `
		SELECT id, repository_id, COALESCE(grantee_user_id, ''), COALESCE(grantee_org_id, ''),
		       access_type, granted_by, COALESCE(expires_at, 0), ctime
		FROM access_grants
		WHERE repository_id = $1
		ORDER BY ctime DESC
	`
	rows, err := r.db.QueryContext(ctx, query, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []model.AccessGrant
	for rows.Next() {
		var g model.AccessGrant
		var accessType int
		if err := rows.Scan(&g.ID, &g.RepositoryID, &g.GranteeUserID, &g.GranteeOrgID,
			&accessType, &g.GrantedBy, &g.ExpiresAt, &g.Ctime); err != nil {
			return nil, err
		}
		g.AccessType = model.AccessLevel(accessType)
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// DeleteExpired prunes grants long past expiry. Expired grants are already
// treated as absent by HasAccess, this only reclaims rows.
func (r *GrantRepo) DeleteExpired(ctx context.Context, cutoff int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM access_grants WHERE expires_at IS NOT NULL AND expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *GrantRepo) DeleteByRepository(ctx context.Context, repositoryID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM access_grants WHERE repository_id = $1`, repositoryID)
	return err
}
