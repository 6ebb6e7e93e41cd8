package model

// AccessLevel orders repository permissions: admin covers write, write covers read.
type AccessLevel int

const (
	AccessRead  AccessLevel = 1
	AccessWrite AccessLevel = 2
	AccessAdmin AccessLevel = 3
)

func (l AccessLevel) String() string {
	switch l {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

func (l AccessLevel) Covers(required AccessLevel) bool {
	return l >= required
}

func ParseAccessLevel(s string) (AccessLevel, bool) {
	switch s {
	case "read":
		return AccessRead, true
	case "write":
		return AccessWrite, true
	case "admin":
		return AccessAdmin, true
	}
	return 0, false
}

// AccessGrant gives a user or an organization a level on a repository.
// Exactly one of GranteeUserID / GranteeOrgID is set. An expired grant is
// treated as absent everywhere, it is never deleted eagerly.
type AccessGrant struct {
	ID            string      `json:"id"`
	RepositoryID  string      `json:"repository_id"`
	GranteeUserID string      `json:"grantee_user_id,omitempty"`
	GranteeOrgID  string      `json:"grantee_org_id,omitempty"`
	AccessType    AccessLevel `json:"access_type"`
	GrantedBy     string      `json:"granted_by"`
	ExpiresAt     int64       `json:"expires_at,omitempty"`
	Ctime         int64       `json:"ctime"`
}

// AccessLogEntry is an append-only audit row, one per retrieval or
// embedding attempt regardless of outcome.
type AccessLogEntry struct {
	ID           int64  `json:"id"`
	UserID       string `json:"user_id"`
	Operation    string `json:"operation"`
	RepositoryID string `json:"repository_id,omitempty"`
	Succeeded    bool   `json:"succeeded"`
	Ts           int64  `json:"ts"`
}
