package dbutil

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var mysqlLimit = regexp.MustCompile(`(?i)LIMIT\s+\?\s*,\s*\?`)

// Finalize converts a gendry-built MySQL query into Postgres form: the
// "LIMIT offset, count" placeholder pair becomes "LIMIT count OFFSET offset"
// (args swapped to match) and ? placeholders are rebound to $N.
func Finalize(query string, args []interface{}) (string, []interface{}) {
	if loc := mysqlLimit.FindStringIndex(query); loc != nil {
		// args for the limit clause sit after one arg per preceding placeholder
		at := strings.Count(query[:loc[0]], "?")
		if at+1 < len(args) {
			args[at], args[at+1] = args[at+1], args[at]
			query = query[:loc[0]] + "LIMIT ? OFFSET ?" + query[loc[1]:]
		}
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

// IsConflict reports whether err is a Postgres unique-constraint violation.
func IsConflict(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
