package sqldb

import (
	"context"
	"database/sql"
	"regexp"
)

// Dialect hides the differences between the supported databases. Queries are written
// with PostgreSQL style $n placeholders and rebound per dialect.
type Dialect interface {
	Name() string
	Migrate(ctx context.Context, db *sql.DB) error
	Rebind(query string) string
	IsUniqueViolation(err error) bool
}

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

func rebindWith(query, prefix string) string {
	return placeholderPattern.ReplaceAllString(query, prefix+"${1}")
}
