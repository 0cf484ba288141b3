package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmanzanog/stockbook/internal/infrastructure/persistence/sqldb/migrations"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SQLiteFS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "sqlite"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// Rebind keeps the argument positions explicit: $2 becomes ?2.
func (d *SQLiteDialect) Rebind(query string) string { return rebindWith(query, "?") }

func (d *SQLiteDialect) IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
