package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmanzanog/stockbook/internal/domain"
)

type DB struct {
	*sql.DB
	Dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *DB {
	return &DB{
		DB:      db,
		Dialect: dialect,
	}
}

// Open maps a configured driver name (postgres, oracle or sqlite) to its database/sql
// driver and dialect.
func Open(driver, dsn string) (*DB, error) {
	var (
		sqlDriver string
		dialect   Dialect
	)
	switch driver {
	case "postgres":
		sqlDriver, dialect = "pgx", &PostgresDialect{}
	case "oracle":
		sqlDriver, dialect = "oracle", &OracleDialect{}
	case "sqlite":
		sqlDriver, dialect = "sqlite3", &SQLiteDialect{}
		dsn = sqliteForeignKeysDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	return New(db, dialect), nil
}

// sqliteForeignKeysDSN turns on foreign key enforcement unless the DSN
// already configures it. SQLite leaves it off per connection otherwise.
func sqliteForeignKeysDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// Migrate brings the schema up to date for the configured dialect.
func (db *DB) Migrate(ctx context.Context) error {
	return db.Dialect.Migrate(ctx, db.DB)
}

// NewUnitOfWork satisfies domain.UnitOfWorkFactory.
func (db *DB) NewUnitOfWork() domain.UnitOfWork {
	return &UnitOfWork{db: db}
}
