package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmanzanog/stockbook/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *session) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	q, err := s.querier(ctx)
	if err != nil {
		return nil, err
	}
	return q.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

// execAffected runs an UPDATE or DELETE and reports whether any row changed.
func (s *session) execAffected(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// alreadyExists translates a unique constraint violation into a domain error and
// leaves every other error untouched.
func (s *session) alreadyExists(err error, entity, field, value string) error {
	if err != nil && s.dialect.IsUniqueViolation(err) {
		return &domain.AlreadyExistsError{Entity: entity, Field: field, Value: value}
	}
	return err
}

// queryOne returns the zero value of T when the query yields no row.
func queryOne[T any](ctx context.Context, s *session, scan func(rowScanner) (T, error), query string, args ...any) (T, error) {
	var zero T
	q, err := s.querier(ctx)
	if err != nil {
		return zero, err
	}
	v, err := scan(q.QueryRowContext(ctx, s.dialect.Rebind(query), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, nil
	}
	if err != nil {
		return zero, err
	}
	return v, nil
}

// queryAll never returns a nil slice on success.
func queryAll[T any](ctx context.Context, s *session, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	q, err := s.querier(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			slog.Error("Failed to close rows", "error", err)
		}
	}(rows)

	result := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// nullable stores empty strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return domain.DateOf(t)
}

// likePattern builds a case-insensitive substring pattern; used with ESCAPE '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}

// NullDecimal scans a nullable numeric column.
type NullDecimal struct {
	Decimal domain.Decimal
	Valid   bool
}

func (n *NullDecimal) Scan(value any) error {
	if value == nil {
		n.Decimal, n.Valid = domain.Decimal{}, false
		return nil
	}
	n.Valid = true
	return n.Decimal.Scan(value)
}

// Ptr returns nil for NULL.
func (n NullDecimal) Ptr() *domain.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

// scanDate normalises driver specific DATE representations to UTC midnight.
type scanDate struct {
	Time  time.Time
	Valid bool
}

func (d *scanDate) Scan(value any) error {
	var nt sql.NullTime
	if err := nt.Scan(value); err != nil {
		if s, ok := value.(string); ok {
			t, perr := parseDateString(s)
			if perr != nil {
				return err
			}
			d.Time, d.Valid = t, true
			return nil
		}
		return err
	}
	d.Valid = nt.Valid
	if nt.Valid {
		d.Time = domain.DateOf(nt.Time)
	}
	return nil
}

var dateLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDateString(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
