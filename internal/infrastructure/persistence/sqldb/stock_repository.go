package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmanzanog/stockbook/internal/domain"
)

const stockColumns = `id, symbol, name, sector, industry_group, grade, notes`

type stockRepository struct {
	s *session
}

func scanStock(row rowScanner) (*domain.Stock, error) {
	var id, symbol string
	var name, sector, industry, grade, notes sql.NullString
	if err := row.Scan(&id, &symbol, &name, &sector, &industry, &grade, &notes); err != nil {
		return nil, err
	}
	stock, err := domain.NewStock(domain.StockParams{
		ID:            id,
		Symbol:        symbol,
		Name:          name.String,
		Sector:        sector.String,
		IndustryGroup: industry.String,
		Grade:         grade.String,
		Notes:         notes.String,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("mapping stock %s: %w", id, err)
	}
	return stock, nil
}

func stockArgs(st *domain.Stock) []any {
	return []any{
		st.Symbol().String(),
		nullable(string(st.Name())),
		nullable(string(st.Sector())),
		nullable(string(st.IndustryGroup())),
		nullable(string(st.Grade())),
		nullable(string(st.Notes())),
	}
}

func (r *stockRepository) Create(ctx context.Context, st *domain.Stock) (string, error) {
	query := `INSERT INTO stock (id, symbol, name, sector, industry_group, grade, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	args := append([]any{st.ID()}, stockArgs(st)...)
	if _, err := r.s.exec(ctx, query, args...); err != nil {
		slog.ErrorContext(ctx, "Failed to create stock", "symbol", st.Symbol(), "error", err)
		return "", fmt.Errorf("inserting stock: %w", r.s.alreadyExists(err, "stock", "symbol", st.Symbol().String()))
	}
	return st.ID(), nil
}

func (r *stockRepository) GetByID(ctx context.Context, id string) (*domain.Stock, error) {
	st, err := queryOne(ctx, r.s, scanStock, `SELECT `+stockColumns+` FROM stock WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying stock %s: %w", id, err)
	}
	return st, nil
}

func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Stock, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	st, err := queryOne(ctx, r.s, scanStock, `SELECT `+stockColumns+` FROM stock WHERE symbol = $1`, sym)
	if err != nil {
		return nil, fmt.Errorf("querying stock %s: %w", sym, err)
	}
	return st, nil
}

func (r *stockRepository) GetAll(ctx context.Context) ([]*domain.Stock, error) {
	stocks, err := queryAll(ctx, r.s, scanStock, `SELECT `+stockColumns+` FROM stock ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("querying stocks: %w", err)
	}
	return stocks, nil
}

func (r *stockRepository) ExistsBySymbol(ctx context.Context, symbol string) (bool, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	count, err := queryOne(ctx, r.s, func(row rowScanner) (int64, error) {
		var n int64
		err := row.Scan(&n)
		return n, err
	}, `SELECT COUNT(*) FROM stock WHERE symbol = $1`, sym)
	if err != nil {
		return false, fmt.Errorf("counting stock %s: %w", sym, err)
	}
	return count > 0, nil
}

// Search ANDs every non-empty filter.
func (r *stockRepository) Search(ctx context.Context, f domain.StockSearch) ([]*domain.Stock, error) {
	var (
		conds []string
		args  []any
	)
	like := func(column, value string) {
		args = append(args, likePattern(value))
		conds = append(conds, fmt.Sprintf(`LOWER(%s) LIKE $%d ESCAPE '\'`, column, len(args)))
	}
	if v := strings.TrimSpace(f.Symbol); v != "" {
		like("symbol", v)
	}
	if v := strings.TrimSpace(f.Name); v != "" {
		like("name", v)
	}
	if v := strings.TrimSpace(f.Sector); v != "" {
		like("sector", v)
	}
	if v := strings.TrimSpace(f.IndustryGroup); v != "" {
		like("industry_group", v)
	}
	if v := strings.ToUpper(strings.TrimSpace(f.Grade)); v != "" {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(`grade = $%d`, len(args)))
	}

	query := `SELECT ` + stockColumns + ` FROM stock`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY symbol`

	stocks, err := queryAll(ctx, r.s, scanStock, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching stocks: %w", err)
	}
	return stocks, nil
}

func (r *stockRepository) Update(ctx context.Context, id string, st *domain.Stock) (bool, error) {
	query := `UPDATE stock SET symbol = $1, name = $2, sector = $3, industry_group = $4, grade = $5, notes = $6
		WHERE id = $7`

	args := append(stockArgs(st), id)
	ok, err := r.s.execAffected(ctx, query, args...)
	if err != nil {
		err = r.s.alreadyExists(err, "stock", "symbol", st.Symbol().String())
		return false, fmt.Errorf("updating stock %s: %w", id, err)
	}
	return ok, nil
}

func (r *stockRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.s.execAffected(ctx, `DELETE FROM stock WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting stock %s: %w", id, err)
	}
	return ok, nil
}
