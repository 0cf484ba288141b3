package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmanzanog/stockbook/internal/domain"
)

const portfolioColumns = `id, name, description, created_date, is_active`

type portfolioRepository struct {
	s *session
}

func scanPortfolio(row rowScanner) (*domain.Portfolio, error) {
	var id, name string
	var description sql.NullString
	var created scanDate
	var active int64
	if err := row.Scan(&id, &name, &description, &created, &active); err != nil {
		return nil, err
	}
	p, err := domain.NewPortfolio(domain.PortfolioParams{
		ID:          id,
		Name:        name,
		Description: description.String,
		CreatedDate: created.Time,
		IsActive:    active != 0,
	})
	if err != nil {
		return nil, fmt.Errorf("mapping portfolio %s: %w", id, err)
	}
	return p, nil
}

func (r *portfolioRepository) Create(ctx context.Context, p *domain.Portfolio) (string, error) {
	query := `INSERT INTO portfolio (id, name, description, created_date, is_active)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.s.exec(ctx, query,
		p.ID(),
		string(p.Name()),
		nullable(string(p.Description())),
		nullDate(p.CreatedDate()),
		boolToInt(p.IsActive()),
	)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create portfolio", "name", p.Name(), "error", err)
		return "", fmt.Errorf("inserting portfolio: %w", r.s.alreadyExists(err, "portfolio", "name", string(p.Name())))
	}
	return p.ID(), nil
}

func (r *portfolioRepository) GetByID(ctx context.Context, id string) (*domain.Portfolio, error) {
	p, err := queryOne(ctx, r.s, scanPortfolio, `SELECT `+portfolioColumns+` FROM portfolio WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying portfolio %s: %w", id, err)
	}
	return p, nil
}

func (r *portfolioRepository) GetByName(ctx context.Context, name string) (*domain.Portfolio, error) {
	n := strings.TrimSpace(name)
	p, err := queryOne(ctx, r.s, scanPortfolio, `SELECT `+portfolioColumns+` FROM portfolio WHERE name = $1`, n)
	if err != nil {
		return nil, fmt.Errorf("querying portfolio %q: %w", n, err)
	}
	return p, nil
}

func (r *portfolioRepository) GetAll(ctx context.Context) ([]*domain.Portfolio, error) {
	portfolios, err := queryAll(ctx, r.s, scanPortfolio, `SELECT `+portfolioColumns+` FROM portfolio ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying portfolios: %w", err)
	}
	return portfolios, nil
}

func (r *portfolioRepository) GetActive(ctx context.Context) ([]*domain.Portfolio, error) {
	portfolios, err := queryAll(ctx, r.s, scanPortfolio,
		`SELECT `+portfolioColumns+` FROM portfolio WHERE is_active = $1 ORDER BY name`, 1)
	if err != nil {
		return nil, fmt.Errorf("querying active portfolios: %w", err)
	}
	return portfolios, nil
}

func (r *portfolioRepository) Update(ctx context.Context, id string, p *domain.Portfolio) (bool, error) {
	query := `UPDATE portfolio SET name = $1, description = $2, created_date = $3, is_active = $4 WHERE id = $5`

	ok, err := r.s.execAffected(ctx, query,
		string(p.Name()),
		nullable(string(p.Description())),
		nullDate(p.CreatedDate()),
		boolToInt(p.IsActive()),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("updating portfolio %s: %w", id, r.s.alreadyExists(err, "portfolio", "name", string(p.Name())))
	}
	return ok, nil
}

func (r *portfolioRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.s.execAffected(ctx, `DELETE FROM portfolio WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting portfolio %s: %w", id, err)
	}
	return ok, nil
}
