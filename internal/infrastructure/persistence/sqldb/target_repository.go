package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmanzanog/stockbook/internal/domain"
)

const targetColumns = `id, portfolio_id, stock_id, pivot_price, failure_price, currency, status, created_date, notes`

type targetRepository struct {
	s *session
}

func scanTarget(row rowScanner) (*domain.Target, error) {
	var id, portfolioID, stockID, currency, status string
	var pivot, failure domain.Decimal
	var created scanDate
	var notes sql.NullString
	if err := row.Scan(&id, &portfolioID, &stockID, &pivot, &failure, &currency, &status, &created, &notes); err != nil {
		return nil, err
	}
	pivotPrice, err := domain.NewMoney(pivot, currency)
	if err != nil {
		return nil, fmt.Errorf("mapping target %s: %w", id, err)
	}
	failurePrice, err := domain.NewMoney(failure, currency)
	if err != nil {
		return nil, fmt.Errorf("mapping target %s: %w", id, err)
	}
	t, err := domain.NewTarget(domain.TargetParams{
		ID:           id,
		PortfolioID:  portfolioID,
		StockID:      stockID,
		PivotPrice:   pivotPrice,
		FailurePrice: failurePrice,
		Status:       status,
		CreatedDate:  created.Time,
		Notes:        notes.String,
	})
	if err != nil {
		return nil, fmt.Errorf("mapping target %s: %w", id, err)
	}
	return t, nil
}

func (r *targetRepository) Create(ctx context.Context, t *domain.Target) (string, error) {
	query := `INSERT INTO target (` + targetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.s.exec(ctx, query,
		t.ID(),
		t.PortfolioID(),
		t.StockID(),
		t.PivotPrice().Amount(),
		t.FailurePrice().Amount(),
		t.PivotPrice().Currency(),
		string(t.Status()),
		t.CreatedDate(),
		nullable(string(t.Notes())),
	)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create target", "target_id", t.ID(), "stock_id", t.StockID(), "error", err)
		return "", fmt.Errorf("inserting target: %w", r.s.alreadyExists(err, "target", "id", t.ID()))
	}
	return t.ID(), nil
}

func (r *targetRepository) GetByID(ctx context.Context, id string) (*domain.Target, error) {
	t, err := queryOne(ctx, r.s, scanTarget, `SELECT `+targetColumns+` FROM target WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying target %s: %w", id, err)
	}
	return t, nil
}

func (r *targetRepository) GetByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Target, error) {
	targets, err := queryAll(ctx, r.s, scanTarget,
		`SELECT `+targetColumns+` FROM target WHERE portfolio_id = $1 ORDER BY created_date, id`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("querying targets of portfolio %s: %w", portfolioID, err)
	}
	return targets, nil
}

func (r *targetRepository) GetActiveByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Target, error) {
	targets, err := queryAll(ctx, r.s, scanTarget,
		`SELECT `+targetColumns+` FROM target WHERE portfolio_id = $1 AND status = $2 ORDER BY created_date, id`,
		portfolioID, string(domain.TargetStatusActive))
	if err != nil {
		return nil, fmt.Errorf("querying active targets of portfolio %s: %w", portfolioID, err)
	}
	return targets, nil
}

func (r *targetRepository) GetActive(ctx context.Context) ([]*domain.Target, error) {
	targets, err := queryAll(ctx, r.s, scanTarget,
		`SELECT `+targetColumns+` FROM target WHERE status = $1 ORDER BY created_date, id`,
		string(domain.TargetStatusActive))
	if err != nil {
		return nil, fmt.Errorf("querying active targets: %w", err)
	}
	return targets, nil
}

func (r *targetRepository) GetByStock(ctx context.Context, stockID string) ([]*domain.Target, error) {
	targets, err := queryAll(ctx, r.s, scanTarget,
		`SELECT `+targetColumns+` FROM target WHERE stock_id = $1 ORDER BY created_date, id`, stockID)
	if err != nil {
		return nil, fmt.Errorf("querying targets of stock %s: %w", stockID, err)
	}
	return targets, nil
}

func (r *targetRepository) Update(ctx context.Context, id string, t *domain.Target) (bool, error) {
	query := `UPDATE target SET portfolio_id = $1, stock_id = $2, pivot_price = $3, failure_price = $4,
		currency = $5, status = $6, created_date = $7, notes = $8 WHERE id = $9`

	ok, err := r.s.execAffected(ctx, query,
		t.PortfolioID(),
		t.StockID(),
		t.PivotPrice().Amount(),
		t.FailurePrice().Amount(),
		t.PivotPrice().Currency(),
		string(t.Status()),
		t.CreatedDate(),
		nullable(string(t.Notes())),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("updating target %s: %w", id, err)
	}
	return ok, nil
}

func (r *targetRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.s.execAffected(ctx, `DELETE FROM target WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting target %s: %w", id, err)
	}
	return ok, nil
}
