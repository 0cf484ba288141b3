package sqldb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmanzanog/stockbook/internal/domain"
)

const balanceColumns = `id, portfolio_id, balance_date, final_balance, deposits, withdrawals, currency, index_change`

type balanceRepository struct {
	s *session
}

func scanBalance(row rowScanner) (*domain.PortfolioBalance, error) {
	var id, portfolioID, currency string
	var date scanDate
	var final, deposits, withdrawals domain.Decimal
	var indexChange NullDecimal
	if err := row.Scan(&id, &portfolioID, &date, &final, &deposits, &withdrawals, &currency, &indexChange); err != nil {
		return nil, err
	}

	amounts := make([]domain.Money, 0, 3)
	for _, d := range []domain.Decimal{final, deposits, withdrawals} {
		m, err := domain.NewMoney(d, currency)
		if err != nil {
			return nil, fmt.Errorf("mapping balance %s: %w", id, err)
		}
		amounts = append(amounts, m)
	}

	b, err := domain.NewPortfolioBalance(domain.PortfolioBalanceParams{
		ID:           id,
		PortfolioID:  portfolioID,
		Date:         date.Time,
		FinalBalance: amounts[0],
		Deposits:     &amounts[1],
		Withdrawals:  &amounts[2],
		IndexChange:  indexChange.Ptr(),
	})
	if err != nil {
		return nil, fmt.Errorf("mapping balance %s: %w", id, err)
	}
	return b, nil
}

func balanceIndexChange(b *domain.PortfolioBalance) any {
	if ic := b.IndexChange(); ic != nil {
		return ic.Decimal()
	}
	return nil
}

func (r *balanceRepository) Create(ctx context.Context, b *domain.PortfolioBalance) (string, error) {
	query := `INSERT INTO portfolio_balance (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.s.exec(ctx, query,
		b.ID(),
		b.PortfolioID(),
		b.Date(),
		b.FinalBalance().Amount(),
		b.Deposits().Amount(),
		b.Withdrawals().Amount(),
		b.FinalBalance().Currency(),
		balanceIndexChange(b),
	)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create balance", "portfolio_id", b.PortfolioID(), "date", b.Date(), "error", err)
		return "", fmt.Errorf("inserting balance: %w",
			r.s.alreadyExists(err, "portfolio balance", "date", b.Date().Format(time.DateOnly)))
	}
	return b.ID(), nil
}

func (r *balanceRepository) GetByID(ctx context.Context, id string) (*domain.PortfolioBalance, error) {
	b, err := queryOne(ctx, r.s, scanBalance, `SELECT `+balanceColumns+` FROM portfolio_balance WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying balance %s: %w", id, err)
	}
	return b, nil
}

func (r *balanceRepository) GetByPortfolio(ctx context.Context, portfolioID string) ([]*domain.PortfolioBalance, error) {
	balances, err := queryAll(ctx, r.s, scanBalance,
		`SELECT `+balanceColumns+` FROM portfolio_balance WHERE portfolio_id = $1 ORDER BY balance_date`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("querying balances of portfolio %s: %w", portfolioID, err)
	}
	return balances, nil
}

func (r *balanceRepository) GetByPortfolioAndDate(ctx context.Context, portfolioID string, date time.Time) (*domain.PortfolioBalance, error) {
	b, err := queryOne(ctx, r.s, scanBalance,
		`SELECT `+balanceColumns+` FROM portfolio_balance WHERE portfolio_id = $1 AND balance_date = $2`,
		portfolioID, domain.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("querying balance of portfolio %s: %w", portfolioID, err)
	}
	return b, nil
}

func (r *balanceRepository) GetByDateRange(ctx context.Context, portfolioID string, from, to time.Time) ([]*domain.PortfolioBalance, error) {
	balances, err := queryAll(ctx, r.s, scanBalance,
		`SELECT `+balanceColumns+` FROM portfolio_balance
		WHERE portfolio_id = $1 AND balance_date >= $2 AND balance_date <= $3 ORDER BY balance_date`,
		portfolioID, domain.DateOf(from), domain.DateOf(to))
	if err != nil {
		return nil, fmt.Errorf("querying balances of portfolio %s by date: %w", portfolioID, err)
	}
	return balances, nil
}

// GetLatest relies on (portfolio_id, balance_date) being unique.
func (r *balanceRepository) GetLatest(ctx context.Context, portfolioID string) (*domain.PortfolioBalance, error) {
	b, err := queryOne(ctx, r.s, scanBalance,
		`SELECT `+balanceColumns+` FROM portfolio_balance
		WHERE portfolio_id = $1 AND balance_date = (SELECT MAX(balance_date) FROM portfolio_balance WHERE portfolio_id = $2)`,
		portfolioID, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("querying latest balance of portfolio %s: %w", portfolioID, err)
	}
	return b, nil
}

func (r *balanceRepository) Update(ctx context.Context, id string, b *domain.PortfolioBalance) (bool, error) {
	query := `UPDATE portfolio_balance SET portfolio_id = $1, balance_date = $2, final_balance = $3, deposits = $4,
		withdrawals = $5, currency = $6, index_change = $7 WHERE id = $8`

	ok, err := r.s.execAffected(ctx, query,
		b.PortfolioID(),
		b.Date(),
		b.FinalBalance().Amount(),
		b.Deposits().Amount(),
		b.Withdrawals().Amount(),
		b.FinalBalance().Currency(),
		balanceIndexChange(b),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("updating balance %s: %w", id,
			r.s.alreadyExists(err, "portfolio balance", "date", b.Date().Format(time.DateOnly)))
	}
	return ok, nil
}

func (r *balanceRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.s.execAffected(ctx, `DELETE FROM portfolio_balance WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting balance %s: %w", id, err)
	}
	return ok, nil
}
