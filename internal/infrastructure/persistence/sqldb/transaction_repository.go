package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmanzanog/stockbook/internal/domain"
)

const transactionColumns = `id, portfolio_id, stock_id, transaction_type, quantity, price, currency, transaction_date, notes`

type transactionRepository struct {
	s *session
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var id, portfolioID, stockID, txType, currency string
	var quantity, price domain.Decimal
	var date scanDate
	var notes sql.NullString
	if err := row.Scan(&id, &portfolioID, &stockID, &txType, &quantity, &price, &currency, &date, &notes); err != nil {
		return nil, err
	}
	money, err := domain.NewMoney(price, currency)
	if err != nil {
		return nil, fmt.Errorf("mapping transaction %s: %w", id, err)
	}
	tx, err := domain.NewTransaction(domain.TransactionParams{
		ID:          id,
		PortfolioID: portfolioID,
		StockID:     stockID,
		Type:        txType,
		Quantity:    quantity,
		Price:       money,
		Date:        date.Time,
		Notes:       notes.String,
	})
	if err != nil {
		return nil, fmt.Errorf("mapping transaction %s: %w", id, err)
	}
	return tx, nil
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) (string, error) {
	query := `INSERT INTO stock_transaction (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.s.exec(ctx, query,
		tx.ID(),
		tx.PortfolioID(),
		tx.StockID(),
		string(tx.Type()),
		tx.Quantity().Decimal(),
		tx.Price().Amount(),
		tx.Price().Currency(),
		tx.Date(),
		nullable(string(tx.Notes())),
	)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create transaction", "transaction_id", tx.ID(), "portfolio_id", tx.PortfolioID(), "error", err)
		return "", fmt.Errorf("inserting transaction: %w", r.s.alreadyExists(err, "transaction", "id", tx.ID()))
	}
	return tx.ID(), nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	tx, err := queryOne(ctx, r.s, scanTransaction,
		`SELECT `+transactionColumns+` FROM stock_transaction WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying transaction %s: %w", id, err)
	}
	return tx, nil
}

func (r *transactionRepository) GetByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Transaction, error) {
	txs, err := queryAll(ctx, r.s, scanTransaction,
		`SELECT `+transactionColumns+` FROM stock_transaction WHERE portfolio_id = $1 ORDER BY transaction_date, id`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions of portfolio %s: %w", portfolioID, err)
	}
	return txs, nil
}

func (r *transactionRepository) GetByStock(ctx context.Context, stockID string) ([]*domain.Transaction, error) {
	txs, err := queryAll(ctx, r.s, scanTransaction,
		`SELECT `+transactionColumns+` FROM stock_transaction WHERE stock_id = $1 ORDER BY transaction_date, id`, stockID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions of stock %s: %w", stockID, err)
	}
	return txs, nil
}

func (r *transactionRepository) GetByPortfolioAndStock(ctx context.Context, portfolioID, stockID string) ([]*domain.Transaction, error) {
	txs, err := queryAll(ctx, r.s, scanTransaction,
		`SELECT `+transactionColumns+` FROM stock_transaction
		WHERE portfolio_id = $1 AND stock_id = $2 ORDER BY transaction_date, id`, portfolioID, stockID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions of stock %s in portfolio %s: %w", stockID, portfolioID, err)
	}
	return txs, nil
}

func (r *transactionRepository) GetByDateRange(ctx context.Context, portfolioID string, from, to time.Time) ([]*domain.Transaction, error) {
	txs, err := queryAll(ctx, r.s, scanTransaction,
		`SELECT `+transactionColumns+` FROM stock_transaction
		WHERE portfolio_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
		ORDER BY transaction_date, id`, portfolioID, domain.DateOf(from), domain.DateOf(to))
	if err != nil {
		return nil, fmt.Errorf("querying transactions of portfolio %s by date: %w", portfolioID, err)
	}
	return txs, nil
}

func (r *transactionRepository) Update(ctx context.Context, id string, tx *domain.Transaction) (bool, error) {
	query := `UPDATE stock_transaction SET portfolio_id = $1, stock_id = $2, transaction_type = $3, quantity = $4,
		price = $5, currency = $6, transaction_date = $7, notes = $8 WHERE id = $9`

	ok, err := r.s.execAffected(ctx, query,
		tx.PortfolioID(),
		tx.StockID(),
		string(tx.Type()),
		tx.Quantity().Decimal(),
		tx.Price().Amount(),
		tx.Price().Currency(),
		tx.Date(),
		nullable(string(tx.Notes())),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("updating transaction %s: %w", id, err)
	}
	return ok, nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.s.execAffected(ctx, `DELETE FROM stock_transaction WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting transaction %s: %w", id, err)
	}
	return ok, nil
}
