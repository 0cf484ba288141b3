package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmanzanog/stockbook/internal/domain"
)

const journalColumns = `id, entry_date, content, portfolio_id, stock_id, transaction_id`

type journalRepository struct {
	s *session
}

func scanJournalEntry(row rowScanner) (*domain.JournalEntry, error) {
	var id, content string
	var date scanDate
	var portfolioID, stockID, transactionID sql.NullString
	if err := row.Scan(&id, &date, &content, &portfolioID, &stockID, &transactionID); err != nil {
		return nil, err
	}
	e, err := domain.NewJournalEntry(domain.JournalEntryParams{
		ID:            id,
		Date:          date.Time,
		Content:       content,
		PortfolioID:   portfolioID.String,
		StockID:       stockID.String,
		TransactionID: transactionID.String,
	})
	if err != nil {
		return nil, fmt.Errorf("mapping journal entry %s: %w", id, err)
	}
	return e, nil
}

func (r *journalRepository) Create(ctx context.Context, e *domain.JournalEntry) (string, error) {
	query := `INSERT INTO journal_entry (` + journalColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.s.exec(ctx, query,
		e.ID(),
		e.Date(),
		string(e.Content()),
		nullable(e.PortfolioID()),
		nullable(e.StockID()),
		nullable(e.TransactionID()),
	)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create journal entry", "entry_id", e.ID(), "error", err)
		return "", fmt.Errorf("inserting journal entry: %w", r.s.alreadyExists(err, "journal entry", "id", e.ID()))
	}
	return e.ID(), nil
}

func (r *journalRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	e, err := queryOne(ctx, r.s, scanJournalEntry, `SELECT `+journalColumns+` FROM journal_entry WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying journal entry %s: %w", id, err)
	}
	return e, nil
}

func (r *journalRepository) GetAll(ctx context.Context) ([]*domain.JournalEntry, error) {
	entries, err := queryAll(ctx, r.s, scanJournalEntry,
		`SELECT `+journalColumns+` FROM journal_entry ORDER BY entry_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying journal entries: %w", err)
	}
	return entries, nil
}

func (r *journalRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*domain.JournalEntry, error) {
	entries, err := queryAll(ctx, r.s, scanJournalEntry,
		`SELECT `+journalColumns+` FROM journal_entry WHERE entry_date >= $1 AND entry_date <= $2 ORDER BY entry_date, id`,
		domain.DateOf(from), domain.DateOf(to))
	if err != nil {
		return nil, fmt.Errorf("querying journal entries by date: %w", err)
	}
	return entries, nil
}

func (r *journalRepository) GetByPortfolio(ctx context.Context, portfolioID string) ([]*domain.JournalEntry, error) {
	return r.getLinked(ctx, "portfolio_id", portfolioID)
}

func (r *journalRepository) GetByStock(ctx context.Context, stockID string) ([]*domain.JournalEntry, error) {
	return r.getLinked(ctx, "stock_id", stockID)
}

func (r *journalRepository) GetByTransaction(ctx context.Context, transactionID string) ([]*domain.JournalEntry, error) {
	return r.getLinked(ctx, "transaction_id", transactionID)
}

// column is always one of the link columns above, never user input.
func (r *journalRepository) getLinked(ctx context.Context, column, id string) ([]*domain.JournalEntry, error) {
	entries, err := queryAll(ctx, r.s, scanJournalEntry,
		`SELECT `+journalColumns+` FROM journal_entry WHERE `+column+` = $1 ORDER BY entry_date, id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying journal entries by %s: %w", column, err)
	}
	return entries, nil
}

func (r *journalRepository) Update(ctx context.Context, id string, e *domain.JournalEntry) (bool, error) {
	query := `UPDATE journal_entry SET entry_date = $1, content = $2, portfolio_id = $3, stock_id = $4,
		transaction_id = $5 WHERE id = $6`

	ok, err := r.s.execAffected(ctx, query,
		e.Date(),
		string(e.Content()),
		nullable(e.PortfolioID()),
		nullable(e.StockID()),
		nullable(e.TransactionID()),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("updating journal entry %s: %w", id, err)
	}
	return ok, nil
}

func (r *journalRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.s.execAffected(ctx, `DELETE FROM journal_entry WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting journal entry %s: %w", id, err)
	}
	return ok, nil
}
