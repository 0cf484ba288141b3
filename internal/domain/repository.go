package domain

import (
	"context"
	"time"
)

// Repository conventions shared by every aggregate:
//   - GetByID and single-result finders return (nil, nil) when nothing matches.
//   - Multi-result finders return an empty slice when nothing matches.
//   - Update and Delete report whether a row was affected; a missing id is not an error.
//   - Create and Update translate uniqueness violations into *AlreadyExistsError.

type StockRepository interface {
	Create(ctx context.Context, stock *Stock) (string, error)
	GetByID(ctx context.Context, id string) (*Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*Stock, error)
	GetAll(ctx context.Context) ([]*Stock, error)
	ExistsBySymbol(ctx context.Context, symbol string) (bool, error)
	Search(ctx context.Context, filter StockSearch) ([]*Stock, error)
	Update(ctx context.Context, id string, stock *Stock) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StockSearch filters are ANDed. Text filters are case-insensitive substrings; Grade is exact.
// Empty fields are ignored.
type StockSearch struct {
	Symbol        string
	Name          string
	Sector        string
	IndustryGroup string
	Grade         string
}

type PortfolioRepository interface {
	Create(ctx context.Context, portfolio *Portfolio) (string, error)
	GetByID(ctx context.Context, id string) (*Portfolio, error)
	GetByName(ctx context.Context, name string) (*Portfolio, error)
	GetAll(ctx context.Context) ([]*Portfolio, error)
	GetActive(ctx context.Context) ([]*Portfolio, error)
	Update(ctx context.Context, id string, portfolio *Portfolio) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) (string, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	GetByPortfolio(ctx context.Context, portfolioID string) ([]*Transaction, error)
	GetByStock(ctx context.Context, stockID string) ([]*Transaction, error)
	GetByPortfolioAndStock(ctx context.Context, portfolioID, stockID string) ([]*Transaction, error)
	// GetByDateRange is inclusive on both ends.
	GetByDateRange(ctx context.Context, portfolioID string, from, to time.Time) ([]*Transaction, error)
	Update(ctx context.Context, id string, tx *Transaction) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type TargetRepository interface {
	Create(ctx context.Context, target *Target) (string, error)
	GetByID(ctx context.Context, id string) (*Target, error)
	GetByPortfolio(ctx context.Context, portfolioID string) ([]*Target, error)
	GetActiveByPortfolio(ctx context.Context, portfolioID string) ([]*Target, error)
	GetActive(ctx context.Context) ([]*Target, error)
	GetByStock(ctx context.Context, stockID string) ([]*Target, error)
	Update(ctx context.Context, id string, target *Target) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PortfolioBalanceRepository interface {
	Create(ctx context.Context, balance *PortfolioBalance) (string, error)
	GetByID(ctx context.Context, id string) (*PortfolioBalance, error)
	GetByPortfolio(ctx context.Context, portfolioID string) ([]*PortfolioBalance, error)
	GetByPortfolioAndDate(ctx context.Context, portfolioID string, date time.Time) (*PortfolioBalance, error)
	GetByDateRange(ctx context.Context, portfolioID string, from, to time.Time) ([]*PortfolioBalance, error)
	GetLatest(ctx context.Context, portfolioID string) (*PortfolioBalance, error)
	Update(ctx context.Context, id string, balance *PortfolioBalance) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type JournalRepository interface {
	Create(ctx context.Context, entry *JournalEntry) (string, error)
	GetByID(ctx context.Context, id string) (*JournalEntry, error)
	GetAll(ctx context.Context) ([]*JournalEntry, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*JournalEntry, error)
	GetByPortfolio(ctx context.Context, portfolioID string) ([]*JournalEntry, error)
	GetByStock(ctx context.Context, stockID string) ([]*JournalEntry, error)
	GetByTransaction(ctx context.Context, transactionID string) ([]*JournalEntry, error)
	Update(ctx context.Context, id string, entry *JournalEntry) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UnitOfWork binds one connection and transaction to a set of repositories sharing it.
// It is inactive until Begin and becomes inactive again on Close, whatever the outcome.
// A UnitOfWork is not safe for concurrent use; create one per operation.
type UnitOfWork interface {
	// Begin returns ErrUnitOfWorkActive if called again before Close.
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
	// Close rolls back anything uncommitted and releases the connection.
	Close() error

	// Repository accessors return ErrUnitOfWorkNotActive outside Begin/Close.
	Stocks() (StockRepository, error)
	Portfolios() (PortfolioRepository, error)
	Transactions() (TransactionRepository, error)
	Targets() (TargetRepository, error)
	Balances() (PortfolioBalanceRepository, error)
	Journal() (JournalRepository, error)
}

// UnitOfWorkFactory creates fresh, inactive units of work.
type UnitOfWorkFactory func() UnitOfWork
