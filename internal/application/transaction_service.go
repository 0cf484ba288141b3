package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmanzanog/stockbook/internal/domain"
)

type TransactionService struct {
	newUnitOfWork domain.UnitOfWorkFactory
}

func NewTransactionService(newUnitOfWork domain.UnitOfWorkFactory) *TransactionService {
	return &TransactionService{newUnitOfWork: newUnitOfWork}
}

// Record stores a buy or sell after checking that its portfolio and stock exist.
func (s *TransactionService) Record(ctx context.Context, params domain.TransactionParams) (*domain.Transaction, error) {
	tx, err := domain.NewTransaction(params)
	if err != nil {
		return nil, err
	}

	err = runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		if _, err := requirePortfolio(ctx, uow, tx.PortfolioID()); err != nil {
			return err
		}
		if _, err := requireStock(ctx, uow, tx.StockID()); err != nil {
			return err
		}
		repo, err := uow.Transactions()
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, tx)
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to record transaction",
			"portfolio_id", params.PortfolioID, "stock_id", params.StockID, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", tx.ID(), "type", tx.Type(), "quantity", tx.Quantity(), "price", tx.Price())
	return tx, nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	var tx *domain.Transaction
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Transactions()
		if err != nil {
			return err
		}
		tx, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.NotFoundError("transaction", id)
		}
		return nil
	})
	return tx, err
}

func (s *TransactionService) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		if _, err := requirePortfolio(ctx, uow, portfolioID); err != nil {
			return err
		}
		repo, err := uow.Transactions()
		if err != nil {
			return err
		}
		txs, err = repo.GetByPortfolio(ctx, portfolioID)
		return err
	})
	return txs, err
}

// ListByDateRange is inclusive on both ends.
func (s *TransactionService) ListByDateRange(ctx context.Context, portfolioID string, from, to time.Time) ([]*domain.Transaction, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	var txs []*domain.Transaction
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Transactions()
		if err != nil {
			return err
		}
		txs, err = repo.GetByDateRange(ctx, portfolioID, domain.DateOf(from), domain.DateOf(to))
		return err
	})
	return txs, err
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	return runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Transactions()
		if err != nil {
			return err
		}
		ok, err := repo.Delete(ctx, id)
		return deleted(ok, err, "transaction", id)
	})
}
