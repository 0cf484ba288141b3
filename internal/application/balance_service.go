package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmanzanog/stockbook/internal/domain"
)

type BalanceService struct {
	newUnitOfWork domain.UnitOfWorkFactory
}

func NewBalanceService(newUnitOfWork domain.UnitOfWorkFactory) *BalanceService {
	return &BalanceService{newUnitOfWork: newUnitOfWork}
}

// Record stores the end-of-day balance of a portfolio. A second balance for the
// same portfolio and date fails with an already-exists error.
func (s *BalanceService) Record(ctx context.Context, params domain.PortfolioBalanceParams) (*domain.PortfolioBalance, error) {
	balance, err := domain.NewPortfolioBalance(params)
	if err != nil {
		return nil, err
	}

	err = runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		if _, err := requirePortfolio(ctx, uow, balance.PortfolioID()); err != nil {
			return err
		}
		repo, err := uow.Balances()
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, balance)
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to record balance", "portfolio_id", params.PortfolioID, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "Balance recorded", "balance_id", balance.ID(),
		"portfolio_id", balance.PortfolioID(), "date", balance.Date().Format(time.DateOnly))
	return balance, nil
}

func (s *BalanceService) Get(ctx context.Context, id string) (*domain.PortfolioBalance, error) {
	var balance *domain.PortfolioBalance
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Balances()
		if err != nil {
			return err
		}
		balance, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if balance == nil {
			return domain.NotFoundError("balance", id)
		}
		return nil
	})
	return balance, err
}

func (s *BalanceService) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.PortfolioBalance, error) {
	var balances []*domain.PortfolioBalance
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		if _, err := requirePortfolio(ctx, uow, portfolioID); err != nil {
			return err
		}
		repo, err := uow.Balances()
		if err != nil {
			return err
		}
		balances, err = repo.GetByPortfolio(ctx, portfolioID)
		return err
	})
	return balances, err
}

func (s *BalanceService) ListByDateRange(ctx context.Context, portfolioID string, from, to time.Time) ([]*domain.PortfolioBalance, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	var balances []*domain.PortfolioBalance
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Balances()
		if err != nil {
			return err
		}
		balances, err = repo.GetByDateRange(ctx, portfolioID, domain.DateOf(from), domain.DateOf(to))
		return err
	})
	return balances, err
}

// Latest returns the most recent balance of a portfolio.
func (s *BalanceService) Latest(ctx context.Context, portfolioID string) (*domain.PortfolioBalance, error) {
	var balance *domain.PortfolioBalance
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Balances()
		if err != nil {
			return err
		}
		balance, err = repo.GetLatest(ctx, portfolioID)
		if err != nil {
			return err
		}
		if balance == nil {
			return domain.NotFoundError("balance for portfolio", portfolioID)
		}
		return nil
	})
	return balance, err
}

func (s *BalanceService) Delete(ctx context.Context, id string) error {
	return runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Balances()
		if err != nil {
			return err
		}
		ok, err := repo.Delete(ctx, id)
		return deleted(ok, err, "balance", id)
	})
}
