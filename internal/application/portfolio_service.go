package application

import (
	"context"
	"log/slog"

	"github.com/jmanzanog/stockbook/internal/domain"
)

type PortfolioService struct {
	newUnitOfWork domain.UnitOfWorkFactory
}

func NewPortfolioService(newUnitOfWork domain.UnitOfWorkFactory) *PortfolioService {
	return &PortfolioService{newUnitOfWork: newUnitOfWork}
}

// PortfolioUpdate carries optional changes; nil fields are left as they are.
type PortfolioUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// Create stores a new active portfolio dated today.
func (s *PortfolioService) Create(ctx context.Context, name, description string) (*domain.Portfolio, error) {
	portfolio, err := domain.NewPortfolio(domain.PortfolioParams{
		Name:        name,
		Description: description,
		IsActive:    true,
	})
	if err != nil {
		return nil, err
	}
	if err := portfolio.SetCreatedDate(domain.Today()); err != nil {
		return nil, err
	}

	err = runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Portfolios()
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, portfolio)
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create portfolio", "name", name, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "Portfolio created", "portfolio_id", portfolio.ID(), "name", portfolio.Name())
	return portfolio, nil
}

func (s *PortfolioService) Get(ctx context.Context, id string) (*domain.Portfolio, error) {
	var portfolio *domain.Portfolio
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		var err error
		portfolio, err = requirePortfolio(ctx, uow, id)
		return err
	})
	return portfolio, err
}

func (s *PortfolioService) List(ctx context.Context) ([]*domain.Portfolio, error) {
	return s.list(ctx, false)
}

func (s *PortfolioService) ListActive(ctx context.Context) ([]*domain.Portfolio, error) {
	return s.list(ctx, true)
}

func (s *PortfolioService) list(ctx context.Context, activeOnly bool) ([]*domain.Portfolio, error) {
	var portfolios []*domain.Portfolio
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Portfolios()
		if err != nil {
			return err
		}
		if activeOnly {
			portfolios, err = repo.GetActive(ctx)
		} else {
			portfolios, err = repo.GetAll(ctx)
		}
		return err
	})
	return portfolios, err
}

func (s *PortfolioService) Update(ctx context.Context, id string, update PortfolioUpdate) (*domain.Portfolio, error) {
	var portfolio *domain.Portfolio
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		var err error
		portfolio, err = requirePortfolio(ctx, uow, id)
		if err != nil {
			return err
		}
		if update.Name != nil {
			if err := portfolio.Rename(*update.Name); err != nil {
				return err
			}
		}
		if update.Description != nil {
			if err := portfolio.UpdateDescription(*update.Description); err != nil {
				return err
			}
		}
		if update.IsActive != nil {
			if *update.IsActive {
				portfolio.Activate()
			} else {
				portfolio.Deactivate()
			}
		}

		repo, err := uow.Portfolios()
		if err != nil {
			return err
		}
		ok, err := repo.Update(ctx, id, portfolio)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundError("portfolio", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}

func (s *PortfolioService) Activate(ctx context.Context, id string) (*domain.Portfolio, error) {
	active := true
	return s.Update(ctx, id, PortfolioUpdate{IsActive: &active})
}

func (s *PortfolioService) Deactivate(ctx context.Context, id string) (*domain.Portfolio, error) {
	active := false
	return s.Update(ctx, id, PortfolioUpdate{IsActive: &active})
}

// Delete also removes the portfolio's transactions, targets and balances.
func (s *PortfolioService) Delete(ctx context.Context, id string) error {
	return runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Portfolios()
		if err != nil {
			return err
		}
		ok, err := repo.Delete(ctx, id)
		return deleted(ok, err, "portfolio", id)
	})
}
