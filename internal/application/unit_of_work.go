package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmanzanog/stockbook/internal/domain"
)

// runInUnitOfWork commits fn's work when it returns nil and rolls it back on error or panic.
// The unit of work is always closed.
func runInUnitOfWork(ctx context.Context, newUnitOfWork domain.UnitOfWorkFactory, fn func(uow domain.UnitOfWork) error) (err error) {
	uow := newUnitOfWork()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback()
			_ = uow.Close()
			panic(p)
		}
		if closeErr := uow.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close unit of work: %w", closeErr))
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

func requirePortfolio(ctx context.Context, uow domain.UnitOfWork, id string) (*domain.Portfolio, error) {
	repo, err := uow.Portfolios()
	if err != nil {
		return nil, err
	}
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFoundError("portfolio", id)
	}
	return p, nil
}

func requireStock(ctx context.Context, uow domain.UnitOfWork, id string) (*domain.Stock, error) {
	repo, err := uow.Stocks()
	if err != nil {
		return nil, err
	}
	s, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFoundError("stock", id)
	}
	return s, nil
}

// deleted maps a repository's affected flag to the service not-found convention.
func deleted(ok bool, err error, entity, id string) error {
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundError(entity, id)
	}
	return nil
}

func checkRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return &domain.ValidationError{Field: "date range", Reason: "from and to are required"}
	}
	if domain.DateOf(to).Before(domain.DateOf(from)) {
		return &domain.ValidationError{Field: "date range", Reason: "to must not be before from"}
	}
	return nil
}
