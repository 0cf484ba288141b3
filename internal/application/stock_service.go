package application

import (
	"context"
	"log/slog"

	"github.com/jmanzanog/stockbook/internal/domain"
)

type StockService struct {
	newUnitOfWork domain.UnitOfWorkFactory
	validator     domain.SectorIndustryValidator
}

func NewStockService(newUnitOfWork domain.UnitOfWorkFactory, validator domain.SectorIndustryValidator) *StockService {
	return &StockService{newUnitOfWork: newUnitOfWork, validator: validator}
}

// Create rejects a symbol that is already tracked.
func (s *StockService) Create(ctx context.Context, params domain.StockParams) (*domain.Stock, error) {
	stock, err := domain.NewStock(params, s.validator)
	if err != nil {
		return nil, err
	}

	err = runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Stocks()
		if err != nil {
			return err
		}
		exists, err := repo.ExistsBySymbol(ctx, stock.Symbol().String())
		if err != nil {
			return err
		}
		if exists {
			return &domain.AlreadyExistsError{Entity: "stock", Field: "symbol", Value: stock.Symbol().String()}
		}
		_, err = repo.Create(ctx, stock)
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create stock", "symbol", params.Symbol, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "Stock created", "stock_id", stock.ID(), "symbol", stock.Symbol())
	return stock, nil
}

func (s *StockService) Get(ctx context.Context, id string) (*domain.Stock, error) {
	var stock *domain.Stock
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		var err error
		stock, err = requireStock(ctx, uow, id)
		return err
	})
	return stock, err
}

func (s *StockService) GetBySymbol(ctx context.Context, symbol string) (*domain.Stock, error) {
	var stock *domain.Stock
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Stocks()
		if err != nil {
			return err
		}
		stock, err = repo.GetBySymbol(ctx, symbol)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.NotFoundError("stock", symbol)
		}
		return nil
	})
	return stock, err
}

func (s *StockService) List(ctx context.Context) ([]*domain.Stock, error) {
	return s.Search(ctx, domain.StockSearch{})
}

func (s *StockService) Search(ctx context.Context, filter domain.StockSearch) ([]*domain.Stock, error) {
	var stocks []*domain.Stock
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Stocks()
		if err != nil {
			return err
		}
		stocks, err = repo.Search(ctx, filter)
		return err
	})
	return stocks, err
}

// Update applies every supplied field or none of them.
func (s *StockService) Update(ctx context.Context, id string, update domain.StockUpdate) (*domain.Stock, error) {
	var stock *domain.Stock
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		var err error
		stock, err = requireStock(ctx, uow, id)
		if err != nil {
			return err
		}
		if update.IsEmpty() {
			return nil
		}
		if err := stock.Apply(update, s.validator); err != nil {
			return err
		}
		repo, err := uow.Stocks()
		if err != nil {
			return err
		}
		ok, err := repo.Update(ctx, id, stock)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundError("stock", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stock, nil
}

func (s *StockService) Delete(ctx context.Context, id string) error {
	return runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Stocks()
		if err != nil {
			return err
		}
		ok, err := repo.Delete(ctx, id)
		return deleted(ok, err, "stock", id)
	})
}
