package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jmanzanog/stockbook/internal/domain"
	"github.com/jmanzanog/stockbook/internal/infrastructure/marketdata"
)

const defaultQuoteConcurrency = 4

type TargetService struct {
	newUnitOfWork    domain.UnitOfWorkFactory
	quoteConcurrency int
}

func NewTargetService(newUnitOfWork domain.UnitOfWorkFactory) *TargetService {
	return &TargetService{newUnitOfWork: newUnitOfWork, quoteConcurrency: defaultQuoteConcurrency}
}

// TargetEvaluation is the outcome of pricing one active target.
type TargetEvaluation struct {
	TargetID string
	Symbol   string
	Price    domain.Money
	Previous domain.TargetStatus
	Status   domain.TargetStatus
	Error    error
}

// Changed reports whether the evaluation moved the target out of its previous status.
func (e TargetEvaluation) Changed() bool {
	return e.Error == nil && e.Status != e.Previous
}

// Create checks that the portfolio and stock exist before storing the target.
func (s *TargetService) Create(ctx context.Context, params domain.TargetParams) (*domain.Target, error) {
	target, err := domain.NewTarget(params)
	if err != nil {
		return nil, err
	}

	err = runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		if _, err := requirePortfolio(ctx, uow, target.PortfolioID()); err != nil {
			return err
		}
		if _, err := requireStock(ctx, uow, target.StockID()); err != nil {
			return err
		}
		repo, err := uow.Targets()
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, target)
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create target",
			"portfolio_id", params.PortfolioID, "stock_id", params.StockID, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "Target created", "target_id", target.ID(),
		"pivot_price", target.PivotPrice(), "failure_price", target.FailurePrice())
	return target, nil
}

func (s *TargetService) Get(ctx context.Context, id string) (*domain.Target, error) {
	var target *domain.Target
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		var err error
		target, err = requireTarget(ctx, uow, id)
		return err
	})
	return target, err
}

func (s *TargetService) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Target, error) {
	return s.listByPortfolio(ctx, portfolioID, false)
}

func (s *TargetService) ListActiveByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Target, error) {
	return s.listByPortfolio(ctx, portfolioID, true)
}

func (s *TargetService) listByPortfolio(ctx context.Context, portfolioID string, activeOnly bool) ([]*domain.Target, error) {
	var targets []*domain.Target
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		if _, err := requirePortfolio(ctx, uow, portfolioID); err != nil {
			return err
		}
		repo, err := uow.Targets()
		if err != nil {
			return err
		}
		if activeOnly {
			targets, err = repo.GetActiveByPortfolio(ctx, portfolioID)
		} else {
			targets, err = repo.GetByPortfolio(ctx, portfolioID)
		}
		return err
	})
	return targets, err
}

// ChangeStatus moves a target to status; any status may follow any other.
func (s *TargetService) ChangeStatus(ctx context.Context, id, status string) (*domain.Target, error) {
	next, err := domain.NewTargetStatus(status)
	if err != nil {
		return nil, err
	}

	var target *domain.Target
	err = runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		var err error
		target, err = requireTarget(ctx, uow, id)
		if err != nil {
			return err
		}
		previous := target.Status()
		if err := target.TransitionTo(next); err != nil {
			return err
		}
		if err := s.save(ctx, uow, target); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Target status changed", "target_id", id, "from", previous, "to", next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (s *TargetService) Delete(ctx context.Context, id string) error {
	return runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Targets()
		if err != nil {
			return err
		}
		ok, err := repo.Delete(ctx, id)
		return deleted(ok, err, "target", id)
	})
}

// EvaluateActive prices the stock of every active target and marks targets whose
// price reached the pivot as hit and those at or below the failure price as failed.
// Quotes are fetched outside any transaction; the resulting transitions are
// persisted together in a single unit of work. Per-target pricing problems are
// reported in the result and do not abort the run.
func (s *TargetService) EvaluateActive(ctx context.Context, quotes marketdata.QuoteProvider) ([]TargetEvaluation, error) {
	var targets []*domain.Target
	symbols := make(map[string]string)
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Targets()
		if err != nil {
			return err
		}
		targets, err = repo.GetActive(ctx)
		if err != nil {
			return err
		}
		for _, t := range targets {
			if _, ok := symbols[t.StockID()]; ok {
				continue
			}
			stock, err := requireStock(ctx, uow, t.StockID())
			if err != nil {
				return err
			}
			symbols[t.StockID()] = stock.Symbol().String()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load active targets: %w", err)
	}
	if len(targets) == 0 {
		return []TargetEvaluation{}, nil
	}

	unique := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		if !seen[symbol] {
			seen[symbol] = true
			unique = append(unique, symbol)
		}
	}

	var prices map[string]*marketdata.QuoteResult
	var priceErrors map[string]error
	if batch, ok := quotes.(marketdata.BatchQuoteProvider); ok {
		slog.DebugContext(ctx, "Using batch provider for target quotes", "count", len(unique))
		prices, priceErrors = s.getQuotesBatch(ctx, batch, unique)
	} else {
		slog.DebugContext(ctx, "Batch provider not available, using concurrent quotes", "count", len(unique))
		prices, priceErrors = s.getQuotesConcurrent(ctx, quotes, unique)
	}

	results := make([]TargetEvaluation, 0, len(targets))
	for _, t := range targets {
		symbol := symbols[t.StockID()]
		result := TargetEvaluation{TargetID: t.ID(), Symbol: symbol, Previous: t.Status(), Status: t.Status()}
		if err, failed := priceErrors[symbol]; failed {
			result.Error = err
			results = append(results, result)
			continue
		}
		price, err := prices[symbol].Money()
		if err != nil {
			result.Error = err
			results = append(results, result)
			continue
		}
		result.Price = price
		result.Status, result.Error = t.Evaluate(price)
		results = append(results, result)
	}

	changed := 0
	err = runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		for _, r := range results {
			if !r.Changed() {
				continue
			}
			target, err := requireTarget(ctx, uow, r.TargetID)
			if err != nil {
				return err
			}
			// Skip targets whose status was changed by someone else since they were read.
			if target.Status() != r.Previous {
				continue
			}
			if err := target.TransitionTo(r.Status); err != nil {
				return err
			}
			if err := s.save(ctx, uow, target); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persist target transitions: %w", err)
	}

	slog.InfoContext(ctx, "Active targets evaluated", "evaluated", len(results), "changed", changed)
	return results, nil
}

func (s *TargetService) getQuotesBatch(ctx context.Context, provider marketdata.BatchQuoteProvider, symbols []string) (map[string]*marketdata.QuoteResult, map[string]error) {
	quotes := make(map[string]*marketdata.QuoteResult)
	errs := make(map[string]error)
	for _, r := range provider.GetQuoteBatch(ctx, symbols) {
		switch {
		case r.Error != nil:
			errs[r.Symbol] = r.Error
		case r.Quote == nil:
			errs[r.Symbol] = fmt.Errorf("no quote returned for %s", r.Symbol)
		default:
			quotes[r.Symbol] = r.Quote
		}
	}
	for _, symbol := range symbols {
		if _, ok := quotes[symbol]; ok {
			continue
		}
		if _, ok := errs[symbol]; !ok {
			errs[symbol] = fmt.Errorf("no quote returned for %s", symbol)
		}
	}
	return quotes, errs
}

func (s *TargetService) getQuotesConcurrent(ctx context.Context, provider marketdata.QuoteProvider, symbols []string) (map[string]*marketdata.QuoteResult, map[string]error) {
	var mu sync.Mutex
	quotes := make(map[string]*marketdata.QuoteResult)
	errs := make(map[string]error)

	var g errgroup.Group
	g.SetLimit(s.quoteConcurrency)
	for _, symbol := range symbols {
		g.Go(func() error {
			quote, err := provider.GetQuote(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[symbol] = err
				return nil
			}
			if quote == nil {
				errs[symbol] = fmt.Errorf("no quote returned for %s", symbol)
				return nil
			}
			quotes[symbol] = quote
			return nil
		})
	}
	_ = g.Wait()
	return quotes, errs
}

func (s *TargetService) save(ctx context.Context, uow domain.UnitOfWork, target *domain.Target) error {
	repo, err := uow.Targets()
	if err != nil {
		return err
	}
	ok, err := repo.Update(ctx, target.ID(), target)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundError("target", target.ID())
	}
	return nil
}

func requireTarget(ctx context.Context, uow domain.UnitOfWork, id string) (*domain.Target, error) {
	repo, err := uow.Targets()
	if err != nil {
		return nil, err
	}
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFoundError("target", id)
	}
	return t, nil
}
