package application_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmanzanog/stockbook/internal/application"
	"github.com/jmanzanog/stockbook/internal/domain"
	"github.com/jmanzanog/stockbook/internal/infrastructure/marketdata"
	"github.com/jmanzanog/stockbook/internal/infrastructure/persistence/sqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	stocks       *application.StockService
	portfolios   *application.PortfolioService
	transactions *application.TransactionService
	targets      *application.TargetService
	balances     *application.BalanceService
	journal      *application.JournalService
}

func setupIntegrationDB(t *testing.T) services {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "stockbook.db") + "?_foreign_keys=on"
	db, err := sqldb.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	require.NoError(t, db.Migrate(context.Background()))

	validator := domain.NewSectorIndustryCatalog()
	return services{
		stocks:       application.NewStockService(db.NewUnitOfWork, validator),
		portfolios:   application.NewPortfolioService(db.NewUnitOfWork),
		transactions: application.NewTransactionService(db.NewUnitOfWork),
		targets:      application.NewTargetService(db.NewUnitOfWork),
		balances:     application.NewBalanceService(db.NewUnitOfWork),
		journal:      application.NewJournalService(db.NewUnitOfWork),
	}
}

func usd(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromString(amount, "USD")
	require.NoError(t, err)
	return m
}

func dec(t *testing.T, v string) domain.Decimal {
	t.Helper()
	d, err := domain.NewDecimalFromString(v)
	require.NoError(t, err)
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createStock(t *testing.T, svc services, symbol string) *domain.Stock {
	t.Helper()
	stock, err := svc.stocks.Create(context.Background(), domain.StockParams{
		Symbol:        symbol,
		Name:          symbol + " Inc.",
		Sector:        "Information Technology",
		IndustryGroup: "Software & Services",
	})
	require.NoError(t, err)
	return stock
}

func createPortfolio(t *testing.T, svc services, name string) *domain.Portfolio {
	t.Helper()
	p, err := svc.portfolios.Create(context.Background(), name, "")
	require.NoError(t, err)
	return p
}

func TestStockService(t *testing.T) {
	ctx := context.Background()
	svc := setupIntegrationDB(t)

	aapl := createStock(t, svc, "aapl")
	assert.Equal(t, "AAPL", aapl.Symbol().String())
	createStock(t, svc, "MSFT")

	t.Run("duplicate symbol", func(t *testing.T) {
		_, err := svc.stocks.Create(ctx, domain.StockParams{Symbol: "AAPL", Name: "Apple again"})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("unknown industry group", func(t *testing.T) {
		_, err := svc.stocks.Create(ctx, domain.StockParams{
			Symbol: "XOM", Name: "Exxon", Sector: "Energy", IndustryGroup: "Banks",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("get by symbol", func(t *testing.T) {
		got, err := svc.stocks.GetBySymbol(ctx, "AAPL")
		require.NoError(t, err)
		assert.True(t, got.Equal(aapl))

		_, err = svc.stocks.GetBySymbol(ctx, "NOPE")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("search", func(t *testing.T) {
		found, err := svc.stocks.Search(ctx, domain.StockSearch{Symbol: "AA"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "AAPL", found[0].Symbol().String())

		all, err := svc.stocks.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("update", func(t *testing.T) {
		grade := "b"
		updated, err := svc.stocks.Update(ctx, aapl.ID(), domain.StockUpdate{Grade: &grade})
		require.NoError(t, err)
		assert.Equal(t, domain.Grade("B"), updated.Grade())

		got, err := svc.stocks.Get(ctx, aapl.ID())
		require.NoError(t, err)
		assert.Equal(t, domain.Grade("B"), got.Grade())

		bad := "Z"
		_, err = svc.stocks.Update(ctx, aapl.ID(), domain.StockUpdate{Grade: &bad})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.stocks.Update(ctx, "missing", domain.StockUpdate{Grade: &grade})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.stocks.Delete(ctx, aapl.ID()))
		_, err := svc.stocks.Get(ctx, aapl.ID())
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, svc.stocks.Delete(ctx, aapl.ID()), domain.ErrNotFound)
	})
}

func TestPortfolioService(t *testing.T) {
	ctx := context.Background()
	svc := setupIntegrationDB(t)

	growth := createPortfolio(t, svc, "Growth")
	assert.True(t, growth.IsActive())
	assert.Equal(t, domain.Today(), growth.CreatedDate())
	createPortfolio(t, svc, "Income")

	_, err := svc.portfolios.Create(ctx, "Growth", "again")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	t.Run("update", func(t *testing.T) {
		name, description := "Aggressive Growth", "small caps"
		updated, err := svc.portfolios.Update(ctx, growth.ID(), application.PortfolioUpdate{
			Name: &name, Description: &description,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PortfolioName("Aggressive Growth"), updated.Name())
		assert.Equal(t, domain.PortfolioDescription("small caps"), updated.Description())
	})

	t.Run("deactivate", func(t *testing.T) {
		_, err := svc.portfolios.Deactivate(ctx, growth.ID())
		require.NoError(t, err)

		active, err := svc.portfolios.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, domain.PortfolioName("Income"), active[0].Name())

		all, err := svc.portfolios.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		reactivated, err := svc.portfolios.Activate(ctx, growth.ID())
		require.NoError(t, err)
		assert.True(t, reactivated.IsActive())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.portfolios.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = svc.portfolios.Deactivate(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, svc.portfolios.Delete(ctx, "missing"), domain.ErrNotFound)
	})
}

func TestTransactionService(t *testing.T) {
	ctx := context.Background()
	svc := setupIntegrationDB(t)
	stock := createStock(t, svc, "AAPL")
	portfolio := createPortfolio(t, svc, "Main")

	record := func(date time.Time) (*domain.Transaction, error) {
		return svc.transactions.Record(ctx, domain.TransactionParams{
			PortfolioID: portfolio.ID(),
			StockID:     stock.ID(),
			Type:        "buy",
			Quantity:    dec(t, "10"),
			Price:       usd(t, "150.25"),
			Date:        date,
		})
	}

	first, err := record(day(2024, 1, 10))
	require.NoError(t, err)
	_, err = record(day(2024, 2, 10))
	require.NoError(t, err)

	total, err := first.TotalValue()
	require.NoError(t, err)
	assert.Equal(t, "1502.50", total.Amount().String())

	t.Run("missing references", func(t *testing.T) {
		_, err := svc.transactions.Record(ctx, domain.TransactionParams{
			PortfolioID: portfolio.ID(), StockID: "missing", Type: "sell",
			Quantity: dec(t, "1"), Price: usd(t, "1"), Date: day(2024, 1, 1),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = svc.transactions.Record(ctx, domain.TransactionParams{
			PortfolioID: "missing", StockID: stock.ID(), Type: "sell",
			Quantity: dec(t, "1"), Price: usd(t, "1"), Date: day(2024, 1, 1),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		all, err := svc.transactions.ListByPortfolio(ctx, portfolio.ID())
		require.NoError(t, err)
		assert.Len(t, all, 2)

		january, err := svc.transactions.ListByDateRange(ctx, portfolio.ID(), day(2024, 1, 1), day(2024, 1, 31))
		require.NoError(t, err)
		require.Len(t, january, 1)
		assert.True(t, january[0].Equal(first))

		_, err = svc.transactions.ListByDateRange(ctx, portfolio.ID(), day(2024, 2, 1), day(2024, 1, 1))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.transactions.Delete(ctx, first.ID()))
		_, err := svc.transactions.Get(ctx, first.ID())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

type fakeQuotes struct {
	mu     sync.Mutex
	prices map[string]string
	calls  int
}

func (f *fakeQuotes) GetQuote(ctx context.Context, symbol string) (*marketdata.QuoteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	price, ok := f.prices[symbol]
	if !ok {
		return nil, errors.New("symbol not found")
	}
	d, err := domain.NewDecimalFromString(price)
	if err != nil {
		return nil, err
	}
	return &marketdata.QuoteResult{Symbol: symbol, Price: d, Currency: "USD"}, nil
}

// emptyQuotes answers every symbol with neither a quote nor an error.
type emptyQuotes struct{}

func (emptyQuotes) GetQuote(ctx context.Context, symbol string) (*marketdata.QuoteResult, error) {
	return nil, nil
}

type fakeBatchQuotes struct {
	fakeQuotes
	batchCalls int
}

func (f *fakeBatchQuotes) GetQuoteBatch(ctx context.Context, symbols []string) []marketdata.QuoteBatchResult {
	f.batchCalls++
	results := make([]marketdata.QuoteBatchResult, 0, len(symbols))
	for _, s := range symbols {
		q, err := f.GetQuote(ctx, s)
		results = append(results, marketdata.QuoteBatchResult{Symbol: s, Quote: q, Error: err})
	}
	return results
}

func TestTargetService(t *testing.T) {
	ctx := context.Background()
	svc := setupIntegrationDB(t)
	aapl := createStock(t, svc, "AAPL")
	portfolio := createPortfolio(t, svc, "Main")

	target, err := svc.targets.Create(ctx, domain.TargetParams{
		PortfolioID:  portfolio.ID(),
		StockID:      aapl.ID(),
		PivotPrice:   usd(t, "100"),
		FailurePrice: usd(t, "80"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TargetStatusActive, target.Status())

	t.Run("missing stock", func(t *testing.T) {
		_, err := svc.targets.Create(ctx, domain.TargetParams{
			PortfolioID: portfolio.ID(), StockID: "missing",
			PivotPrice: usd(t, "100"), FailurePrice: usd(t, "80"),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("change status", func(t *testing.T) {
		hit, err := svc.targets.ChangeStatus(ctx, target.ID(), "hit")
		require.NoError(t, err)
		assert.Equal(t, domain.TargetStatusHit, hit.Status())
		assert.True(t, hit.PivotPrice().Equal(usd(t, "100")))
		assert.True(t, hit.FailurePrice().Equal(usd(t, "80")))

		active, err := svc.targets.ListActiveByPortfolio(ctx, portfolio.ID())
		require.NoError(t, err)
		assert.Empty(t, active)

		_, err = svc.targets.ChangeStatus(ctx, target.ID(), "active")
		require.NoError(t, err)

		_, err = svc.targets.ChangeStatus(ctx, target.ID(), "bogus")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("delete", func(t *testing.T) {
		extra, err := svc.targets.Create(ctx, domain.TargetParams{
			PortfolioID: portfolio.ID(), StockID: aapl.ID(),
			PivotPrice: usd(t, "200"), FailurePrice: usd(t, "150"),
		})
		require.NoError(t, err)
		require.NoError(t, svc.targets.Delete(ctx, extra.ID()))
		assert.ErrorIs(t, svc.targets.Delete(ctx, extra.ID()), domain.ErrNotFound)

		all, err := svc.targets.ListByPortfolio(ctx, portfolio.ID())
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestTargetService_EvaluateActive(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (services, map[string]*domain.Target) {
		svc := setupIntegrationDB(t)
		portfolio := createPortfolio(t, svc, "Main")
		targets := make(map[string]*domain.Target)
		for symbol, prices := range map[string][2]string{
			"AAPL": {"100", "80"},
			"MSFT": {"300", "250"},
			"NVDA": {"500", "400"},
			"GOOG": {"150", "120"},
		} {
			stock := createStock(t, svc, symbol)
			target, err := svc.targets.Create(ctx, domain.TargetParams{
				PortfolioID:  portfolio.ID(),
				StockID:      stock.ID(),
				PivotPrice:   usd(t, prices[0]),
				FailurePrice: usd(t, prices[1]),
			})
			require.NoError(t, err)
			targets[symbol] = target
		}
		return svc, targets
	}

	prices := map[string]string{"AAPL": "105", "MSFT": "240", "NVDA": "450"}

	assertOutcome := func(t *testing.T, svc services, targets map[string]*domain.Target, results []application.TargetEvaluation) {
		require.Len(t, results, 4)
		bySymbol := make(map[string]application.TargetEvaluation)
		for _, r := range results {
			bySymbol[r.Symbol] = r
		}
		assert.Equal(t, domain.TargetStatusHit, bySymbol["AAPL"].Status)
		assert.Equal(t, domain.TargetStatusFailed, bySymbol["MSFT"].Status)
		assert.Equal(t, domain.TargetStatusActive, bySymbol["NVDA"].Status)
		assert.False(t, bySymbol["NVDA"].Changed())
		assert.Error(t, bySymbol["GOOG"].Error)

		want := map[string]domain.TargetStatus{
			"AAPL": domain.TargetStatusHit,
			"MSFT": domain.TargetStatusFailed,
			"NVDA": domain.TargetStatusActive,
			"GOOG": domain.TargetStatusActive,
		}
		for symbol, status := range want {
			got, err := svc.targets.Get(ctx, targets[symbol].ID())
			require.NoError(t, err)
			assert.Equal(t, status, got.Status(), symbol)
		}
	}

	t.Run("concurrent quotes", func(t *testing.T) {
		svc, targets := setup(t)
		quotes := &fakeQuotes{prices: prices}

		results, err := svc.targets.EvaluateActive(ctx, quotes)
		require.NoError(t, err)
		assertOutcome(t, svc, targets, results)
		assert.Equal(t, 4, quotes.calls)
	})

	t.Run("batch quotes", func(t *testing.T) {
		svc, targets := setup(t)
		quotes := &fakeBatchQuotes{fakeQuotes: fakeQuotes{prices: prices}}

		results, err := svc.targets.EvaluateActive(ctx, quotes)
		require.NoError(t, err)
		assertOutcome(t, svc, targets, results)
		assert.Equal(t, 1, quotes.batchCalls)
	})

	t.Run("missing quotes leave targets active", func(t *testing.T) {
		svc, targets := setup(t)

		var results []application.TargetEvaluation
		require.NotPanics(t, func() {
			var err error
			results, err = svc.targets.EvaluateActive(ctx, emptyQuotes{})
			require.NoError(t, err)
		})
		require.Len(t, results, 4)
		for _, r := range results {
			assert.ErrorContains(t, r.Error, "no quote returned", r.Symbol)
			assert.False(t, r.Changed(), r.Symbol)
		}
		for symbol, target := range targets {
			got, err := svc.targets.Get(ctx, target.ID())
			require.NoError(t, err)
			assert.Equal(t, domain.TargetStatusActive, got.Status(), symbol)
		}
	})

	t.Run("no active targets", func(t *testing.T) {
		svc := setupIntegrationDB(t)
		quotes := &fakeQuotes{}

		results, err := svc.targets.EvaluateActive(ctx, quotes)
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Zero(t, quotes.calls)
	})
}

func TestBalanceService(t *testing.T) {
	ctx := context.Background()
	svc := setupIntegrationDB(t)
	portfolio := createPortfolio(t, svc, "Main")

	deposits, withdrawals := usd(t, "1000.00"), usd(t, "500.00")
	indexChange := dec(t, "1.255")
	first, err := svc.balances.Record(ctx, domain.PortfolioBalanceParams{
		PortfolioID:  portfolio.ID(),
		Date:         day(2024, 3, 1),
		FinalBalance: usd(t, "10500.00"),
		Deposits:     &deposits,
		Withdrawals:  &withdrawals,
		IndexChange:  &indexChange,
	})
	require.NoError(t, err)

	netFlow, err := first.CalculateNetFlow()
	require.NoError(t, err)
	assert.True(t, netFlow.Equal(usd(t, "500.00")))
	assert.Equal(t, "1.26", first.IndexChange().String())

	second, err := svc.balances.Record(ctx, domain.PortfolioBalanceParams{
		PortfolioID:  portfolio.ID(),
		Date:         day(2024, 3, 2),
		FinalBalance: usd(t, "10600.00"),
	})
	require.NoError(t, err)

	t.Run("one balance per day", func(t *testing.T) {
		_, err := svc.balances.Record(ctx, domain.PortfolioBalanceParams{
			PortfolioID:  portfolio.ID(),
			Date:         day(2024, 3, 2),
			FinalBalance: usd(t, "1.00"),
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("missing portfolio", func(t *testing.T) {
		_, err := svc.balances.Record(ctx, domain.PortfolioBalanceParams{
			PortfolioID: "missing", Date: day(2024, 3, 2), FinalBalance: usd(t, "1.00"),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("latest", func(t *testing.T) {
		latest, err := svc.balances.Latest(ctx, portfolio.ID())
		require.NoError(t, err)
		assert.True(t, latest.Equal(second))

		_, err = svc.balances.Latest(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("range", func(t *testing.T) {
		got, err := svc.balances.ListByDateRange(ctx, portfolio.ID(), day(2024, 3, 1), day(2024, 3, 1))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].Equal(first))

		all, err := svc.balances.ListByPortfolio(ctx, portfolio.ID())
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.balances.Delete(ctx, second.ID()))
		_, err := svc.balances.Get(ctx, second.ID())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestJournalService(t *testing.T) {
	ctx := context.Background()
	svc := setupIntegrationDB(t)
	portfolio := createPortfolio(t, svc, "Main")

	older, err := svc.journal.Create(ctx, domain.JournalEntryParams{
		Date:        day(2024, 5, 1),
		Content:     "Opened the main portfolio.",
		PortfolioID: portfolio.ID(),
	})
	require.NoError(t, err)
	newer, err := svc.journal.Create(ctx, domain.JournalEntryParams{
		Date:    day(2024, 5, 3),
		Content: "Market looks toppy.",
	})
	require.NoError(t, err)

	t.Run("broken link", func(t *testing.T) {
		_, err := svc.journal.Create(ctx, domain.JournalEntryParams{Content: "x", StockID: "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		all, err := svc.journal.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.True(t, all[0].Equal(newer))
		assert.True(t, all[1].Equal(older))

		linked, err := svc.journal.ListByPortfolio(ctx, portfolio.ID())
		require.NoError(t, err)
		require.Len(t, linked, 1)
		assert.True(t, linked[0].Equal(older))
	})

	t.Run("range", func(t *testing.T) {
		got, err := svc.journal.ListByDateRange(ctx, day(2024, 5, 2), day(2024, 5, 31))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].Equal(newer))
	})

	t.Run("update content", func(t *testing.T) {
		updated, err := svc.journal.UpdateContent(ctx, older.ID(), "Opened main, first buy AAPL.")
		require.NoError(t, err)
		assert.Equal(t, domain.JournalContent("Opened main, first buy AAPL."), updated.Content())

		_, err = svc.journal.UpdateContent(ctx, older.ID(), "")
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.journal.UpdateContent(ctx, "missing", "x")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("portfolio delete unlinks entry", func(t *testing.T) {
		require.NoError(t, svc.portfolios.Delete(ctx, portfolio.ID()))
		got, err := svc.journal.Get(ctx, older.ID())
		require.NoError(t, err)
		assert.Empty(t, got.PortfolioID())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.journal.Delete(ctx, newer.ID()))
		assert.ErrorIs(t, svc.journal.Delete(ctx, newer.ID()), domain.ErrNotFound)
	})
}
