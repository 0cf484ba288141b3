package domain

import (
	"errors"
	"testing"
	"time"
)

func ptr(s string) *string { return &s }

func TestNewStock_SectorValidation(t *testing.T) {
	catalog := NewSectorIndustryCatalog()

	stock, err := NewStock(StockParams{
		Symbol:        "aapl",
		Name:          "Apple Inc.",
		Sector:        "Information Technology",
		IndustryGroup: "Technology Hardware & Equipment",
		Grade:         "A",
	}, catalog)
	if err != nil {
		t.Fatalf("NewStock failed: %v", err)
	}
	if stock.ID() == "" {
		t.Error("expected generated id")
	}
	if stock.Symbol() != "AAPL" {
		t.Errorf("expected AAPL, got %s", stock.Symbol())
	}
	if !stock.HasGrade() {
		t.Error("expected stock to be graded")
	}

	_, err = NewStock(StockParams{Symbol: "X", Sector: "Information Technology", IndustryGroup: "Banks"}, catalog)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for mismatched industry, got %v", err)
	}

	_, err = NewStock(StockParams{Symbol: "X", IndustryGroup: "Banks"}, catalog)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for industry without sector, got %v", err)
	}

	_, err = NewStock(StockParams{Symbol: "X", Sector: "Astrology"}, catalog)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for unknown sector, got %v", err)
	}

	// rehydration skips the catalog lookup
	if _, err := NewStock(StockParams{Symbol: "X", Sector: "Astrology"}, nil); err != nil {
		t.Errorf("expected nil validator to accept any sector, got %v", err)
	}
}

func TestStock_Apply(t *testing.T) {
	catalog := NewSectorIndustryCatalog()
	stock, err := NewStock(StockParams{
		Symbol:        "JPM",
		Name:          "JPMorgan",
		Sector:        "Financials",
		IndustryGroup: "Banks",
	}, catalog)
	if err != nil {
		t.Fatalf("NewStock failed: %v", err)
	}

	err = stock.Apply(StockUpdate{Name: ptr("JPMorgan Chase"), Grade: ptr("Z")}, catalog)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if stock.Name() != "JPMorgan" {
		t.Errorf("failed update must not change the name, got %s", stock.Name())
	}

	err = stock.Apply(StockUpdate{Sector: ptr("Information Technology")}, catalog)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if stock.IndustryGroup() != "" {
		t.Errorf("expected industry to be cleared on sector change, got %s", stock.IndustryGroup())
	}

	err = stock.Apply(StockUpdate{IndustryGroup: ptr("Software & Services"), Notes: ptr("moved")}, catalog)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if stock.IndustryGroup() != "Software & Services" || stock.Notes() != "moved" {
		t.Errorf("unexpected stock state: %s / %s", stock.IndustryGroup(), stock.Notes())
	}

	if !(StockUpdate{}).IsEmpty() {
		t.Error("expected zero update to be empty")
	}
}

func TestPortfolio_SetCreatedDate(t *testing.T) {
	p, err := NewPortfolio(PortfolioParams{Name: "Growth", IsActive: true})
	if err != nil {
		t.Fatalf("NewPortfolio failed: %v", err)
	}
	if !p.CreatedDate().IsZero() {
		t.Fatal("expected no created date")
	}

	if err := p.SetCreatedDate(time.Time{}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for zero date, got %v", err)
	}
	if err := p.SetCreatedDate(time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SetCreatedDate failed: %v", err)
	}
	if err := p.SetCreatedDate(time.Now()); !errors.Is(err, ErrCreatedDateAlreadySet) {
		t.Errorf("expected ErrCreatedDateAlreadySet, got %v", err)
	}
	if !p.CreatedDate().Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created date %v", p.CreatedDate())
	}

	p.Deactivate()
	if p.IsActive() {
		t.Error("expected inactive portfolio")
	}
	if err := p.Rename(""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error on empty rename, got %v", err)
	}
}

func TestTransaction_TotalValue(t *testing.T) {
	price, _ := MoneyFromString("150.25", "USD")
	tx, err := NewTransaction(TransactionParams{
		PortfolioID: "p1",
		StockID:     "s1",
		Type:        "buy",
		Quantity:    NewDecimalFromInt(10),
		Price:       price,
		Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("NewTransaction failed: %v", err)
	}
	if !tx.IsBuy() || tx.IsSell() {
		t.Error("expected a buy")
	}
	total, err := tx.TotalValue()
	if err != nil {
		t.Fatalf("TotalValue failed: %v", err)
	}
	if total.Amount().String() != "1502.50" {
		t.Errorf("expected 1502.50, got %s", total.Amount())
	}

	negative, _ := MoneyFromString("-1", "USD")
	_, err = NewTransaction(TransactionParams{
		PortfolioID: "p1", StockID: "s1", Type: "sell",
		Quantity: NewDecimalFromInt(1), Price: negative, Date: time.Now(),
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for negative price, got %v", err)
	}
}

func TestTarget_Evaluate(t *testing.T) {
	pivot, _ := MoneyFromString("200", "USD")
	failure, _ := MoneyFromString("150", "USD")
	target, err := NewTarget(TargetParams{PortfolioID: "p1", StockID: "s1", PivotPrice: pivot, FailurePrice: failure})
	if err != nil {
		t.Fatalf("NewTarget failed: %v", err)
	}
	if !target.IsActive() {
		t.Fatal("expected new target to be active")
	}
	if target.CreatedDate().IsZero() {
		t.Error("expected created date to default to today")
	}

	testCases := []struct {
		price    string
		expected TargetStatus
	}{
		{"205", TargetStatusHit},
		{"200", TargetStatusHit},
		{"175", TargetStatusActive},
		{"150", TargetStatusFailed},
		{"120", TargetStatusFailed},
	}
	for _, tc := range testCases {
		t.Run(tc.price, func(t *testing.T) {
			price, _ := MoneyFromString(tc.price, "USD")
			got, err := target.Evaluate(price)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}

	eur, _ := MoneyFromString("205", "EUR")
	if _, err := target.Evaluate(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}

	target.MarkAsHit()
	if target.Status() != TargetStatusHit {
		t.Errorf("expected hit, got %s", target.Status())
	}
	// any status may move to any other
	if err := target.TransitionTo(TargetStatusActive); err != nil || !target.IsActive() {
		t.Errorf("expected reactivation, got %v / %s", err, target.Status())
	}
	if err := target.TransitionTo("paused"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNewTarget_Validation(t *testing.T) {
	usd, _ := MoneyFromString("10", "USD")
	eur, _ := MoneyFromString("5", "EUR")
	zero := ZeroMoney("USD")

	if _, err := NewTarget(TargetParams{PortfolioID: "p", StockID: "s", PivotPrice: usd, FailurePrice: eur}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected currency validation error, got %v", err)
	}
	if _, err := NewTarget(TargetParams{PortfolioID: "p", StockID: "s", PivotPrice: zero, FailurePrice: usd}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected pivot validation error, got %v", err)
	}
}

func TestPortfolioBalance_CalculateNetFlow(t *testing.T) {
	final, _ := MoneyFromString("10000", "USD")
	deposits, _ := MoneyFromString("1000", "USD")
	withdrawals, _ := MoneyFromString("500", "USD")
	change := mustDecimalFromString("1.256")

	b, err := NewPortfolioBalance(PortfolioBalanceParams{
		PortfolioID:  "p1",
		Date:         time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC),
		FinalBalance: final,
		Deposits:     &deposits,
		Withdrawals:  &withdrawals,
		IndexChange:  &change,
	})
	if err != nil {
		t.Fatalf("NewPortfolioBalance failed: %v", err)
	}
	net, err := b.CalculateNetFlow()
	if err != nil {
		t.Fatalf("CalculateNetFlow failed: %v", err)
	}
	if net.Amount().String() != "500" {
		t.Errorf("expected 500, got %s", net.Amount())
	}
	if b.IndexChange() == nil || b.IndexChange().String() != "1.26" {
		t.Errorf("expected index change 1.26, got %v", b.IndexChange())
	}

	bare, err := NewPortfolioBalance(PortfolioBalanceParams{PortfolioID: "p1", Date: time.Now(), FinalBalance: final})
	if err != nil {
		t.Fatalf("NewPortfolioBalance failed: %v", err)
	}
	if !bare.Deposits().IsZero() || !bare.Withdrawals().IsZero() || bare.IndexChange() != nil {
		t.Error("expected zero flows and no index change")
	}

	negative, _ := MoneyFromString("-1", "USD")
	if _, err := NewPortfolioBalance(PortfolioBalanceParams{PortfolioID: "p1", Date: time.Now(), FinalBalance: final, Deposits: &negative}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for negative deposits, got %v", err)
	}

	tooBig := NewDecimalFromInt(150)
	if _, err := NewPortfolioBalance(PortfolioBalanceParams{PortfolioID: "p1", Date: time.Now(), FinalBalance: final, IndexChange: &tooBig}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for index change, got %v", err)
	}
}

func TestJournalEntry(t *testing.T) {
	entry, err := NewJournalEntry(JournalEntryParams{Content: "Bought the dip"})
	if err != nil {
		t.Fatalf("NewJournalEntry failed: %v", err)
	}
	if !entry.Date().Equal(Today()) {
		t.Errorf("expected today, got %v", entry.Date())
	}
	entry.LinkStock("s1")
	entry.LinkPortfolio("p1")
	entry.LinkTransaction("t1")
	if entry.StockID() != "s1" || entry.PortfolioID() != "p1" || entry.TransactionID() != "t1" {
		t.Error("expected links to be set")
	}
	if err := entry.UpdateContent(""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if entry.Content() != "Bought the dip" {
		t.Errorf("failed update must not change content, got %q", entry.Content())
	}

	other, _ := NewJournalEntry(JournalEntryParams{ID: entry.ID(), Content: "different"})
	if !entry.Equal(other) {
		t.Error("entries with the same id must be equal")
	}
}
