package domain

import (
	"time"

	"github.com/google/uuid"
)

type PortfolioBalanceParams struct {
	ID           string
	PortfolioID  string
	Date         time.Time
	FinalBalance Money
	Deposits     *Money
	Withdrawals  *Money
	IndexChange  *Decimal
}

// PortfolioBalance is the end-of-day value of a portfolio together with the cash that moved in and out.
type PortfolioBalance struct {
	id           string
	portfolioID  string
	date         time.Time
	finalBalance Money
	deposits     Money
	withdrawals  Money
	indexChange  *IndexChange
}

// NewPortfolioBalance defaults deposits and withdrawals to zero in the final balance currency.
func NewPortfolioBalance(p PortfolioBalanceParams) (*PortfolioBalance, error) {
	if p.PortfolioID == "" {
		return nil, invalid("portfolio id", "must not be empty")
	}
	if p.Date.IsZero() {
		return nil, invalid("date", "must not be zero")
	}
	currency := p.FinalBalance.Currency()
	if currency == "" {
		return nil, invalid("final balance", "must have a currency")
	}

	deposits := ZeroMoney(currency)
	if p.Deposits != nil {
		deposits = *p.Deposits
	}
	withdrawals := ZeroMoney(currency)
	if p.Withdrawals != nil {
		withdrawals = *p.Withdrawals
	}
	if deposits.IsNegative() {
		return nil, invalid("deposits", "must not be negative, got %s", deposits.Amount())
	}
	if withdrawals.IsNegative() {
		return nil, invalid("withdrawals", "must not be negative, got %s", withdrawals.Amount())
	}
	if deposits.Currency() != currency || withdrawals.Currency() != currency {
		return nil, invalid("currency", "deposits and withdrawals must be in %s", currency)
	}

	var indexChange *IndexChange
	if p.IndexChange != nil {
		ic, err := NewIndexChange(*p.IndexChange)
		if err != nil {
			return nil, err
		}
		indexChange = &ic
	}

	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}

	return &PortfolioBalance{
		id:           id,
		portfolioID:  p.PortfolioID,
		date:         DateOf(p.Date),
		finalBalance: p.FinalBalance,
		deposits:     deposits,
		withdrawals:  withdrawals,
		indexChange:  indexChange,
	}, nil
}

func (b *PortfolioBalance) ID() string          { return b.id }
func (b *PortfolioBalance) PortfolioID() string { return b.portfolioID }
func (b *PortfolioBalance) Date() time.Time     { return b.date }
func (b *PortfolioBalance) FinalBalance() Money { return b.finalBalance }
func (b *PortfolioBalance) Deposits() Money     { return b.deposits }
func (b *PortfolioBalance) Withdrawals() Money  { return b.withdrawals }

// IndexChange is nil when no index move was recorded for the day.
func (b *PortfolioBalance) IndexChange() *IndexChange { return b.indexChange }

func (b *PortfolioBalance) Equal(other *PortfolioBalance) bool {
	return other != nil && b.id == other.id
}

// CalculateNetFlow is deposits minus withdrawals.
func (b *PortfolioBalance) CalculateNetFlow() (Money, error) {
	return b.deposits.Sub(b.withdrawals)
}
