package domain

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// DefaultCurrency is used when a monetary value is built without an explicit currency.
const DefaultCurrency = "USD"

// Money is an exact decimal amount in a given ISO 4217 currency.
type Money struct {
	amount   Decimal
	currency string
}

// NewMoney validates the currency code against the go-money catalog.
func NewMoney(amount Decimal, currency string) (Money, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}
	if money.GetCurrency(code) == nil {
		return Money{}, invalid("currency", "unknown currency code %q", currency)
	}
	return Money{amount: amount, currency: code}, nil
}

// MoneyFromString parses amount and builds a Money in currency.
func MoneyFromString(amount, currency string) (Money, error) {
	d, err := NewDecimalFromString(amount)
	if err != nil {
		return Money{}, invalid("amount", "%v", err)
	}
	return NewMoney(d, currency)
}

// ZeroMoney returns a zero amount in currency, falling back to DefaultCurrency.
func ZeroMoney(currency string) Money {
	m, err := NewMoney(Zero, currency)
	if err != nil {
		return Money{amount: Zero, currency: DefaultCurrency}
	}
	return m
}

func (m Money) Amount() Decimal  { return m.amount }
func (m Money) Currency() string { return m.currency }
func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) Cmp(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return m.amount.Cmp(other.amount), nil
}

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	sum, err := m.amount.Add(other.amount)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: sum, currency: m.currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	diff, err := m.amount.Sub(other.amount)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: diff, currency: m.currency}, nil
}

func (m Money) Mul(q Quantity) (Money, error) {
	product, err := m.amount.Mul(q.Decimal())
	if err != nil {
		return Money{}, err
	}
	return Money{amount: product, currency: m.currency}, nil
}

// Rounded rounds the amount to the currency's minor unit.
func (m Money) Rounded() (Money, error) {
	r, err := m.amount.Round(int32(m.fraction()))
	if err != nil {
		return Money{}, err
	}
	return Money{amount: r, currency: m.currency}, nil
}

// String formats the amount with the currency's symbol and separators, e.g. "$1,000.00".
func (m Money) String() string {
	cur := money.GetCurrency(m.currency)
	if cur == nil {
		return m.amount.String() + " " + m.currency
	}
	rounded, err := m.amount.Round(int32(cur.Fraction))
	if err != nil {
		return m.amount.String() + " " + m.currency
	}
	minor := Decimal{}
	minor.Coeff.Set(&rounded.Coeff)
	minor.Negative = rounded.Negative
	units, err := minor.Int64()
	if err != nil {
		return m.amount.String() + " " + m.currency
	}
	return cur.Formatter().Format(units)
}

func (m Money) fraction() int {
	if cur := money.GetCurrency(m.currency); cur != nil {
		return cur.Fraction
	}
	return 2
}
