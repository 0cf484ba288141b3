package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionParams struct {
	ID          string
	PortfolioID string
	StockID     string
	Type        string
	Quantity    Decimal
	Price       Money
	Date        time.Time
	Notes       string
}

// Transaction is a single buy or sell of a stock inside a portfolio.
type Transaction struct {
	id          string
	portfolioID string
	stockID     string
	txType      TransactionType
	quantity    Quantity
	price       Money
	date        time.Time
	notes       Notes
}

func NewTransaction(p TransactionParams) (*Transaction, error) {
	if p.PortfolioID == "" {
		return nil, invalid("portfolio id", "must not be empty")
	}
	if p.StockID == "" {
		return nil, invalid("stock id", "must not be empty")
	}
	txType, err := NewTransactionType(p.Type)
	if err != nil {
		return nil, err
	}
	quantity, err := NewQuantity(p.Quantity)
	if err != nil {
		return nil, err
	}
	if p.Price.Currency() == "" {
		return nil, invalid("price", "must have a currency")
	}
	if p.Price.IsNegative() {
		return nil, invalid("price", "must not be negative, got %s", p.Price.Amount())
	}
	if p.Date.IsZero() {
		return nil, invalid("date", "must not be zero")
	}
	notes, err := NewNotes(p.Notes)
	if err != nil {
		return nil, err
	}

	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}

	return &Transaction{
		id:          id,
		portfolioID: p.PortfolioID,
		stockID:     p.StockID,
		txType:      txType,
		quantity:    quantity,
		price:       p.Price,
		date:        DateOf(p.Date),
		notes:       notes,
	}, nil
}

func (t *Transaction) ID() string            { return t.id }
func (t *Transaction) PortfolioID() string   { return t.portfolioID }
func (t *Transaction) StockID() string       { return t.stockID }
func (t *Transaction) Type() TransactionType { return t.txType }
func (t *Transaction) Quantity() Quantity    { return t.quantity }
func (t *Transaction) Price() Money          { return t.price }
func (t *Transaction) Date() time.Time       { return t.date }
func (t *Transaction) Notes() Notes          { return t.notes }
func (t *Transaction) IsBuy() bool           { return t.txType == TransactionTypeBuy }
func (t *Transaction) IsSell() bool          { return t.txType == TransactionTypeSell }

func (t *Transaction) Equal(other *Transaction) bool {
	return other != nil && t.id == other.id
}

// TotalValue is price times quantity.
func (t *Transaction) TotalValue() (Money, error) {
	return t.price.Mul(t.quantity)
}

func (t *Transaction) UpdateNotes(notes string) error {
	v, err := NewNotes(notes)
	if err != nil {
		return err
	}
	t.notes = v
	return nil
}
