package domain

import (
	"time"

	"github.com/google/uuid"
)

type JournalEntryParams struct {
	ID            string
	Date          time.Time
	Content       string
	PortfolioID   string
	StockID       string
	TransactionID string
}

// JournalEntry is a dated free-text note, optionally tied to a portfolio, stock or transaction.
// Empty link ids mean "not linked".
type JournalEntry struct {
	id            string
	date          time.Time
	content       JournalContent
	portfolioID   string
	stockID       string
	transactionID string
}

func NewJournalEntry(p JournalEntryParams) (*JournalEntry, error) {
	content, err := NewJournalContent(p.Content)
	if err != nil {
		return nil, err
	}
	date := p.Date
	if date.IsZero() {
		date = Today()
	}

	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}

	return &JournalEntry{
		id:            id,
		date:          DateOf(date),
		content:       content,
		portfolioID:   p.PortfolioID,
		stockID:       p.StockID,
		transactionID: p.TransactionID,
	}, nil
}

func (j *JournalEntry) ID() string              { return j.id }
func (j *JournalEntry) Date() time.Time         { return j.date }
func (j *JournalEntry) Content() JournalContent { return j.content }
func (j *JournalEntry) PortfolioID() string     { return j.portfolioID }
func (j *JournalEntry) StockID() string         { return j.stockID }
func (j *JournalEntry) TransactionID() string   { return j.transactionID }

func (j *JournalEntry) Equal(other *JournalEntry) bool {
	return other != nil && j.id == other.id
}

func (j *JournalEntry) UpdateContent(content string) error {
	v, err := NewJournalContent(content)
	if err != nil {
		return err
	}
	j.content = v
	return nil
}

func (j *JournalEntry) LinkPortfolio(id string)   { j.portfolioID = id }
func (j *JournalEntry) LinkStock(id string)       { j.stockID = id }
func (j *JournalEntry) LinkTransaction(id string) { j.transactionID = id }
