package marketdata

import (
	"context"

	"github.com/jmanzanog/stockbook/internal/domain"
)

type QuoteResult struct {
	Symbol   string
	Price    domain.Decimal
	Currency string
	Time     string
}

// Money returns the quoted price in its currency, USD when the provider omits it.
func (q *QuoteResult) Money() (domain.Money, error) {
	return domain.NewMoney(q.Price, q.Currency)
}

// QuoteBatchResult holds either a quote or the error for one symbol of a batch.
type QuoteBatchResult struct {
	Symbol string
	Quote  *QuoteResult
	Error  error
}

type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*QuoteResult, error)
}

// BatchQuoteProvider is implemented by providers that can price many symbols in one call.
type BatchQuoteProvider interface {
	QuoteProvider
	GetQuoteBatch(ctx context.Context, symbols []string) []QuoteBatchResult
}
