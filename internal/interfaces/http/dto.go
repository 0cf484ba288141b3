package http

import (
	"time"

	"github.com/jmanzanog/stockbook/internal/application"
	"github.com/jmanzanog/stockbook/internal/domain"
)

type MoneyDTO struct {
	Amount   domain.Decimal `json:"amount"`
	Currency string         `json:"currency"`
}

func toMoneyDTO(m domain.Money) MoneyDTO {
	return MoneyDTO{Amount: m.Amount(), Currency: m.Currency()}
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Stocks

type CreateStockRequest struct {
	Symbol        string `json:"symbol" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Sector        string `json:"sector"`
	IndustryGroup string `json:"industry_group"`
	Grade         string `json:"grade"`
	Notes         string `json:"notes"`
}

type UpdateStockRequest struct {
	Name          *string `json:"name"`
	Sector        *string `json:"sector"`
	IndustryGroup *string `json:"industry_group"`
	Grade         *string `json:"grade"`
	Notes         *string `json:"notes"`
}

type StockResponse struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Sector        string `json:"sector,omitempty"`
	IndustryGroup string `json:"industry_group,omitempty"`
	Grade         string `json:"grade,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

func toStockResponse(s *domain.Stock) StockResponse {
	return StockResponse{
		ID:            s.ID(),
		Symbol:        s.Symbol().String(),
		Name:          string(s.Name()),
		Sector:        string(s.Sector()),
		IndustryGroup: string(s.IndustryGroup()),
		Grade:         string(s.Grade()),
		Notes:         string(s.Notes()),
	}
}

// Portfolios

type CreatePortfolioRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdatePortfolioRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type PortfolioResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedDate string `json:"created_date,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func toPortfolioResponse(p *domain.Portfolio) PortfolioResponse {
	resp := PortfolioResponse{
		ID:          p.ID(),
		Name:        string(p.Name()),
		Description: string(p.Description()),
		IsActive:    p.IsActive(),
	}
	if !p.CreatedDate().IsZero() {
		resp.CreatedDate = formatDate(p.CreatedDate())
	}
	return resp
}

// Transactions

type RecordTransactionRequest struct {
	StockID  string         `json:"stock_id" binding:"required"`
	Type     string         `json:"type" binding:"required"`
	Quantity domain.Decimal `json:"quantity"`
	Price    domain.Decimal `json:"price"`
	Currency string         `json:"currency"`
	Date     string         `json:"date" binding:"required"`
	Notes    string         `json:"notes"`
}

type TransactionResponse struct {
	ID          string         `json:"id"`
	PortfolioID string         `json:"portfolio_id"`
	StockID     string         `json:"stock_id"`
	Type        string         `json:"type"`
	Quantity    domain.Decimal `json:"quantity"`
	Price       MoneyDTO       `json:"price"`
	TotalValue  MoneyDTO       `json:"total_value"`
	Date        string         `json:"date"`
	Notes       string         `json:"notes,omitempty"`
}

func toTransactionResponse(t *domain.Transaction) (TransactionResponse, error) {
	total, err := t.TotalValue()
	if err != nil {
		return TransactionResponse{}, err
	}
	total, err = total.Rounded()
	if err != nil {
		return TransactionResponse{}, err
	}
	return TransactionResponse{
		ID:          t.ID(),
		PortfolioID: t.PortfolioID(),
		StockID:     t.StockID(),
		Type:        string(t.Type()),
		Quantity:    t.Quantity().Decimal(),
		Price:       toMoneyDTO(t.Price()),
		TotalValue:  toMoneyDTO(total),
		Date:        formatDate(t.Date()),
		Notes:       string(t.Notes()),
	}, nil
}

// Targets

type CreateTargetRequest struct {
	StockID      string         `json:"stock_id" binding:"required"`
	PivotPrice   domain.Decimal `json:"pivot_price"`
	FailurePrice domain.Decimal `json:"failure_price"`
	Currency     string         `json:"currency"`
	Status       string         `json:"status"`
	CreatedDate  string         `json:"created_date"`
	Notes        string         `json:"notes"`
}

type ChangeTargetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type TargetResponse struct {
	ID           string   `json:"id"`
	PortfolioID  string   `json:"portfolio_id"`
	StockID      string   `json:"stock_id"`
	PivotPrice   MoneyDTO `json:"pivot_price"`
	FailurePrice MoneyDTO `json:"failure_price"`
	Status       string   `json:"status"`
	CreatedDate  string   `json:"created_date"`
	Notes        string   `json:"notes,omitempty"`
}

func toTargetResponse(t *domain.Target) TargetResponse {
	return TargetResponse{
		ID:           t.ID(),
		PortfolioID:  t.PortfolioID(),
		StockID:      t.StockID(),
		PivotPrice:   toMoneyDTO(t.PivotPrice()),
		FailurePrice: toMoneyDTO(t.FailurePrice()),
		Status:       string(t.Status()),
		CreatedDate:  formatDate(t.CreatedDate()),
		Notes:        string(t.Notes()),
	}
}

type TargetEvaluationResponse struct {
	TargetID string    `json:"target_id"`
	Symbol   string    `json:"symbol"`
	Price    *MoneyDTO `json:"price,omitempty"`
	Previous string    `json:"previous_status"`
	Status   string    `json:"status"`
	Changed  bool      `json:"changed"`
	Error    string    `json:"error,omitempty"`
}

func toTargetEvaluationResponse(e application.TargetEvaluation) TargetEvaluationResponse {
	resp := TargetEvaluationResponse{
		TargetID: e.TargetID,
		Symbol:   e.Symbol,
		Previous: string(e.Previous),
		Status:   string(e.Status),
		Changed:  e.Changed(),
	}
	if e.Error != nil {
		resp.Error = e.Error.Error()
	} else {
		price := toMoneyDTO(e.Price)
		resp.Price = &price
	}
	return resp
}

// Balances

type RecordBalanceRequest struct {
	Date         string          `json:"date" binding:"required"`
	FinalBalance domain.Decimal  `json:"final_balance"`
	Currency     string          `json:"currency"`
	Deposits     *domain.Decimal `json:"deposits"`
	Withdrawals  *domain.Decimal `json:"withdrawals"`
	IndexChange  *domain.Decimal `json:"index_change"`
}

type BalanceResponse struct {
	ID           string          `json:"id"`
	PortfolioID  string          `json:"portfolio_id"`
	Date         string          `json:"date"`
	FinalBalance MoneyDTO        `json:"final_balance"`
	Deposits     MoneyDTO        `json:"deposits"`
	Withdrawals  MoneyDTO        `json:"withdrawals"`
	NetFlow      MoneyDTO        `json:"net_flow"`
	IndexChange  *domain.Decimal `json:"index_change,omitempty"`
}

func toBalanceResponse(b *domain.PortfolioBalance) (BalanceResponse, error) {
	netFlow, err := b.CalculateNetFlow()
	if err != nil {
		return BalanceResponse{}, err
	}
	netFlow, err = netFlow.Rounded()
	if err != nil {
		return BalanceResponse{}, err
	}
	resp := BalanceResponse{
		ID:           b.ID(),
		PortfolioID:  b.PortfolioID(),
		Date:         formatDate(b.Date()),
		FinalBalance: toMoneyDTO(b.FinalBalance()),
		Deposits:     toMoneyDTO(b.Deposits()),
		Withdrawals:  toMoneyDTO(b.Withdrawals()),
		NetFlow:      toMoneyDTO(netFlow),
	}
	if ic := b.IndexChange(); ic != nil {
		d := ic.Decimal()
		resp.IndexChange = &d
	}
	return resp, nil
}

// Journal

type CreateJournalEntryRequest struct {
	Date          string `json:"date"`
	Content       string `json:"content" binding:"required"`
	PortfolioID   string `json:"portfolio_id"`
	StockID       string `json:"stock_id"`
	TransactionID string `json:"transaction_id"`
}

type UpdateJournalEntryRequest struct {
	Content string `json:"content" binding:"required"`
}

type JournalEntryResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Content       string `json:"content"`
	PortfolioID   string `json:"portfolio_id,omitempty"`
	StockID       string `json:"stock_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

func toJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		ID:            e.ID(),
		Date:          formatDate(e.Date()),
		Content:       string(e.Content()),
		PortfolioID:   e.PortfolioID(),
		StockID:       e.StockID(),
		TransactionID: e.TransactionID(),
	}
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

func mapSliceErr[T, R any](items []T, fn func(T) (R, error)) ([]R, error) {
	out := make([]R, 0, len(items))
	for _, item := range items {
		r, err := fn(item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
