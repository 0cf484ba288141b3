package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stockbook/internal/application"
	"github.com/jmanzanog/stockbook/internal/domain"
	"github.com/jmanzanog/stockbook/internal/infrastructure/marketdata"
)

type StockService interface {
	Create(ctx context.Context, params domain.StockParams) (*domain.Stock, error)
	Get(ctx context.Context, id string) (*domain.Stock, error)
	Search(ctx context.Context, filter domain.StockSearch) ([]*domain.Stock, error)
	Update(ctx context.Context, id string, update domain.StockUpdate) (*domain.Stock, error)
	Delete(ctx context.Context, id string) error
}

type PortfolioService interface {
	Create(ctx context.Context, name, description string) (*domain.Portfolio, error)
	Get(ctx context.Context, id string) (*domain.Portfolio, error)
	List(ctx context.Context) ([]*domain.Portfolio, error)
	ListActive(ctx context.Context) ([]*domain.Portfolio, error)
	Update(ctx context.Context, id string, update application.PortfolioUpdate) (*domain.Portfolio, error)
	Activate(ctx context.Context, id string) (*domain.Portfolio, error)
	Deactivate(ctx context.Context, id string) (*domain.Portfolio, error)
	Delete(ctx context.Context, id string) error
}

type TransactionService interface {
	Record(ctx context.Context, params domain.TransactionParams) (*domain.Transaction, error)
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Transaction, error)
	ListByDateRange(ctx context.Context, portfolioID string, from, to time.Time) ([]*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
}

type TargetService interface {
	Create(ctx context.Context, params domain.TargetParams) (*domain.Target, error)
	Get(ctx context.Context, id string) (*domain.Target, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Target, error)
	ListActiveByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Target, error)
	ChangeStatus(ctx context.Context, id, status string) (*domain.Target, error)
	Delete(ctx context.Context, id string) error
	EvaluateActive(ctx context.Context, quotes marketdata.QuoteProvider) ([]application.TargetEvaluation, error)
}

type BalanceService interface {
	Record(ctx context.Context, params domain.PortfolioBalanceParams) (*domain.PortfolioBalance, error)
	Get(ctx context.Context, id string) (*domain.PortfolioBalance, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.PortfolioBalance, error)
	ListByDateRange(ctx context.Context, portfolioID string, from, to time.Time) ([]*domain.PortfolioBalance, error)
	Latest(ctx context.Context, portfolioID string) (*domain.PortfolioBalance, error)
	Delete(ctx context.Context, id string) error
}

type JournalService interface {
	Create(ctx context.Context, params domain.JournalEntryParams) (*domain.JournalEntry, error)
	Get(ctx context.Context, id string) (*domain.JournalEntry, error)
	List(ctx context.Context) ([]*domain.JournalEntry, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.JournalEntry, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.JournalEntry, error)
	UpdateContent(ctx context.Context, id, content string) (*domain.JournalEntry, error)
	Delete(ctx context.Context, id string) error
}

// Services groups the application services the handler delegates to.
// Quotes may be nil, in which case on-demand target evaluation is unavailable.
type Services struct {
	Stocks       StockService
	Portfolios   PortfolioService
	Transactions TransactionService
	Targets      TargetService
	Balances     BalanceService
	Journal      JournalService
	Quotes       marketdata.QuoteProvider
}

type Handler struct {
	stocks       StockService
	portfolios   PortfolioService
	transactions TransactionService
	targets      TargetService
	balances     BalanceService
	journal      JournalService
	quotes       marketdata.QuoteProvider
}

func NewHandler(s Services) *Handler {
	return &Handler{
		stocks:       s.Stocks,
		portfolios:   s.Portfolios,
		transactions: s.Transactions,
		targets:      s.Targets,
		balances:     s.Balances,
		journal:      s.Journal,
		quotes:       s.Quotes,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrCurrencyMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with the status its kind maps to. Server errors are logged at
// error level, client errors at info.
func fail(c *gin.Context, msg string, err error, attrs ...any) {
	status := statusFor(err)
	attrs = append(attrs, "status", status, "error", err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), msg, attrs...)
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}
	slog.InfoContext(c.Request.Context(), msg, attrs...)
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	slog.InfoContext(c.Request.Context(), "Invalid request", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: "must be a YYYY-MM-DD date"}
	}
	return t, nil
}

func parseOptionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseDate(field, value)
}

// dateRange reads the from/to query parameters. ok is false when neither is given.
func dateRange(c *gin.Context) (from, to time.Time, ok bool, err error) {
	rawFrom, rawTo := c.Query("from"), c.Query("to")
	if rawFrom == "" && rawTo == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if rawFrom == "" || rawTo == "" {
		return time.Time{}, time.Time{}, false, &domain.ValidationError{Field: "date range", Reason: "from and to must be given together"}
	}
	if from, err = parseDate("from", rawFrom); err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	if to, err = parseDate("to", rawTo); err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	return from, to, true, nil
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
