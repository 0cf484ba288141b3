package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stockbook/internal/domain"
)

func (h *Handler) RecordTransaction(c *gin.Context) {
	portfolioID := c.Param("id")

	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	price, err := domain.NewMoney(req.Price, req.Currency)
	if err != nil {
		badRequest(c, err)
		return
	}

	tx, err := h.transactions.Record(c.Request.Context(), domain.TransactionParams{
		PortfolioID: portfolioID,
		StockID:     req.StockID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Price:       price,
		Date:        date,
		Notes:       req.Notes,
	})
	if err != nil {
		fail(c, "Failed to record transaction", err, "portfolio_id", portfolioID, "stock_id", req.StockID)
		return
	}

	resp, err := toTransactionResponse(tx)
	if err != nil {
		fail(c, "Failed to render transaction", err, "transaction_id", tx.ID())
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListTransactions narrows to an inclusive date range when from and to are given.
func (h *Handler) ListTransactions(c *gin.Context) {
	portfolioID := c.Param("id")

	from, to, ranged, err := dateRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	var txs []*domain.Transaction
	if ranged {
		txs, err = h.transactions.ListByDateRange(c.Request.Context(), portfolioID, from, to)
	} else {
		txs, err = h.transactions.ListByPortfolio(c.Request.Context(), portfolioID)
	}
	if err != nil {
		fail(c, "Failed to list transactions", err, "portfolio_id", portfolioID)
		return
	}

	resp, err := mapSliceErr(txs, toTransactionResponse)
	if err != nil {
		fail(c, "Failed to render transactions", err, "portfolio_id", portfolioID)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetTransaction(c *gin.Context) {
	transactionID := c.Param("id")

	tx, err := h.transactions.Get(c.Request.Context(), transactionID)
	if err != nil {
		fail(c, "Failed to get transaction", err, "transaction_id", transactionID)
		return
	}

	resp, err := toTransactionResponse(tx)
	if err != nil {
		fail(c, "Failed to render transaction", err, "transaction_id", transactionID)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	transactionID := c.Param("id")

	if err := h.transactions.Delete(c.Request.Context(), transactionID); err != nil {
		fail(c, "Failed to delete transaction", err, "transaction_id", transactionID)
		return
	}

	c.Status(http.StatusNoContent)
}
