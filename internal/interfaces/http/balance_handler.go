package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stockbook/internal/domain"
)

func (h *Handler) RecordBalance(c *gin.Context) {
	portfolioID := c.Param("id")

	var req RecordBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	final, err := domain.NewMoney(req.FinalBalance, req.Currency)
	if err != nil {
		badRequest(c, err)
		return
	}
	params := domain.PortfolioBalanceParams{
		PortfolioID:  portfolioID,
		Date:         date,
		FinalBalance: final,
		IndexChange:  req.IndexChange,
	}
	if req.Deposits != nil {
		deposits, err := domain.NewMoney(*req.Deposits, final.Currency())
		if err != nil {
			badRequest(c, err)
			return
		}
		params.Deposits = &deposits
	}
	if req.Withdrawals != nil {
		withdrawals, err := domain.NewMoney(*req.Withdrawals, final.Currency())
		if err != nil {
			badRequest(c, err)
			return
		}
		params.Withdrawals = &withdrawals
	}

	balance, err := h.balances.Record(c.Request.Context(), params)
	if err != nil {
		fail(c, "Failed to record balance", err, "portfolio_id", portfolioID, "date", req.Date)
		return
	}

	h.writeBalance(c, http.StatusCreated, balance)
}

// ListBalances narrows to an inclusive date range when from and to are given.
func (h *Handler) ListBalances(c *gin.Context) {
	portfolioID := c.Param("id")

	from, to, ranged, err := dateRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	var balances []*domain.PortfolioBalance
	if ranged {
		balances, err = h.balances.ListByDateRange(c.Request.Context(), portfolioID, from, to)
	} else {
		balances, err = h.balances.ListByPortfolio(c.Request.Context(), portfolioID)
	}
	if err != nil {
		fail(c, "Failed to list balances", err, "portfolio_id", portfolioID)
		return
	}

	resp, err := mapSliceErr(balances, toBalanceResponse)
	if err != nil {
		fail(c, "Failed to render balances", err, "portfolio_id", portfolioID)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) LatestBalance(c *gin.Context) {
	portfolioID := c.Param("id")

	balance, err := h.balances.Latest(c.Request.Context(), portfolioID)
	if err != nil {
		fail(c, "Failed to get latest balance", err, "portfolio_id", portfolioID)
		return
	}

	h.writeBalance(c, http.StatusOK, balance)
}

func (h *Handler) GetBalance(c *gin.Context) {
	balanceID := c.Param("id")

	balance, err := h.balances.Get(c.Request.Context(), balanceID)
	if err != nil {
		fail(c, "Failed to get balance", err, "balance_id", balanceID)
		return
	}

	h.writeBalance(c, http.StatusOK, balance)
}

func (h *Handler) DeleteBalance(c *gin.Context) {
	balanceID := c.Param("id")

	if err := h.balances.Delete(c.Request.Context(), balanceID); err != nil {
		fail(c, "Failed to delete balance", err, "balance_id", balanceID)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) writeBalance(c *gin.Context, status int, balance *domain.PortfolioBalance) {
	resp, err := toBalanceResponse(balance)
	if err != nil {
		fail(c, "Failed to render balance", err, "balance_id", balance.ID())
		return
	}
	c.JSON(status, resp)
}
