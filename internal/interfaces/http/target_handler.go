package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stockbook/internal/domain"
)

func (h *Handler) CreateTarget(c *gin.Context) {
	portfolioID := c.Param("id")

	var req CreateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := parseOptionalDate("created_date", req.CreatedDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	pivot, err := domain.NewMoney(req.PivotPrice, req.Currency)
	if err != nil {
		badRequest(c, err)
		return
	}
	failure, err := domain.NewMoney(req.FailurePrice, req.Currency)
	if err != nil {
		badRequest(c, err)
		return
	}

	target, err := h.targets.Create(c.Request.Context(), domain.TargetParams{
		PortfolioID:  portfolioID,
		StockID:      req.StockID,
		PivotPrice:   pivot,
		FailurePrice: failure,
		Status:       req.Status,
		CreatedDate:  created,
		Notes:        req.Notes,
	})
	if err != nil {
		fail(c, "Failed to create target", err, "portfolio_id", portfolioID, "stock_id", req.StockID)
		return
	}

	c.JSON(http.StatusCreated, toTargetResponse(target))
}

// ListTargets returns only active targets when called with ?active=true.
func (h *Handler) ListTargets(c *gin.Context) {
	portfolioID := c.Param("id")

	list := h.targets.ListByPortfolio
	if c.Query("active") == "true" {
		list = h.targets.ListActiveByPortfolio
	}

	targets, err := list(c.Request.Context(), portfolioID)
	if err != nil {
		fail(c, "Failed to list targets", err, "portfolio_id", portfolioID)
		return
	}

	c.JSON(http.StatusOK, mapSlice(targets, toTargetResponse))
}

func (h *Handler) GetTarget(c *gin.Context) {
	targetID := c.Param("id")

	target, err := h.targets.Get(c.Request.Context(), targetID)
	if err != nil {
		fail(c, "Failed to get target", err, "target_id", targetID)
		return
	}

	c.JSON(http.StatusOK, toTargetResponse(target))
}

func (h *Handler) ChangeTargetStatus(c *gin.Context) {
	targetID := c.Param("id")

	var req ChangeTargetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	target, err := h.targets.ChangeStatus(c.Request.Context(), targetID, req.Status)
	if err != nil {
		fail(c, "Failed to change target status", err, "target_id", targetID, "status", req.Status)
		return
	}

	c.JSON(http.StatusOK, toTargetResponse(target))
}

func (h *Handler) DeleteTarget(c *gin.Context) {
	targetID := c.Param("id")

	if err := h.targets.Delete(c.Request.Context(), targetID); err != nil {
		fail(c, "Failed to delete target", err, "target_id", targetID)
		return
	}

	c.Status(http.StatusNoContent)
}

// EvaluateTargets prices every active target now instead of waiting for the monitor.
func (h *Handler) EvaluateTargets(c *gin.Context) {
	if h.quotes == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "market data is not configured"})
		return
	}

	results, err := h.targets.EvaluateActive(c.Request.Context(), h.quotes)
	if err != nil {
		fail(c, "Failed to evaluate targets", err)
		return
	}

	c.JSON(http.StatusOK, mapSlice(results, toTargetEvaluationResponse))
}
