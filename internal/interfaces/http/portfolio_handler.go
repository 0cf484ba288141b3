package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stockbook/internal/application"
	"github.com/jmanzanog/stockbook/internal/domain"
)

func (h *Handler) CreatePortfolio(c *gin.Context) {
	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	portfolio, err := h.portfolios.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		fail(c, "Failed to create portfolio", err, "name", req.Name)
		return
	}

	c.JSON(http.StatusCreated, toPortfolioResponse(portfolio))
}

// ListPortfolios returns only active portfolios when called with ?active=true.
func (h *Handler) ListPortfolios(c *gin.Context) {
	list := h.portfolios.List
	if c.Query("active") == "true" {
		list = h.portfolios.ListActive
	}

	portfolios, err := list(c.Request.Context())
	if err != nil {
		fail(c, "Failed to list portfolios", err)
		return
	}

	c.JSON(http.StatusOK, mapSlice(portfolios, toPortfolioResponse))
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	portfolioID := c.Param("id")

	portfolio, err := h.portfolios.Get(c.Request.Context(), portfolioID)
	if err != nil {
		fail(c, "Failed to get portfolio", err, "portfolio_id", portfolioID)
		return
	}

	c.JSON(http.StatusOK, toPortfolioResponse(portfolio))
}

func (h *Handler) UpdatePortfolio(c *gin.Context) {
	portfolioID := c.Param("id")

	var req UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	portfolio, err := h.portfolios.Update(c.Request.Context(), portfolioID, application.PortfolioUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		fail(c, "Failed to update portfolio", err, "portfolio_id", portfolioID)
		return
	}

	c.JSON(http.StatusOK, toPortfolioResponse(portfolio))
}

func (h *Handler) ActivatePortfolio(c *gin.Context) {
	h.setPortfolioActive(c, h.portfolios.Activate)
}

func (h *Handler) DeactivatePortfolio(c *gin.Context) {
	h.setPortfolioActive(c, h.portfolios.Deactivate)
}

func (h *Handler) setPortfolioActive(c *gin.Context, set func(ctx context.Context, id string) (*domain.Portfolio, error)) {
	portfolioID := c.Param("id")

	portfolio, err := set(c.Request.Context(), portfolioID)
	if err != nil {
		fail(c, "Failed to change portfolio state", err, "portfolio_id", portfolioID)
		return
	}

	c.JSON(http.StatusOK, toPortfolioResponse(portfolio))
}

func (h *Handler) DeletePortfolio(c *gin.Context) {
	portfolioID := c.Param("id")

	if err := h.portfolios.Delete(c.Request.Context(), portfolioID); err != nil {
		fail(c, "Failed to delete portfolio", err, "portfolio_id", portfolioID)
		return
	}

	c.Status(http.StatusNoContent)
}
