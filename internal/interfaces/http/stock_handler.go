package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stockbook/internal/domain"
)

func (h *Handler) CreateStock(c *gin.Context) {
	var req CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	stock, err := h.stocks.Create(c.Request.Context(), domain.StockParams{
		Symbol:        req.Symbol,
		Name:          req.Name,
		Sector:        req.Sector,
		IndustryGroup: req.IndustryGroup,
		Grade:         req.Grade,
		Notes:         req.Notes,
	})
	if err != nil {
		fail(c, "Failed to create stock", err, "symbol", req.Symbol)
		return
	}

	c.JSON(http.StatusCreated, toStockResponse(stock))
}

// ListStocks accepts symbol, name, sector, industry_group and grade query filters.
func (h *Handler) ListStocks(c *gin.Context) {
	filter := domain.StockSearch{
		Symbol:        c.Query("symbol"),
		Name:          c.Query("name"),
		Sector:        c.Query("sector"),
		IndustryGroup: c.Query("industry_group"),
		Grade:         c.Query("grade"),
	}

	stocks, err := h.stocks.Search(c.Request.Context(), filter)
	if err != nil {
		fail(c, "Failed to list stocks", err)
		return
	}

	c.JSON(http.StatusOK, mapSlice(stocks, toStockResponse))
}

func (h *Handler) GetStock(c *gin.Context) {
	stockID := c.Param("id")

	stock, err := h.stocks.Get(c.Request.Context(), stockID)
	if err != nil {
		fail(c, "Failed to get stock", err, "stock_id", stockID)
		return
	}

	c.JSON(http.StatusOK, toStockResponse(stock))
}

func (h *Handler) UpdateStock(c *gin.Context) {
	stockID := c.Param("id")

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	stock, err := h.stocks.Update(c.Request.Context(), stockID, domain.StockUpdate{
		Name:          req.Name,
		Sector:        req.Sector,
		IndustryGroup: req.IndustryGroup,
		Grade:         req.Grade,
		Notes:         req.Notes,
	})
	if err != nil {
		fail(c, "Failed to update stock", err, "stock_id", stockID)
		return
	}

	c.JSON(http.StatusOK, toStockResponse(stock))
}

func (h *Handler) DeleteStock(c *gin.Context) {
	stockID := c.Param("id")

	if err := h.stocks.Delete(c.Request.Context(), stockID); err != nil {
		fail(c, "Failed to delete stock", err, "stock_id", stockID)
		return
	}

	c.Status(http.StatusNoContent)
}
