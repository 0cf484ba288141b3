package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stockbook/internal/domain"
)

func (h *Handler) CreateJournalEntry(c *gin.Context) {
	var req CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.journal.Create(c.Request.Context(), domain.JournalEntryParams{
		Date:          date,
		Content:       req.Content,
		PortfolioID:   req.PortfolioID,
		StockID:       req.StockID,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		fail(c, "Failed to create journal entry", err)
		return
	}

	c.JSON(http.StatusCreated, toJournalEntryResponse(entry))
}

// ListJournal filters by ?portfolio_id or by an inclusive from/to range, newest first otherwise.
func (h *Handler) ListJournal(c *gin.Context) {
	from, to, ranged, err := dateRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	var entries []*domain.JournalEntry
	switch portfolioID := c.Query("portfolio_id"); {
	case portfolioID != "":
		entries, err = h.journal.ListByPortfolio(c.Request.Context(), portfolioID)
	case ranged:
		entries, err = h.journal.ListByDateRange(c.Request.Context(), from, to)
	default:
		entries, err = h.journal.List(c.Request.Context())
	}
	if err != nil {
		fail(c, "Failed to list journal entries", err)
		return
	}

	c.JSON(http.StatusOK, mapSlice(entries, toJournalEntryResponse))
}

func (h *Handler) GetJournalEntry(c *gin.Context) {
	entryID := c.Param("id")

	entry, err := h.journal.Get(c.Request.Context(), entryID)
	if err != nil {
		fail(c, "Failed to get journal entry", err, "entry_id", entryID)
		return
	}

	c.JSON(http.StatusOK, toJournalEntryResponse(entry))
}

func (h *Handler) UpdateJournalEntry(c *gin.Context) {
	entryID := c.Param("id")

	var req UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.journal.UpdateContent(c.Request.Context(), entryID, req.Content)
	if err != nil {
		fail(c, "Failed to update journal entry", err, "entry_id", entryID)
		return
	}

	c.JSON(http.StatusOK, toJournalEntryResponse(entry))
}

func (h *Handler) DeleteJournalEntry(c *gin.Context) {
	entryID := c.Param("id")

	if err := h.journal.Delete(c.Request.Context(), entryID); err != nil {
		fail(c, "Failed to delete journal entry", err, "entry_id", entryID)
		return
	}

	c.Status(http.StatusNoContent)
}
