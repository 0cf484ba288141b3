package http

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api/v1")
	{
		api.GET("/stocks", handler.ListStocks)
		api.POST("/stocks", handler.CreateStock)
		api.GET("/stocks/:id", handler.GetStock)
		api.PATCH("/stocks/:id", handler.UpdateStock)
		api.DELETE("/stocks/:id", handler.DeleteStock)

		api.GET("/portfolios", handler.ListPortfolios)
		api.POST("/portfolios", handler.CreatePortfolio)
		api.GET("/portfolios/:id", handler.GetPortfolio)
		api.PATCH("/portfolios/:id", handler.UpdatePortfolio)
		api.DELETE("/portfolios/:id", handler.DeletePortfolio)
		api.POST("/portfolios/:id/activate", handler.ActivatePortfolio)
		api.POST("/portfolios/:id/deactivate", handler.DeactivatePortfolio)

		api.GET("/portfolios/:id/transactions", handler.ListTransactions)
		api.POST("/portfolios/:id/transactions", handler.RecordTransaction)
		api.GET("/transactions/:id", handler.GetTransaction)
		api.DELETE("/transactions/:id", handler.DeleteTransaction)

		api.GET("/portfolios/:id/targets", handler.ListTargets)
		api.POST("/portfolios/:id/targets", handler.CreateTarget)
		api.POST("/targets/evaluate", handler.EvaluateTargets)
		api.GET("/targets/:id", handler.GetTarget)
		api.PUT("/targets/:id/status", handler.ChangeTargetStatus)
		api.DELETE("/targets/:id", handler.DeleteTarget)

		api.GET("/portfolios/:id/balances", handler.ListBalances)
		api.POST("/portfolios/:id/balances", handler.RecordBalance)
		api.GET("/portfolios/:id/balances/latest", handler.LatestBalance)
		api.GET("/balances/:id", handler.GetBalance)
		api.DELETE("/balances/:id", handler.DeleteBalance)

		api.GET("/journal", handler.ListJournal)
		api.POST("/journal", handler.CreateJournalEntry)
		api.GET("/journal/:id", handler.GetJournalEntry)
		api.PATCH("/journal/:id", handler.UpdateJournalEntry)
		api.DELETE("/journal/:id", handler.DeleteJournalEntry)
	}

	router.GET("/health", handler.Health)
}
