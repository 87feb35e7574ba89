package http

import (
	"net/http"

	"flips_backend/internal/game"
	"flips_backend/internal/http/handlers"
	"flips_backend/internal/http/middleware"
	"flips_backend/internal/repository"
	"flips_backend/internal/service"
	"flips_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the websocket endpoint and the small HTTP surface.
func RegisterRoutes(r *gin.Engine, hub *ws.Hub, registry *game.Registry, ledger *service.LedgerService, history *service.HistoryService, tables *repository.TableRepository, allowedOrigin string) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	wsHandler := ws.NewWSHandler(hub, registry, allowedOrigin)
	r.GET("/ws", middleware.RateLimit(60), wsHandler.HandleWS())

	historyHandler := handlers.NewHistoryHandler(history)
	tableHandler := handlers.NewTableHandler(tables)
	txHandler := handlers.NewTransactionHandler(ledger)
	api := r.Group("/api", middleware.Auth())
	{
		api.GET("/tables/:id", tableHandler.GetByID)
		api.GET("/clubs/:id/tables", tableHandler.GetByClub)
		api.GET("/transactions/club/:id", txHandler.GetByClub)
		api.GET("/history/table/:id", historyHandler.GetByTable)
		api.GET("/history/club/:id", historyHandler.GetByClub)
	}
}
