package handlers

import (
	"net/http"
	"strconv"

	"flips_backend/internal/logger"
	"flips_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves the authenticated user's own ledger entries.
type TransactionHandler struct {
	ledger *service.LedgerService
}

func NewTransactionHandler(ledger *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

func (h *TransactionHandler) GetByClub(c *gin.Context) {
	clubID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	userID := c.GetInt64("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	txs, err := h.ledger.Transactions(c.Request.Context(), userID, clubID, limit)
	if err != nil {
		logger.Error("failed to load transactions", "user_id", userID, "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, txs)
}
