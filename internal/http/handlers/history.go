package handlers

import (
	"net/http"
	"strconv"

	"flips_backend/internal/logger"
	"flips_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves finished games back to clients.
type HistoryHandler struct {
	history *service.HistoryService
}

func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func (h *HistoryHandler) GetByTable(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.history.GetByTable(c.Request.Context(), tableID, limit)
	if err != nil {
		logger.Error("failed to load table history", "table_id", tableID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *HistoryHandler) GetByClub(c *gin.Context) {
	clubID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.history.GetByClub(c.Request.Context(), clubID, limit)
	if err != nil {
		logger.Error("failed to load club history", "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, records)
}
