package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"flips_backend/internal/logger"
	"flips_backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// TableHandler serves table metadata so clients can render a club lobby.
type TableHandler struct {
	tables *repository.TableRepository
}

func NewTableHandler(tables *repository.TableRepository) *TableHandler {
	return &TableHandler{tables: tables}
}

func (h *TableHandler) GetByID(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
		return
	}

	table, err := h.tables.GetByID(c.Request.Context(), tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
			return
		}
		logger.Error("failed to load table", "table_id", tableID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) GetByClub(c *gin.Context) {
	clubID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	tables, err := h.tables.GetByClubID(c.Request.Context(), clubID)
	if err != nil {
		logger.Error("failed to load club tables", "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, tables)
}
