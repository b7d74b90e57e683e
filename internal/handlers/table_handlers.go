package handlers

import (
	"errors"
	"net/http"

	"restaurant_ops_backend/internal/services"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler holds the table service.
type TableHandler struct {
	tableService services.TableService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(ts services.TableService) *TableHandler {
	return &TableHandler{tableService: ts}
}

// CreateTable handles creation of a table record.
func (h *TableHandler) CreateTable(c *gin.Context) {
	var req services.TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateTable: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	created, err := h.tableService.CreateTable(req)
	if err != nil {
		utils.LogError(err, "CreateTable: Error from tableService.CreateTable")
		respondTableError(c, err, "Failed to create table.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetTables lists all tables.
func (h *TableHandler) GetTables(c *gin.Context) {
	tables, err := h.tableService.GetTables()
	if err != nil {
		utils.LogError(err, "GetTables: Error from tableService.GetTables")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch tables.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, tables)
}

// GetTableByID fetches one table.
func (h *TableHandler) GetTableByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	table, err := h.tableService.GetTableByID(id)
	if err != nil {
		utils.LogError(err, "GetTableByID: Error from tableService.GetTableByID")
		respondTableError(c, err, "Failed to fetch table.")
		return
	}
	c.JSON(http.StatusOK, table)
}

// UpdateTable rewrites a table record.
func (h *TableHandler) UpdateTable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateTable: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updated, err := h.tableService.UpdateTable(id, req)
	if err != nil {
		utils.LogError(err, "UpdateTable: Error from tableService.UpdateTable")
		respondTableError(c, err, "Failed to update table.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTable deletes a table record.
func (h *TableHandler) DeleteTable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tableService.DeleteTable(id); err != nil {
		utils.LogError(err, "DeleteTable: Error from tableService.DeleteTable")
		respondTableError(c, err, "Failed to delete table.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table deleted successfully"})
}

func respondTableError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrTableNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
