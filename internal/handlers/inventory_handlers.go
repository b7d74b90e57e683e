package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/services"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InventoryHandler holds the inventory and alert services.
type InventoryHandler struct {
	inventoryService services.InventoryService
	alertService     services.AlertService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService, as services.AlertService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is, alertService: as}
}

// ApplyStockTransaction applies one stock movement to an ingredient.
func (h *InventoryHandler) ApplyStockTransaction(c *gin.Context) {
	var req services.StockTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "ApplyStockTransaction: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.inventoryService.ApplyTransaction(req)
	if err != nil {
		utils.LogError(err, "ApplyStockTransaction: Error from inventoryService.ApplyTransaction")
		respondInventoryError(c, err, "Failed to apply stock transaction.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetStockTransactions lists the stock ledger, filtered and paged.
func (h *InventoryHandler) GetStockTransactions(c *gin.Context) {
	var filters services.TransactionFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters.", err.Error()))
		return
	}

	transactions, total, err := h.inventoryService.GetTransactions(filters)
	if err != nil {
		utils.LogError(err, "GetStockTransactions: Error from inventoryService.GetTransactions")
		respondInventoryError(c, err, "Failed to fetch stock transactions.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      transactions,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetStockAlerts returns the combined low-stock and expiry alert feed.
func (h *InventoryHandler) GetStockAlerts(c *gin.Context) {
	windowDays := services.DefaultExpiryWindowDays
	if windowStr := c.Query("window_days"); windowStr != "" {
		parsed, err := strconv.Atoi(windowStr)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid window_days format.", "window_days must be a positive integer"))
			return
		}
		windowDays = parsed
	}

	alerts, err := h.alertService.Alerts(windowDays)
	if err != nil {
		utils.LogError(err, "GetStockAlerts: Error from alertService.Alerts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch stock alerts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// GetLowStock returns only the low-stock bands, without expiry alerts.
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	alerts, err := h.alertService.LowStock()
	if err != nil {
		utils.LogError(err, "GetLowStock: Error from alertService.LowStock")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch low stock alerts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// --- Ingredient master data ---

// CreateIngredient handles creation of an ingredient record.
func (h *InventoryHandler) CreateIngredient(c *gin.Context) {
	var ingredient models.Ingredient
	if err := c.ShouldBindJSON(&ingredient); err != nil {
		utils.LogError(err, "CreateIngredient: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	created, err := h.inventoryService.CreateIngredient(&ingredient)
	if err != nil {
		utils.LogError(err, "CreateIngredient: Error from inventoryService.CreateIngredient")
		respondInventoryError(c, err, "Failed to create ingredient.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetIngredients lists all ingredients.
func (h *InventoryHandler) GetIngredients(c *gin.Context) {
	ingredients, err := h.inventoryService.GetIngredients()
	if err != nil {
		utils.LogError(err, "GetIngredients: Error from inventoryService.GetIngredients")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch ingredients.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// GetIngredientByID fetches one ingredient.
func (h *InventoryHandler) GetIngredientByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ingredient, err := h.inventoryService.GetIngredientByID(id)
	if err != nil {
		utils.LogError(err, "GetIngredientByID: Error from inventoryService.GetIngredientByID")
		respondInventoryError(c, err, "Failed to fetch ingredient.")
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// UpdateIngredient rewrites ingredient master data. Stock levels only move
// through stock transactions.
func (h *InventoryHandler) UpdateIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var ingredient models.Ingredient
	if err := c.ShouldBindJSON(&ingredient); err != nil {
		utils.LogError(err, "UpdateIngredient: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updated, err := h.inventoryService.UpdateIngredient(id, &ingredient)
	if err != nil {
		utils.LogError(err, "UpdateIngredient: Error from inventoryService.UpdateIngredient")
		respondInventoryError(c, err, "Failed to update ingredient.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteIngredient deletes an ingredient record.
func (h *InventoryHandler) DeleteIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteIngredient(id); err != nil {
		utils.LogError(err, "DeleteIngredient: Error from inventoryService.DeleteIngredient")
		respondInventoryError(c, err, "Failed to delete ingredient.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ingredient deleted successfully"})
}

func respondInventoryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrIngredientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Ingredient not found.", err.Error()))
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient stock for this transaction.", err.Error()))
	case errors.Is(err, services.ErrIngredientInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Ingredient has recorded stock transactions and cannot be deleted.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
