package handlers

import (
	"errors"
	"net/http"

	"restaurant_ops_backend/internal/services"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BillingHandler holds the billing service.
type BillingHandler struct {
	billingService services.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: bs}
}

// GetTableBill returns the merged unpaid bill for a table.
func (h *BillingHandler) GetTableBill(c *gin.Context) {
	tableID, ok := parseIDParam(c, "tableId")
	if !ok {
		return
	}

	bill, err := h.billingService.UnpaidBill(c.Request.Context(), tableID)
	if err != nil {
		utils.LogError(err, "GetTableBill: Error from billingService.UnpaidBill")
		respondBillingError(c, err, "Failed to fetch table bill.")
		return
	}
	c.JSON(http.StatusOK, bill)
}

// SettleTable marks every unpaid order of a table as paid, atomically.
func (h *BillingHandler) SettleTable(c *gin.Context) {
	tableID, ok := parseIDParam(c, "tableId")
	if !ok {
		return
	}

	var req services.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SettleTable: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.billingService.Settle(c.Request.Context(), tableID, req)
	if err != nil {
		utils.LogError(err, "SettleTable: Error from billingService.Settle for tableID "+utils.Int64ToStr(tableID))
		respondBillingError(c, err, "Failed to settle table.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateConsolidatedOrder creates one fresh order from several cart
// additions for a table.
func (h *BillingHandler) CreateConsolidatedOrder(c *gin.Context) {
	tableID, ok := parseIDParam(c, "tableId")
	if !ok {
		return
	}

	var req services.CreateConsolidatedOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateConsolidatedOrder: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.billingService.CreateConsolidatedOrder(tableID, req)
	if err != nil {
		utils.LogError(err, "CreateConsolidatedOrder: Error from billingService.CreateConsolidatedOrder")
		respondOrderError(c, err, "Failed to create consolidated order.")
		return
	}
	c.JSON(http.StatusCreated, order)
}

func respondBillingError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrTableNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
