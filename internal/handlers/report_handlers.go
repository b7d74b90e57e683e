package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"restaurant_ops_backend/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RestaurantStatistics is the dashboard summary payload.
type RestaurantStatistics struct {
	OrdersToday       int64           `json:"orders_today"`
	OpenOrdersCount   int64           `json:"open_orders_count"`
	UnpaidOrdersCount int64           `json:"unpaid_orders_count"`
	SalesToday        decimal.Decimal `json:"sales_today"`
	SalesThisMonth    decimal.Decimal `json:"sales_this_month"`
	LowStockCount     int64           `json:"low_stock_count"`
}

// GetStatistics provides a summary of key metrics for the dashboard.
func GetStatistics(c *gin.Context) {
	db := database.GetDB()
	var stats RestaurantStatistics

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endOfMonth := startOfMonth.AddDate(0, 1, 0).Add(-time.Nanosecond)

	err := db.QueryRow(`SELECT COUNT(*) FROM orders WHERE created_at BETWEEN $1 AND $2`, startOfDay, endOfDay).Scan(&stats.OrdersToday)
	if err != nil && err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get today's order count: " + err.Error()})
		return
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM orders WHERE status IN ('Preparing', 'Ready')`).Scan(&stats.OpenOrdersCount)
	if err != nil && err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get open orders count: " + err.Error()})
		return
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM orders WHERE payment_status = 'Unpaid'`).Scan(&stats.UnpaidOrdersCount)
	if err != nil && err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get unpaid orders count: " + err.Error()})
		return
	}

	err = db.QueryRow(`SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = 'Paid' AND created_at BETWEEN $1 AND $2`, startOfDay, endOfDay).Scan(&stats.SalesToday)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get today's sales: " + err.Error()})
		return
	}

	err = db.QueryRow(`SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = 'Paid' AND created_at BETWEEN $1 AND $2`, startOfMonth, endOfMonth).Scan(&stats.SalesThisMonth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get this month's sales: " + err.Error()})
		return
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM ingredients WHERE current_stock <= minimum_stock`).Scan(&stats.LowStockCount)
	if err != nil && err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get low stock count: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
