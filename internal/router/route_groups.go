package router

import (
	"restaurant_ops_backend/internal/handlers"
	"restaurant_ops_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes sets up the order lifecycle routes. The singular /order
// paths are kept for frontend compatibility.
func SetupOrderRoutes(engine *gin.Engine, orderHandler *handlers.OrderHandler) {
	engine.POST("/order", orderHandler.CreateOrder)
	engine.PUT("/order/:id/status", orderHandler.UpdateOrderStatus)
	engine.PUT("/order/:id/payment", orderHandler.UpdateOrderPayment)

	engine.GET("/orders", orderHandler.GetOrders)
	engine.GET("/orders/:id", orderHandler.GetOrderByID)
	engine.PUT("/orders/:id", orderHandler.ReplaceOrderItems)
	engine.DELETE("/orders/:id", orderHandler.DeleteOrder)
}

// SetupBillingRoutes sets up the per-table billing routes.
func SetupBillingRoutes(engine *gin.Engine, billingHandler *handlers.BillingHandler) {
	engine.GET("/orders/table/:tableId", billingHandler.GetTableBill)
	engine.PUT("/orders/table/:tableId/settle", billingHandler.SettleTable)
	engine.POST("/orders/table/:tableId/consolidated", billingHandler.CreateConsolidatedOrder)
}

// SetupInventoryRoutes sets up the stock ledger and ingredient routes.
func SetupInventoryRoutes(engine *gin.Engine, inventoryHandler *handlers.InventoryHandler) {
	engine.PUT("/stock/update", inventoryHandler.ApplyStockTransaction)
	engine.GET("/stock/transactions", inventoryHandler.GetStockTransactions)
	engine.GET("/stock/alerts", inventoryHandler.GetStockAlerts)
	engine.GET("/stock/low", inventoryHandler.GetLowStock)

	ingredientRoutes := engine.Group("/ingredients")
	{
		ingredientRoutes.POST("", inventoryHandler.CreateIngredient)
		ingredientRoutes.GET("", inventoryHandler.GetIngredients)
		ingredientRoutes.GET("/:id", inventoryHandler.GetIngredientByID)
		ingredientRoutes.PUT("/:id", inventoryHandler.UpdateIngredient)
		ingredientRoutes.DELETE("/:id", inventoryHandler.DeleteIngredient)
	}
}

// SetupMenuRoutes sets up the menu master data routes. /menu is the public
// read, /menu_items the management surface.
func SetupMenuRoutes(engine *gin.Engine, menuHandler *handlers.MenuHandler) {
	engine.GET("/menu", menuHandler.GetMenuItems)
	engine.GET("/popular_items", menuHandler.GetPopularItems)

	menuItemRoutes := engine.Group("/menu_items")
	{
		menuItemRoutes.POST("", menuHandler.CreateMenuItem)
		menuItemRoutes.GET("", menuHandler.GetMenuItems)
		menuItemRoutes.GET("/:id", menuHandler.GetMenuItemByID)
		menuItemRoutes.PUT("/:id", menuHandler.UpdateMenuItem)
		menuItemRoutes.DELETE("/:id", menuHandler.DeleteMenuItem)
	}
}

// SetupTableRoutes sets up the table master data routes.
func SetupTableRoutes(engine *gin.Engine, tableHandler *handlers.TableHandler) {
	tableRoutes := engine.Group("/tables")
	{
		tableRoutes.POST("", tableHandler.CreateTable)
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.GET("/:id", tableHandler.GetTableByID)
		tableRoutes.PUT("/:id", tableHandler.UpdateTable)
		tableRoutes.DELETE("/:id", tableHandler.DeleteTable)
	}
}

// SetupStaffRoutes sets up the staff and schedule routes.
func SetupStaffRoutes(engine *gin.Engine, staffHandler *handlers.StaffHandler) {
	staffRoutes := engine.Group("/staff")
	{
		staffRoutes.POST("", staffHandler.CreateStaffMember)
		staffRoutes.GET("", staffHandler.GetStaffMembers)
		staffRoutes.GET("/:id", staffHandler.GetStaffMemberByID)
		staffRoutes.PUT("/:id", staffHandler.UpdateStaffMember)
		staffRoutes.DELETE("/:id", staffHandler.DeleteStaffMember)
	}

	scheduleRoutes := engine.Group("/staff_schedule")
	{
		scheduleRoutes.POST("", staffHandler.CreateSchedule)
		scheduleRoutes.GET("", staffHandler.GetSchedules)
		scheduleRoutes.PUT("/:id", staffHandler.UpdateSchedule)
		scheduleRoutes.DELETE("/:id", staffHandler.DeleteSchedule)
	}
}

// SetupCustomerRoutes sets up the table login and the session-scoped order
// view.
func SetupCustomerRoutes(engine *gin.Engine, authHandler *handlers.AuthHandler, orderHandler *handlers.OrderHandler) {
	engine.POST("/customer_login", authHandler.CustomerLogin)

	myRoutes := engine.Group("/my")
	myRoutes.Use(middleware.CustomerAuthMiddleware())
	{
		myRoutes.GET("/orders", orderHandler.GetMyOrders)
	}
}

// SetupReportRoutes sets up the dashboard statistics route.
func SetupReportRoutes(engine *gin.Engine) {
	engine.GET("/statistics", handlers.GetStatistics)
}
