package router

import (
	"database/sql"

	"restaurant_ops_backend/internal/handlers"
	"restaurant_ops_backend/internal/repositories"
	"restaurant_ops_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	orderRepo := repositories.NewOrderRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	ingredientRepo := repositories.NewIngredientRepository(db)
	inventoryTxRepo := repositories.NewInventoryTransactionRepository(db)
	staffRepo := repositories.NewStaffRepository(db)

	// Initialize Services
	orderService := services.NewOrderService(orderRepo, menuRepo, tableRepo, db)
	billingService := services.NewBillingService(orderRepo, tableRepo, orderService, db)
	inventoryService := services.NewInventoryService(ingredientRepo, inventoryTxRepo, db)
	alertService := services.NewAlertService(ingredientRepo)
	menuService := services.NewMenuService(menuRepo, db)
	tableService := services.NewTableService(tableRepo, db)
	staffService := services.NewStaffService(staffRepo, db)
	authService := services.NewAuthService(tableRepo)

	// Initialize Handlers
	orderHandler := handlers.NewOrderHandler(orderService)
	billingHandler := handlers.NewBillingHandler(billingService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, alertService)
	menuHandler := handlers.NewMenuHandler(menuService)
	tableHandler := handlers.NewTableHandler(tableService)
	staffHandler := handlers.NewStaffHandler(staffService)
	authHandler := handlers.NewAuthHandler(authService)

	SetupOrderRoutes(engine, orderHandler)
	SetupBillingRoutes(engine, billingHandler)
	SetupInventoryRoutes(engine, inventoryHandler)
	SetupMenuRoutes(engine, menuHandler)
	SetupTableRoutes(engine, tableHandler)
	SetupStaffRoutes(engine, staffHandler)
	SetupCustomerRoutes(engine, authHandler, orderHandler)
	SetupReportRoutes(engine)
}
