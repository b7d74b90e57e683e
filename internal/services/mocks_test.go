package services

import (
	"context"
	"errors"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

var errMockNotConfigured = errors.New("mock method not configured")

// mockOrderRepo implements repositories.OrderRepository with overridable
// function fields. Methods a test does not configure fail loudly.
type mockOrderRepo struct {
	CreateOrderFn               func(executor repositories.SQLExecutor, order *models.Order) (int64, error)
	GetOrderByIDFn              func(orderID int64) (*models.Order, error)
	GetOrdersFn                 func(filters models.OrderFilters) ([]models.Order, error)
	UpdateOrderStatusFn         func(executor repositories.SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error
	UpdateOrderPaymentFn        func(executor repositories.SQLExecutor, orderID int64, paymentStatus, paymentMethod string, updatedAt time.Time) error
	UpdateOrderForReplaceFn     func(executor repositories.SQLExecutor, orderID int64, tableID int64, order models.Order, updatedAt time.Time) error
	DeleteOrderFn               func(executor repositories.SQLExecutor, orderID int64) (int64, error)
	CreateOrderItemFn           func(executor repositories.SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemsByOrderIDFn    func(orderID int64) ([]models.OrderItem, error)
	DeleteOrderItemsByOrderIDFn func(executor repositories.SQLExecutor, orderID int64) (int64, error)
	GetUnpaidOrdersByTableFn    func(ctx context.Context, tableID int64) ([]models.Order, error)
	LockUnpaidOrderIDsFn        func(executor repositories.SQLExecutor, tableID int64) ([]int64, error)
	MarkOrdersPaidFn            func(executor repositories.SQLExecutor, orderIDs []int64, paymentMethod string, updatedAt time.Time) (int64, error)
}

func (m *mockOrderRepo) CreateOrder(executor repositories.SQLExecutor, order *models.Order) (int64, error) {
	if m.CreateOrderFn == nil {
		return 0, errMockNotConfigured
	}
	return m.CreateOrderFn(executor, order)
}

func (m *mockOrderRepo) GetOrderByID(orderID int64) (*models.Order, error) {
	if m.GetOrderByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetOrderByIDFn(orderID)
}

func (m *mockOrderRepo) GetOrders(filters models.OrderFilters) ([]models.Order, error) {
	if m.GetOrdersFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetOrdersFn(filters)
}

func (m *mockOrderRepo) UpdateOrderStatus(executor repositories.SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	if m.UpdateOrderStatusFn == nil {
		return errMockNotConfigured
	}
	return m.UpdateOrderStatusFn(executor, orderID, newStatus, updatedAt)
}

func (m *mockOrderRepo) UpdateOrderPayment(executor repositories.SQLExecutor, orderID int64, paymentStatus, paymentMethod string, updatedAt time.Time) error {
	if m.UpdateOrderPaymentFn == nil {
		return errMockNotConfigured
	}
	return m.UpdateOrderPaymentFn(executor, orderID, paymentStatus, paymentMethod, updatedAt)
}

func (m *mockOrderRepo) UpdateOrderForReplace(executor repositories.SQLExecutor, orderID int64, tableID int64, order models.Order, updatedAt time.Time) error {
	if m.UpdateOrderForReplaceFn == nil {
		return errMockNotConfigured
	}
	return m.UpdateOrderForReplaceFn(executor, orderID, tableID, order, updatedAt)
}

func (m *mockOrderRepo) DeleteOrder(executor repositories.SQLExecutor, orderID int64) (int64, error) {
	if m.DeleteOrderFn == nil {
		return 0, errMockNotConfigured
	}
	return m.DeleteOrderFn(executor, orderID)
}

func (m *mockOrderRepo) CreateOrderItem(executor repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	if m.CreateOrderItemFn == nil {
		return 0, errMockNotConfigured
	}
	return m.CreateOrderItemFn(executor, item)
}

func (m *mockOrderRepo) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	if m.GetOrderItemsByOrderIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetOrderItemsByOrderIDFn(orderID)
}

func (m *mockOrderRepo) DeleteOrderItemsByOrderID(executor repositories.SQLExecutor, orderID int64) (int64, error) {
	if m.DeleteOrderItemsByOrderIDFn == nil {
		return 0, errMockNotConfigured
	}
	return m.DeleteOrderItemsByOrderIDFn(executor, orderID)
}

func (m *mockOrderRepo) GetUnpaidOrdersByTable(ctx context.Context, tableID int64) ([]models.Order, error) {
	if m.GetUnpaidOrdersByTableFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetUnpaidOrdersByTableFn(ctx, tableID)
}

func (m *mockOrderRepo) LockUnpaidOrderIDs(executor repositories.SQLExecutor, tableID int64) ([]int64, error) {
	if m.LockUnpaidOrderIDsFn == nil {
		return nil, errMockNotConfigured
	}
	return m.LockUnpaidOrderIDsFn(executor, tableID)
}

func (m *mockOrderRepo) MarkOrdersPaid(executor repositories.SQLExecutor, orderIDs []int64, paymentMethod string, updatedAt time.Time) (int64, error) {
	if m.MarkOrdersPaidFn == nil {
		return 0, errMockNotConfigured
	}
	return m.MarkOrdersPaidFn(executor, orderIDs, paymentMethod, updatedAt)
}

// mockMenuRepo implements repositories.MenuRepository.
type mockMenuRepo struct {
	GetMenuItemsByIDsFn func(ids []int64) (map[int64]models.MenuItem, error)
	GetMenuItemByIDFn   func(id int64) (*models.MenuItem, error)
	GetMenuItemsFn      func() ([]models.MenuItem, error)
	GetPopularItemsFn   func() ([]models.PopularMenuItem, error)
}

func (m *mockMenuRepo) CreateMenuItem(executor repositories.SQLExecutor, item *models.MenuItem) (int64, error) {
	return 0, errMockNotConfigured
}

func (m *mockMenuRepo) GetMenuItemByID(id int64) (*models.MenuItem, error) {
	if m.GetMenuItemByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetMenuItemByIDFn(id)
}

func (m *mockMenuRepo) GetMenuItems() ([]models.MenuItem, error) {
	if m.GetMenuItemsFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetMenuItemsFn()
}

func (m *mockMenuRepo) GetMenuItemsByIDs(ids []int64) (map[int64]models.MenuItem, error) {
	if m.GetMenuItemsByIDsFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetMenuItemsByIDsFn(ids)
}

func (m *mockMenuRepo) UpdateMenuItem(executor repositories.SQLExecutor, item *models.MenuItem) error {
	return errMockNotConfigured
}

func (m *mockMenuRepo) DeleteMenuItem(executor repositories.SQLExecutor, id int64) error {
	return errMockNotConfigured
}

func (m *mockMenuRepo) GetPopularItems() ([]models.PopularMenuItem, error) {
	if m.GetPopularItemsFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetPopularItemsFn()
}

// mockTableRepo implements repositories.TableRepository.
type mockTableRepo struct {
	GetTableByIDFn       func(id int64) (*models.Table, error)
	GetTableByUsernameFn func(username string) (*models.Table, error)
}

func (m *mockTableRepo) CreateTable(executor repositories.SQLExecutor, table *models.Table) (int64, error) {
	return 0, errMockNotConfigured
}

func (m *mockTableRepo) GetTableByID(id int64) (*models.Table, error) {
	if m.GetTableByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetTableByIDFn(id)
}

func (m *mockTableRepo) GetTables() ([]models.Table, error) {
	return nil, errMockNotConfigured
}

func (m *mockTableRepo) GetTableByUsername(username string) (*models.Table, error) {
	if m.GetTableByUsernameFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetTableByUsernameFn(username)
}

func (m *mockTableRepo) UpdateTable(executor repositories.SQLExecutor, table *models.Table) error {
	return errMockNotConfigured
}

func (m *mockTableRepo) DeleteTable(executor repositories.SQLExecutor, id int64) error {
	return errMockNotConfigured
}

// mockIngredientRepo implements repositories.IngredientRepository.
type mockIngredientRepo struct {
	GetIngredientsFn         func() ([]models.Ingredient, error)
	GetIngredientByIDFn      func(id int64) (*models.Ingredient, error)
	GetIngredientForUpdateFn func(executor repositories.SQLExecutor, id int64) (*models.Ingredient, error)
	AdjustStockFn            func(executor repositories.SQLExecutor, id int64, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	SetLastPurchaseDateFn    func(executor repositories.SQLExecutor, id int64, purchasedAt time.Time) error
}

func (m *mockIngredientRepo) CreateIngredient(executor repositories.SQLExecutor, ingredient *models.Ingredient) (int64, error) {
	return 0, errMockNotConfigured
}

func (m *mockIngredientRepo) GetIngredientByID(id int64) (*models.Ingredient, error) {
	if m.GetIngredientByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetIngredientByIDFn(id)
}

func (m *mockIngredientRepo) GetIngredients() ([]models.Ingredient, error) {
	if m.GetIngredientsFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetIngredientsFn()
}

func (m *mockIngredientRepo) UpdateIngredient(executor repositories.SQLExecutor, ingredient *models.Ingredient) error {
	return errMockNotConfigured
}

func (m *mockIngredientRepo) DeleteIngredient(executor repositories.SQLExecutor, id int64) error {
	return errMockNotConfigured
}

func (m *mockIngredientRepo) GetIngredientForUpdate(executor repositories.SQLExecutor, id int64) (*models.Ingredient, error) {
	if m.GetIngredientForUpdateFn == nil {
		return nil, errMockNotConfigured
	}
	return m.GetIngredientForUpdateFn(executor, id)
}

func (m *mockIngredientRepo) AdjustStock(executor repositories.SQLExecutor, id int64, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	if m.AdjustStockFn == nil {
		return decimal.Decimal{}, errMockNotConfigured
	}
	return m.AdjustStockFn(executor, id, delta, updatedAt)
}

func (m *mockIngredientRepo) SetLastPurchaseDate(executor repositories.SQLExecutor, id int64, purchasedAt time.Time) error {
	if m.SetLastPurchaseDateFn == nil {
		return errMockNotConfigured
	}
	return m.SetLastPurchaseDateFn(executor, id, purchasedAt)
}

// mockInventoryTxRepo implements repositories.InventoryTransactionRepository.
type mockInventoryTxRepo struct {
	CreateTransactionFn func(executor repositories.SQLExecutor, transaction *models.InventoryTransaction) (int64, error)
	GetTransactionsFn   func(ingredientID *int64, transactionType *string, page, pageSize int) ([]models.InventoryTransaction, int, error)
}

func (m *mockInventoryTxRepo) CreateTransaction(executor repositories.SQLExecutor, transaction *models.InventoryTransaction) (int64, error) {
	if m.CreateTransactionFn == nil {
		return 0, errMockNotConfigured
	}
	return m.CreateTransactionFn(executor, transaction)
}

func (m *mockInventoryTxRepo) GetTransactions(ingredientID *int64, transactionType *string, page, pageSize int) ([]models.InventoryTransaction, int, error) {
	if m.GetTransactionsFn == nil {
		return nil, 0, errMockNotConfigured
	}
	return m.GetTransactionsFn(ingredientID, transactionType, page, pageSize)
}
