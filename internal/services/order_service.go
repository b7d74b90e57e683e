package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrTableNotFound      = errors.New("table not found")
	ErrMenuItemNotFound   = errors.New("menu item not found or not available")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrStatusNotReachable = errors.New("status not reachable from current status")
)

// Order status constants
const (
	StatusPreparing = "Preparing"
	StatusReady     = "Ready"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// Payment status constants
const (
	PaymentUnpaid = "Unpaid"
	PaymentPaid   = "Paid"
)

// statusTransitions is the order state machine: current status → statuses
// reachable from it. Delivered and Cancelled are terminal. A request for
// the current status itself is treated as an idempotent no-op.
var statusTransitions = map[string][]string{
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

func isValidOrderStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

func canTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// --- DTOs ---

// CreateOrderItemRequest is one requested line of a new order.
type CreateOrderItemRequest struct {
	MenuItemID int64 `json:"menu_item_id" binding:"required"`
	Quantity   int   `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is used for creating a new order. The client may send
// total_amount, status and payment_status for compatibility with the old
// frontend, but the server recomputes the total from the items and always
// starts orders as Preparing/Unpaid.
type CreateOrderRequest struct {
	TableID       int64                    `json:"table_id" binding:"required"`
	OrderItems    []CreateOrderItemRequest `json:"order_items" binding:"required,dive"`
	TotalAmount   *decimal.Decimal         `json:"total_amount"`
	Status        *string                  `json:"status"`
	PaymentStatus *string                  `json:"payment_status"`
	PaymentMethod *string                  `json:"payment_method"`
	Notes         *string                  `json:"notes"`
}

// ReplaceOrderRequest is used for the destructive full-item replace.
type ReplaceOrderRequest struct {
	TableID *int64                   `json:"table_id"`
	Items   []CreateOrderItemRequest `json:"items" binding:"required,dive"`
}

// UpdateOrderStatusRequest is used for updating the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderPaymentRequest marks a single order paid.
type UpdateOrderPaymentRequest struct {
	PaymentMethod string  `json:"payment_method" binding:"required"`
	PaymentStatus *string `json:"payment_status"`
}

// --- OrderService Interface ---

type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	ReplaceOrderItems(orderID int64, req ReplaceOrderRequest) (*models.Order, error)
	UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
	UpdateOrderPayment(orderID int64, req UpdateOrderPaymentRequest) error
	DeleteOrder(orderID int64) error
}

type orderService struct {
	orderRepo repositories.OrderRepository
	menuRepo  repositories.MenuRepository
	tableRepo repositories.TableRepository
	db        *sql.DB // For managing transactions
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	mr repositories.MenuRepository,
	tr repositories.TableRepository,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo: or,
		menuRepo:  mr,
		tableRepo: tr,
		db:        db,
	}
}

// buildOrderItems resolves menu items for the requested lines, snapshots
// their unit prices and returns the lines plus the recomputed order total.
// The client-supplied total is never trusted.
func (s *orderService) buildOrderItems(reqItems []CreateOrderItemRequest) ([]models.OrderItem, decimal.Decimal, error) {
	if len(reqItems) == 0 {
		return nil, decimal.Decimal{}, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	ids := make([]int64, 0, len(reqItems))
	for _, itemReq := range reqItems {
		if itemReq.Quantity <= 0 {
			return nil, decimal.Decimal{}, fmt.Errorf("%w: quantity for menu item %d must be positive", ErrValidation, itemReq.MenuItemID)
		}
		ids = append(ids, itemReq.MenuItemID)
	}

	menuItems, err := s.menuRepo.GetMenuItemsByIDs(ids)
	if err != nil {
		return nil, decimal.Decimal{}, fmt.Errorf("failed to resolve menu items: %w", err)
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(reqItems))
	for _, itemReq := range reqItems {
		menuItem, ok := menuItems[itemReq.MenuItemID]
		if !ok {
			return nil, decimal.Decimal{}, fmt.Errorf("%w: menu item %d", ErrMenuItemNotFound, itemReq.MenuItemID)
		}
		lineTotal := menuItem.Price.Mul(decimal.NewFromInt(int64(itemReq.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, models.OrderItem{
			MenuItemID: itemReq.MenuItemID,
			Quantity:   itemReq.Quantity,
			UnitPrice:  menuItem.Price,
			TotalPrice: lineTotal,
		})
	}
	return items, total, nil
}

func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	if _, err := s.tableRepo.GetTableByID(req.TableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table %d does not exist", ErrValidation, req.TableID)
		}
		return nil, fmt.Errorf("failed to resolve table %d: %w", req.TableID, err)
	}

	items, total, err := s.buildOrderItems(req.OrderItems)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start database transaction: %v", ErrTransactionFailure, err)
	}
	defer tx.Rollback()

	order := models.Order{
		TableID:       req.TableID,
		Status:        StatusPreparing,
		PaymentStatus: PaymentUnpaid,
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	createdOrderID, repoErr := s.orderRepo.CreateOrder(tx, &order)
	if repoErr != nil {
		return nil, fmt.Errorf("%w: failed to create order record: %v", ErrTransactionFailure, repoErr)
	}
	order.ID = createdOrderID

	// Header and items are one unit: any item failure aborts the whole create.
	for _, item := range items {
		item.OrderID = createdOrderID
		if _, repoErr = s.orderRepo.CreateOrderItem(tx, &item); repoErr != nil {
			return nil, fmt.Errorf("%w: failed to create order item (menu_item_id: %d): %v", ErrTransactionFailure, item.MenuItemID, repoErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: failed to commit order transaction: %v", ErrTransactionFailure, err)
	}

	return s.GetOrderByID(createdOrderID)
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, error) {
	orders, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID from repository: %w", err)
	}

	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items for order %d: %w", orderID, err)
	}
	order.OrderItems = items
	return order, nil
}

// ReplaceOrderItems is a destructive replace, not a merge: the caller
// submits the full desired item list, the old set is deleted and the new
// set inserted in one transaction. The order total is recomputed from the
// new lines.
func (s *orderService) ReplaceOrderItems(orderID int64, req ReplaceOrderRequest) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order for item replace: %w", err)
	}

	tableID := order.TableID
	if req.TableID != nil {
		tableID = *req.TableID
		if _, err := s.tableRepo.GetTableByID(tableID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: table %d does not exist", ErrValidation, tableID)
			}
			return nil, fmt.Errorf("failed to resolve table %d: %w", tableID, err)
		}
	}

	items, total, err := s.buildOrderItems(req.Items)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start transaction: %v", ErrTransactionFailure, err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrderForReplace(tx, orderID, tableID, models.Order{TotalAmount: total}, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: failed to update order header: %v", ErrTransactionFailure, err)
	}

	if _, err := s.orderRepo.DeleteOrderItemsByOrderID(tx, orderID); err != nil {
		return nil, fmt.Errorf("%w: failed to delete existing order items: %v", ErrTransactionFailure, err)
	}

	for _, item := range items {
		item.OrderID = orderID
		if _, err := s.orderRepo.CreateOrderItem(tx, &item); err != nil {
			return nil, fmt.Errorf("%w: failed to insert replacement order item (menu_item_id: %d): %v", ErrTransactionFailure, item.MenuItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: failed to commit item replace transaction: %v", ErrTransactionFailure, err)
	}
	return s.GetOrderByID(orderID)
}

func (s *orderService) UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !isValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, req.Status)
	}

	currentOrder, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order for status update: %w", err)
	}

	// Same-status transition is an idempotent success.
	if currentOrder.Status == req.Status {
		return s.GetOrderByID(orderID)
	}

	if !canTransition(currentOrder.Status, req.Status) {
		return nil, fmt.Errorf("%w: cannot move order %d from %s to %s",
			ErrStatusNotReachable, orderID, currentOrder.Status, req.Status)
	}

	if err := s.orderRepo.UpdateOrderStatus(s.db, orderID, req.Status, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status in repository: %w", err)
	}
	return s.GetOrderByID(orderID)
}

func (s *orderService) UpdateOrderPayment(orderID int64, req UpdateOrderPaymentRequest) error {
	paymentStatus := PaymentPaid
	if req.PaymentStatus != nil {
		if *req.PaymentStatus != PaymentPaid && *req.PaymentStatus != PaymentUnpaid {
			return fmt.Errorf("%w: unknown payment status %s", ErrValidation, *req.PaymentStatus)
		}
		paymentStatus = *req.PaymentStatus
	}

	err := s.orderRepo.UpdateOrderPayment(s.db, orderID, paymentStatus, req.PaymentMethod, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to update order payment: %w", err)
	}
	return nil
}

func (s *orderService) DeleteOrder(orderID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to start transaction: %v", ErrTransactionFailure, err)
	}
	defer tx.Rollback()

	// Items first, then the header; both inside one transaction.
	if _, err := s.orderRepo.DeleteOrderItemsByOrderID(tx, orderID); err != nil {
		return fmt.Errorf("%w: failed to delete order items: %v", ErrTransactionFailure, err)
	}

	if _, err := s.orderRepo.DeleteOrder(tx, orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("%w: failed to delete order: %v", ErrTransactionFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit order delete transaction: %v", ErrTransactionFailure, err)
	}
	return nil
}
