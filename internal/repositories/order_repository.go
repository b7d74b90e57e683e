package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_ops_backend/internal/models"

	"github.com/lib/pq" // For pq.Error and pq.Array
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// Order header methods
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, error)
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error
	UpdateOrderPayment(executor SQLExecutor, orderID int64, paymentStatus, paymentMethod string, updatedAt time.Time) error
	UpdateOrderForReplace(executor SQLExecutor, orderID int64, tableID int64, order models.Order, updatedAt time.Time) error
	DeleteOrder(executor SQLExecutor, orderID int64) (int64, error)

	// OrderItem methods
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error)
	DeleteOrderItemsByOrderID(executor SQLExecutor, orderID int64) (int64, error)

	// Billing methods
	GetUnpaidOrdersByTable(ctx context.Context, tableID int64) ([]models.Order, error)
	LockUnpaidOrderIDs(executor SQLExecutor, tableID int64) ([]int64, error)
	MarkOrdersPaid(executor SQLExecutor, orderIDs []int64, paymentMethod string, updatedAt time.Time) (int64, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// --- Order Header Methods ---

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (table_id, status, payment_status, total_amount, payment_method, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		order.TableID, order.Status, order.PaymentStatus, order.TotalAmount,
		order.PaymentMethod, order.Notes, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	order := &models.Order{}
	var tableName sql.NullString
	query := `SELECT o.id, o.table_id, o.status, o.payment_status, o.total_amount,
	                 o.payment_method, o.notes, o.created_at, o.updated_at,
	                 t.name AS table_name
	          FROM orders o
	          LEFT JOIN tables t ON o.table_id = t.id
	          WHERE o.id = $1`
	err := r.db.QueryRow(query, orderID).Scan(
		&order.ID, &order.TableID, &order.Status, &order.PaymentStatus, &order.TotalAmount,
		&order.PaymentMethod, &order.Notes, &order.CreatedAt, &order.UpdatedAt,
		&tableName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if tableName.Valid {
		name := tableName.String
		order.TableName = &name
	}
	return order, nil
}

// GetOrders returns orders newest-first, each with its item lines attached.
// This is the kitchen view: one joined query, grouped by order id in Go.
func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT o.id, o.table_id, o.status, o.payment_status, o.total_amount,
               o.payment_method, o.notes, o.created_at, o.updated_at,
               t.name AS table_name,
               oi.id, oi.menu_item_id, oi.quantity, oi.unit_price, oi.total_price,
               m.name AS item_name
        FROM orders o
        JOIN tables t ON o.table_id = t.id
        JOIN order_items oi ON o.id = oi.order_id
        JOIN menu_items m ON oi.menu_item_id = m.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.TableID != nil {
		conditions = append(conditions, fmt.Sprintf("o.table_id = $%d", argCounter))
		args = append(args, *filters.TableID)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.PaymentStatus != nil && *filters.PaymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("o.payment_status = $%d", argCounter))
		args = append(args, *filters.PaymentStatus)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC, o.id DESC, oi.id")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	index := map[int64]int{}

	for rows.Next() {
		var o models.Order
		var tableName string
		var item models.OrderItem
		var itemName string

		err := rows.Scan(
			&o.ID, &o.TableID, &o.Status, &o.PaymentStatus, &o.TotalAmount,
			&o.PaymentMethod, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
			&tableName,
			&item.ID, &item.MenuItemID, &item.Quantity, &item.UnitPrice, &item.TotalPrice,
			&itemName,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order row: %v", ErrDatabaseError, err)
		}

		item.OrderID = o.ID
		item.ItemName = &itemName

		if pos, seen := index[o.ID]; seen {
			orders[pos].OrderItems = append(orders[pos].OrderItems, item)
			continue
		}
		o.TableName = &tableName
		o.OrderItems = []models.OrderItem{item}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order status update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderPayment(executor SQLExecutor, orderID int64, paymentStatus, paymentMethod string, updatedAt time.Time) error {
	query := `UPDATE orders SET payment_status = $1, payment_method = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, paymentStatus, paymentMethod, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating payment for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for payment update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateOrderForReplace rewrites the header fields that a full item replace
// touches: the table assignment and the recomputed total.
func (r *orderRepository) UpdateOrderForReplace(executor SQLExecutor, orderID int64, tableID int64, order models.Order, updatedAt time.Time) error {
	query := `UPDATE orders SET table_id = $1, total_amount = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, tableID, order.TotalAmount, updatedAt, orderID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: moving order %d to table %d (constraint: %s): %v", ErrDatabaseError, orderID, tableID, pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: updating order %d for item replace: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order replace update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrder(executor SQLExecutor, orderID int64) (int64, error) {
	query := `DELETE FROM orders WHERE id = $1`
	result, err := executor.Exec(query, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return 0, ErrNotFound
	}
	return rowsAffected, nil
}

// --- OrderItem Methods ---

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, total_price)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	err := executor.QueryRow(query,
		item.OrderID, item.MenuItemID, item.Quantity, item.UnitPrice, item.TotalPrice,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `
		SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.unit_price, oi.total_price,
		       m.name AS item_name
		FROM order_items oi
		JOIN menu_items m ON oi.menu_item_id = m.id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var itemName string

		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.UnitPrice, &item.TotalPrice,
			&itemName,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		item.ItemName = &itemName
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func (r *orderRepository) DeleteOrderItemsByOrderID(executor SQLExecutor, orderID int64) (int64, error) {
	query := `DELETE FROM order_items WHERE order_id = $1`
	result, err := executor.Exec(query, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return rowsAffected, nil
}

// --- Billing Methods ---

// GetUnpaidOrdersByTable fetches every unpaid order for a table with its
// items. The aggregate can span many orders, so the query carries the
// caller's context and honors its deadline.
func (r *orderRepository) GetUnpaidOrdersByTable(ctx context.Context, tableID int64) ([]models.Order, error) {
	query := `
		SELECT o.id, o.table_id, o.status, o.payment_status, o.total_amount,
		       o.payment_method, o.notes, o.created_at, o.updated_at,
		       oi.id, oi.menu_item_id, oi.quantity, oi.unit_price, oi.total_price,
		       m.name AS item_name
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		JOIN menu_items m ON oi.menu_item_id = m.id
		WHERE o.table_id = $1 AND o.payment_status = 'Unpaid'
		ORDER BY o.id, oi.id`

	rows, err := r.db.QueryContext(ctx, query, tableID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying unpaid orders for table %d: %v", ErrDatabaseError, tableID, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	index := map[int64]int{}

	for rows.Next() {
		var o models.Order
		var item models.OrderItem
		var itemName string

		err := rows.Scan(
			&o.ID, &o.TableID, &o.Status, &o.PaymentStatus, &o.TotalAmount,
			&o.PaymentMethod, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
			&item.ID, &item.MenuItemID, &item.Quantity, &item.UnitPrice, &item.TotalPrice,
			&itemName,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning unpaid order for table %d: %v", ErrDatabaseError, tableID, err)
		}

		item.OrderID = o.ID
		item.ItemName = &itemName

		if pos, seen := index[o.ID]; seen {
			orders[pos].OrderItems = append(orders[pos].OrderItems, item)
			continue
		}
		o.OrderItems = []models.OrderItem{item}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating unpaid orders for table %d: %v", ErrDatabaseError, tableID, err)
	}
	return orders, nil
}

// LockUnpaidOrderIDs selects the ids of a table's unpaid orders with a row
// lock, so two concurrent settlements on the same table serialize: the
// second caller blocks, then sees no unpaid rows left.
func (r *orderRepository) LockUnpaidOrderIDs(executor SQLExecutor, tableID int64) ([]int64, error) {
	query := `SELECT id FROM orders
	          WHERE table_id = $1 AND payment_status = 'Unpaid'
	          ORDER BY id
	          FOR UPDATE`

	rows, err := executor.Query(query, tableID)
	if err != nil {
		return nil, fmt.Errorf("%w: locking unpaid orders for table %d: %v", ErrDatabaseError, tableID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning locked order id for table %d: %v", ErrDatabaseError, tableID, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating locked order ids for table %d: %v", ErrDatabaseError, tableID, err)
	}
	return ids, nil
}

// MarkOrdersPaid flips every given order to Paid in a single statement.
// Settlement is all-or-nothing: the caller runs this inside a transaction
// and rolls back unless the affected count matches the id set.
func (r *orderRepository) MarkOrdersPaid(executor SQLExecutor, orderIDs []int64, paymentMethod string, updatedAt time.Time) (int64, error) {
	query := `UPDATE orders
	          SET payment_status = 'Paid', payment_method = $1, updated_at = $2
	          WHERE id = ANY($3) AND payment_status = 'Unpaid'`

	result, err := executor.Exec(query, paymentMethod, updatedAt, pq.Array(orderIDs))
	if err != nil {
		return 0, fmt.Errorf("%w: marking orders paid: %v", ErrDatabaseError, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for marking orders paid: %v", ErrDatabaseError, err)
	}
	return rowsAffected, nil
}
