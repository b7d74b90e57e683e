package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// billQueryTimeout bounds the unpaid-bill aggregate query. The scan can
// cover many orders for a busy table and must not hang the caller.
const billQueryTimeout = 5 * time.Second

// SettleRequest carries the payment method for a table settlement.
type SettleRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CreateConsolidatedOrderRequest creates one fresh order standing in for
// several cart additions, to be settled as a unit later.
type CreateConsolidatedOrderRequest struct {
	Items []CreateOrderItemRequest `json:"items" binding:"required,dive"`
	Notes *string                  `json:"notes"`
}

// BillingService consolidates a table's unpaid orders into one payable
// bill and settles them together.
type BillingService interface {
	UnpaidBill(ctx context.Context, tableID int64) (*models.TableBill, error)
	Settle(ctx context.Context, tableID int64, req SettleRequest) (*models.SettlementResult, error)
	CreateConsolidatedOrder(tableID int64, req CreateConsolidatedOrderRequest) (*models.Order, error)
}

type billingService struct {
	orderRepo    repositories.OrderRepository
	tableRepo    repositories.TableRepository
	orderService OrderService
	db           *sql.DB
}

// NewBillingService creates a new instance of BillingService.
func NewBillingService(
	or repositories.OrderRepository,
	tr repositories.TableRepository,
	os OrderService,
	db *sql.DB,
) BillingService {
	return &billingService{
		orderRepo:    or,
		tableRepo:    tr,
		orderService: os,
		db:           db,
	}
}

// mergeUnpaidOrders flattens the items of the given orders and folds lines
// sharing a menu item into one, summing quantities and line totals. Each
// merged line keeps the ids of the orders that contributed, so settlement
// knows exactly which rows it is paying off. Lines come out in ascending
// menu item id order.
func mergeUnpaidOrders(orders []models.Order) ([]models.BillLine, decimal.Decimal) {
	merged := map[int64]*models.BillLine{}
	contributors := map[int64]map[int64]struct{}{}

	for _, order := range orders {
		for _, item := range order.OrderItems {
			line, ok := merged[item.MenuItemID]
			if !ok {
				name := ""
				if item.ItemName != nil {
					name = *item.ItemName
				}
				line = &models.BillLine{
					MenuItemID: item.MenuItemID,
					ItemName:   name,
					UnitPrice:  item.UnitPrice,
					LineTotal:  decimal.Zero,
				}
				merged[item.MenuItemID] = line
				contributors[item.MenuItemID] = map[int64]struct{}{}
			}
			line.Quantity += item.Quantity
			line.LineTotal = line.LineTotal.Add(item.TotalPrice)
			contributors[item.MenuItemID][order.ID] = struct{}{}
		}
	}

	lines := make([]models.BillLine, 0, len(merged))
	grandTotal := decimal.Zero
	for menuItemID, line := range merged {
		for orderID := range contributors[menuItemID] {
			line.OrderIDs = append(line.OrderIDs, orderID)
		}
		sort.Slice(line.OrderIDs, func(i, j int) bool { return line.OrderIDs[i] < line.OrderIDs[j] })
		grandTotal = grandTotal.Add(line.LineTotal)
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].MenuItemID < lines[j].MenuItemID })
	return lines, grandTotal
}

func (s *billingService) UnpaidBill(ctx context.Context, tableID int64) (*models.TableBill, error) {
	table, err := s.tableRepo.GetTableByID(tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to resolve table %d: %w", tableID, err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, billQueryTimeout)
	defer cancel()

	orders, err := s.orderRepo.GetUnpaidOrdersByTable(queryCtx, tableID)
	if err != nil {
		if errors.Is(queryCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: unpaid bill query for table %d timed out", ErrTransactionFailure, tableID)
		}
		return nil, fmt.Errorf("failed to fetch unpaid orders for table %d: %w", tableID, err)
	}

	lines, grandTotal := mergeUnpaidOrders(orders)

	orderIDs := make([]int64, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}

	return &models.TableBill{
		TableID:    tableID,
		TableName:  table.Name,
		OrderIDs:   orderIDs,
		Lines:      lines,
		GrandTotal: grandTotal,
	}, nil
}

// Settle marks every unpaid order of the table as Paid with the given
// method, atomically: the contributing rows are locked, flipped with one
// statement, and the whole set commits or rolls back together. If another
// settlement won the race there is nothing left to pay and the result
// carries an empty order id set.
func (s *billingService) Settle(ctx context.Context, tableID int64, req SettleRequest) (*models.SettlementResult, error) {
	if _, err := s.tableRepo.GetTableByID(tableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to resolve table %d: %w", tableID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start settlement transaction: %v", ErrTransactionFailure, err)
	}
	defer tx.Rollback()

	orderIDs, err := s.orderRepo.LockUnpaidOrderIDs(tx, tableID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to lock unpaid orders for table %d: %v", errTranslateSettle(err), tableID, err)
	}

	result := &models.SettlementResult{
		TableID:       tableID,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    decimal.Zero,
	}

	if len(orderIDs) == 0 {
		// Nothing unpaid: a concurrent settlement already won, or the table
		// has no open orders. A no-op success, never a partial state.
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("%w: failed to commit empty settlement: %v", ErrTransactionFailure, err)
		}
		result.SettledOrderIDs = []int64{}
		return result, nil
	}

	affected, err := s.orderRepo.MarkOrdersPaid(tx, orderIDs, req.PaymentMethod, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to mark orders paid for table %d: %v", ErrTransactionFailure, tableID, err)
	}
	if affected != int64(len(orderIDs)) {
		// The locked set and the updated set must agree; anything else means
		// the bill would settle partially, so the transaction is abandoned.
		return nil, fmt.Errorf("%w: settlement for table %d updated %d of %d orders",
			ErrTransactionFailure, tableID, affected, len(orderIDs))
	}

	total, err := s.sumOrderTotals(tx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to total settled orders for table %d: %v", ErrTransactionFailure, tableID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: failed to commit settlement for table %d: %v", ErrTransactionFailure, tableID, err)
	}

	result.SettledOrderIDs = orderIDs
	result.AmountPaid = total
	return result, nil
}

func errTranslateSettle(err error) error {
	if errors.Is(err, repositories.ErrDatabaseError) {
		return ErrTransactionFailure
	}
	return err
}

func (s *billingService) sumOrderTotals(executor repositories.SQLExecutor, orderIDs []int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, id := range orderIDs {
		var amount decimal.Decimal
		if err := executor.QueryRow(`SELECT total_amount FROM orders WHERE id = $1`, id).Scan(&amount); err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(amount)
	}
	return total, nil
}

// CreateConsolidatedOrder creates one fresh order representing several cart
// additions. It changes which rows exist rather than their payment state,
// so it simply rides the order creation path.
func (s *billingService) CreateConsolidatedOrder(tableID int64, req CreateConsolidatedOrderRequest) (*models.Order, error) {
	return s.orderService.CreateOrder(CreateOrderRequest{
		TableID:    tableID,
		OrderItems: req.Items,
		Notes:      req.Notes,
	})
}
