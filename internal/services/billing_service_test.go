package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unpaidOrder(id int64, items ...models.OrderItem) models.Order {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return models.Order{
		ID:            id,
		TableID:       1,
		Status:        StatusDelivered,
		PaymentStatus: PaymentUnpaid,
		TotalAmount:   total,
		OrderItems:    items,
	}
}

func orderLine(menuItemID int64, qty int, unitPrice float64, name string) models.OrderItem {
	price := decimal.NewFromFloat(unitPrice)
	return models.OrderItem{
		MenuItemID: menuItemID,
		Quantity:   qty,
		UnitPrice:  price,
		TotalPrice: price.Mul(decimal.NewFromInt(int64(qty))),
		ItemName:   strPtr(name),
	}
}

func TestMergeUnpaidOrders(t *testing.T) {
	// Two orders share menu item 1: qty 2 then qty 1 must merge to qty 3,
	// line total 30, with both contributing order ids retained.
	orders := []models.Order{
		unpaidOrder(100, orderLine(1, 2, 10, "Margherita")),
		unpaidOrder(101, orderLine(1, 1, 10, "Margherita"), orderLine(2, 1, 3.50, "Lemonade")),
	}

	lines, grandTotal := mergeUnpaidOrders(orders)
	require.Len(t, lines, 2)

	assert.Equal(t, int64(1), lines[0].MenuItemID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].LineTotal.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, []int64{100, 101}, lines[0].OrderIDs)

	assert.Equal(t, int64(2), lines[1].MenuItemID)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, []int64{101}, lines[1].OrderIDs)

	assert.True(t, grandTotal.Equal(decimal.NewFromFloat(33.50)))
}

func TestMergeUnpaidOrdersEmpty(t *testing.T) {
	lines, grandTotal := mergeUnpaidOrders(nil)
	assert.Empty(t, lines)
	assert.True(t, grandTotal.IsZero())
}

func TestUnpaidBill(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orderRepo := &mockOrderRepo{
		GetUnpaidOrdersByTableFn: func(ctx context.Context, tableID int64) ([]models.Order, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline, "bill aggregate must carry a bounded timeout")
			return []models.Order{
				unpaidOrder(100, orderLine(1, 2, 10, "Margherita")),
				unpaidOrder(101, orderLine(1, 1, 10, "Margherita")),
			}, nil
		},
	}
	tableRepo := &mockTableRepo{
		GetTableByIDFn: func(id int64) (*models.Table, error) {
			return &models.Table{ID: id, Name: "Window 4"}, nil
		},
	}

	svc := NewBillingService(orderRepo, tableRepo, nil, db)

	bill, err := svc.UnpaidBill(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Window 4", bill.TableName)
	assert.Equal(t, []int64{100, 101}, bill.OrderIDs)
	require.Len(t, bill.Lines, 1)
	assert.Equal(t, 3, bill.Lines[0].Quantity)
	assert.True(t, bill.GrandTotal.Equal(decimal.NewFromInt(30)))
}

func TestUnpaidBillUnknownTable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tableRepo := &mockTableRepo{
		GetTableByIDFn: func(id int64) (*models.Table, error) {
			return nil, repositories.ErrNotFound
		},
	}
	svc := NewBillingService(&mockOrderRepo{}, tableRepo, nil, db)

	_, err = svc.UnpaidBill(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestSettleMarksAllOrdersPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_amount FROM orders").
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"total_amount"}).AddRow("20.00"))
	mock.ExpectQuery("SELECT total_amount FROM orders").
		WithArgs(int64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"total_amount"}).AddRow("13.50"))
	mock.ExpectCommit()

	orderRepo := &mockOrderRepo{
		LockUnpaidOrderIDsFn: func(_ repositories.SQLExecutor, tableID int64) ([]int64, error) {
			return []int64{100, 101}, nil
		},
		MarkOrdersPaidFn: func(_ repositories.SQLExecutor, orderIDs []int64, paymentMethod string, _ time.Time) (int64, error) {
			assert.Equal(t, []int64{100, 101}, orderIDs)
			assert.Equal(t, "Card", paymentMethod)
			return 2, nil
		},
	}
	tableRepo := &mockTableRepo{
		GetTableByIDFn: func(id int64) (*models.Table, error) {
			return &models.Table{ID: id}, nil
		},
	}

	svc := NewBillingService(orderRepo, tableRepo, nil, db)

	result, err := svc.Settle(context.Background(), 1, SettleRequest{PaymentMethod: "Card"})
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 101}, result.SettledOrderIDs)
	assert.True(t, result.AmountPaid.Equal(decimal.NewFromFloat(33.50)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleRollsBackOnPartialUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	orderRepo := &mockOrderRepo{
		LockUnpaidOrderIDsFn: func(_ repositories.SQLExecutor, tableID int64) ([]int64, error) {
			return []int64{100, 101}, nil
		},
		// One of the two rows was not flipped: the settlement must abort
		// rather than commit a half-paid bill.
		MarkOrdersPaidFn: func(_ repositories.SQLExecutor, orderIDs []int64, paymentMethod string, _ time.Time) (int64, error) {
			return 1, nil
		},
	}
	tableRepo := &mockTableRepo{
		GetTableByIDFn: func(id int64) (*models.Table, error) {
			return &models.Table{ID: id}, nil
		},
	}

	svc := NewBillingService(orderRepo, tableRepo, nil, db)

	_, err = svc.Settle(context.Background(), 1, SettleRequest{PaymentMethod: "Card"})
	assert.ErrorIs(t, err, ErrTransactionFailure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleWithNoUnpaidOrdersIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	// A concurrent settlement already won: the loser sees no unpaid rows
	// and returns success with nothing settled, never a double charge.
	orderRepo := &mockOrderRepo{
		LockUnpaidOrderIDsFn: func(_ repositories.SQLExecutor, tableID int64) ([]int64, error) {
			return nil, nil
		},
	}
	tableRepo := &mockTableRepo{
		GetTableByIDFn: func(id int64) (*models.Table, error) {
			return &models.Table{ID: id}, nil
		},
	}

	svc := NewBillingService(orderRepo, tableRepo, nil, db)

	result, err := svc.Settle(context.Background(), 1, SettleRequest{PaymentMethod: "Cash"})
	require.NoError(t, err)
	assert.Empty(t, result.SettledOrderIDs)
	assert.True(t, result.AmountPaid.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleFailurePropagatesAsTransactionFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	orderRepo := &mockOrderRepo{
		LockUnpaidOrderIDsFn: func(_ repositories.SQLExecutor, tableID int64) ([]int64, error) {
			return nil, errors.Join(repositories.ErrDatabaseError, errors.New("lock timeout"))
		},
	}
	tableRepo := &mockTableRepo{
		GetTableByIDFn: func(id int64) (*models.Table, error) {
			return &models.Table{ID: id}, nil
		},
	}

	svc := NewBillingService(orderRepo, tableRepo, nil, db)

	_, err = svc.Settle(context.Background(), 1, SettleRequest{PaymentMethod: "Cash"})
	assert.ErrorIs(t, err, ErrTransactionFailure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConsolidatedOrderDelegates(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	captured := CreateOrderRequest{}
	orderSvc := &stubOrderService{
		CreateOrderFn: func(req CreateOrderRequest) (*models.Order, error) {
			captured = req
			return &models.Order{ID: 7, TableID: req.TableID}, nil
		},
	}

	svc := NewBillingService(&mockOrderRepo{}, &mockTableRepo{}, orderSvc, db)

	notes := "birthday table"
	order, err := svc.CreateConsolidatedOrder(3, CreateConsolidatedOrderRequest{
		Items: []CreateOrderItemRequest{{MenuItemID: 1, Quantity: 2}},
		Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), order.ID)
	assert.Equal(t, int64(3), captured.TableID)
	assert.Equal(t, &notes, captured.Notes)
	require.Len(t, captured.OrderItems, 1)
}

// stubOrderService satisfies OrderService for consolidation tests.
type stubOrderService struct {
	CreateOrderFn func(req CreateOrderRequest) (*models.Order, error)
}

func (s *stubOrderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	return s.CreateOrderFn(req)
}

func (s *stubOrderService) GetOrders(filters models.OrderFilters) ([]models.Order, error) {
	return nil, errMockNotConfigured
}

func (s *stubOrderService) GetOrderByID(orderID int64) (*models.Order, error) {
	return nil, errMockNotConfigured
}

func (s *stubOrderService) ReplaceOrderItems(orderID int64, req ReplaceOrderRequest) (*models.Order, error) {
	return nil, errMockNotConfigured
}

func (s *stubOrderService) UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	return nil, errMockNotConfigured
}

func (s *stubOrderService) UpdateOrderPayment(orderID int64, req UpdateOrderPaymentRequest) error {
	return errMockNotConfigured
}

func (s *stubOrderService) DeleteOrder(orderID int64) error {
	return errMockNotConfigured
}
