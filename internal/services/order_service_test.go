package services

import (
	"testing"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testMenuItems() map[int64]models.MenuItem {
	return map[int64]models.MenuItem{
		1: {ID: 1, Name: "Margherita", Price: decimal.NewFromInt(10)},
		2: {ID: 2, Name: "Lemonade", Price: decimal.NewFromFloat(3.50)},
	}
}

func TestCreateOrderRecomputesTotal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	var persistedOrder models.Order
	var persistedItems []models.OrderItem

	orderRepo := &mockOrderRepo{
		CreateOrderFn: func(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
			persistedOrder = *order
			return 42, nil
		},
		CreateOrderItemFn: func(_ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
			persistedItems = append(persistedItems, *item)
			return int64(len(persistedItems)), nil
		},
		GetOrderByIDFn: func(orderID int64) (*models.Order, error) {
			return &models.Order{ID: orderID, TableID: 7, Status: StatusPreparing, PaymentStatus: PaymentUnpaid}, nil
		},
		GetOrderItemsByOrderIDFn: func(orderID int64) ([]models.OrderItem, error) {
			return persistedItems, nil
		},
	}
	menuRepo := &mockMenuRepo{
		GetMenuItemsByIDsFn: func(ids []int64) (map[int64]models.MenuItem, error) {
			return testMenuItems(), nil
		},
	}
	tableRepo := &mockTableRepo{
		GetTableByIDFn: func(id int64) (*models.Table, error) {
			return &models.Table{ID: id, Name: "T7"}, nil
		},
	}

	svc := NewOrderService(orderRepo, menuRepo, tableRepo, db)

	// The client claims a bogus total; the server must recompute 2*10 + 1*3.50.
	bogusTotal := decimal.NewFromInt(999)
	created, err := svc.CreateOrder(CreateOrderRequest{
		TableID: 7,
		OrderItems: []CreateOrderItemRequest{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 2, Quantity: 1},
		},
		TotalAmount: &bogusTotal,
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.True(t, persistedOrder.TotalAmount.Equal(decimal.NewFromFloat(23.50)),
		"expected recomputed total 23.50, got %s", persistedOrder.TotalAmount)
	assert.Equal(t, StatusPreparing, persistedOrder.Status)
	assert.Equal(t, PaymentUnpaid, persistedOrder.PaymentStatus)
	require.Len(t, persistedItems, 2)
	assert.True(t, persistedItems[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, persistedItems[0].TotalPrice.Equal(decimal.NewFromInt(20)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tableRepo := &mockTableRepo{
		GetTableByIDFn: func(id int64) (*models.Table, error) {
			return &models.Table{ID: id}, nil
		},
	}
	svc := NewOrderService(&mockOrderRepo{}, &mockMenuRepo{}, tableRepo, db)

	_, err = svc.CreateOrder(CreateOrderRequest{TableID: 1, OrderItems: nil})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderUnknownMenuItem(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	menuRepo := &mockMenuRepo{
		GetMenuItemsByIDsFn: func(ids []int64) (map[int64]models.MenuItem, error) {
			return map[int64]models.MenuItem{}, nil
		},
	}
	tableRepo := &mockTableRepo{
		GetTableByIDFn: func(id int64) (*models.Table, error) {
			return &models.Table{ID: id}, nil
		},
	}
	svc := NewOrderService(&mockOrderRepo{}, menuRepo, tableRepo, db)

	_, err = svc.CreateOrder(CreateOrderRequest{
		TableID:    1,
		OrderItems: []CreateOrderItemRequest{{MenuItemID: 99, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestReplaceOrderItemsIsDestructive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	deletedOld := false
	var inserted []models.OrderItem

	orderRepo := &mockOrderRepo{
		GetOrderByIDFn: func(orderID int64) (*models.Order, error) {
			return &models.Order{ID: orderID, TableID: 3, Status: StatusPreparing}, nil
		},
		UpdateOrderForReplaceFn: func(_ repositories.SQLExecutor, orderID, tableID int64, order models.Order, _ time.Time) error {
			assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(3.50)))
			return nil
		},
		DeleteOrderItemsByOrderIDFn: func(_ repositories.SQLExecutor, orderID int64) (int64, error) {
			deletedOld = true
			return 2, nil
		},
		CreateOrderItemFn: func(_ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
			require.True(t, deletedOld, "old items must be removed before new ones are inserted")
			inserted = append(inserted, *item)
			return 1, nil
		},
		GetOrderItemsByOrderIDFn: func(orderID int64) ([]models.OrderItem, error) {
			return inserted, nil
		},
	}
	menuRepo := &mockMenuRepo{
		GetMenuItemsByIDsFn: func(ids []int64) (map[int64]models.MenuItem, error) {
			return testMenuItems(), nil
		},
	}

	svc := NewOrderService(orderRepo, menuRepo, &mockTableRepo{}, db)

	updated, err := svc.ReplaceOrderItems(5, ReplaceOrderRequest{
		Items: []CreateOrderItemRequest{{MenuItemID: 2, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, updated.OrderItems, 1)
	assert.Equal(t, int64(2), updated.OrderItems[0].MenuItemID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceOrderItemsRejectsEmptyList(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orderRepo := &mockOrderRepo{
		GetOrderByIDFn: func(orderID int64) (*models.Order, error) {
			return &models.Order{ID: orderID, TableID: 3}, nil
		},
	}
	svc := NewOrderService(orderRepo, &mockMenuRepo{}, &mockTableRepo{}, db)

	_, err = svc.ReplaceOrderItems(5, ReplaceOrderRequest{Items: nil})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		name       string
		current    string
		requested  string
		wantErr    error
		wantUpdate bool
	}{
		{name: "preparing to ready", current: StatusPreparing, requested: StatusReady, wantUpdate: true},
		{name: "preparing to cancelled", current: StatusPreparing, requested: StatusCancelled, wantUpdate: true},
		{name: "ready to delivered", current: StatusReady, requested: StatusDelivered, wantUpdate: true},
		{name: "same status is idempotent", current: StatusReady, requested: StatusReady},
		{name: "delivered is terminal", current: StatusDelivered, requested: StatusPreparing, wantErr: ErrStatusNotReachable},
		{name: "cancelled is terminal", current: StatusCancelled, requested: StatusReady, wantErr: ErrStatusNotReachable},
		{name: "skipping ready", current: StatusPreparing, requested: StatusDelivered, wantErr: ErrStatusNotReachable},
		{name: "unknown status", current: StatusPreparing, requested: "Teleported", wantErr: ErrInvalidOrderStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			updateCalled := false
			orderRepo := &mockOrderRepo{
				GetOrderByIDFn: func(orderID int64) (*models.Order, error) {
					return &models.Order{ID: orderID, Status: tc.current}, nil
				},
				GetOrderItemsByOrderIDFn: func(orderID int64) ([]models.OrderItem, error) {
					return nil, nil
				},
				UpdateOrderStatusFn: func(_ repositories.SQLExecutor, orderID int64, newStatus string, _ time.Time) error {
					updateCalled = true
					assert.Equal(t, tc.requested, newStatus)
					return nil
				},
			}
			svc := NewOrderService(orderRepo, &mockMenuRepo{}, &mockTableRepo{}, db)

			_, err = svc.UpdateOrderStatus(1, UpdateOrderStatusRequest{Status: tc.requested})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantUpdate, updateCalled)
		})
	}
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orderRepo := &mockOrderRepo{
		GetOrderByIDFn: func(orderID int64) (*models.Order, error) {
			return nil, repositories.ErrNotFound
		},
	}
	svc := NewOrderService(orderRepo, &mockMenuRepo{}, &mockTableRepo{}, db)

	_, err = svc.UpdateOrderStatus(404, UpdateOrderStatusRequest{Status: StatusReady})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrderPaymentDefaultsToPaid(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orderRepo := &mockOrderRepo{
		UpdateOrderPaymentFn: func(_ repositories.SQLExecutor, orderID int64, paymentStatus, paymentMethod string, _ time.Time) error {
			assert.Equal(t, PaymentPaid, paymentStatus)
			assert.Equal(t, "Card", paymentMethod)
			return nil
		},
	}
	svc := NewOrderService(orderRepo, &mockMenuRepo{}, &mockTableRepo{}, db)

	err = svc.UpdateOrderPayment(1, UpdateOrderPaymentRequest{PaymentMethod: "Card"})
	assert.NoError(t, err)
}

func TestDeleteOrderRemovesItemsFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	itemsDeleted := false
	orderRepo := &mockOrderRepo{
		DeleteOrderItemsByOrderIDFn: func(_ repositories.SQLExecutor, orderID int64) (int64, error) {
			itemsDeleted = true
			return 3, nil
		},
		DeleteOrderFn: func(_ repositories.SQLExecutor, orderID int64) (int64, error) {
			require.True(t, itemsDeleted)
			return 1, nil
		},
	}
	svc := NewOrderService(orderRepo, &mockMenuRepo{}, &mockTableRepo{}, db)

	require.NoError(t, svc.DeleteOrder(9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOrderRollsBackWhenHeaderDeleteFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	orderRepo := &mockOrderRepo{
		DeleteOrderItemsByOrderIDFn: func(_ repositories.SQLExecutor, orderID int64) (int64, error) {
			return 3, nil
		},
		DeleteOrderFn: func(_ repositories.SQLExecutor, orderID int64) (int64, error) {
			return 0, repositories.ErrNotFound
		},
	}
	svc := NewOrderService(orderRepo, &mockMenuRepo{}, &mockTableRepo{}, db)

	err = svc.DeleteOrder(9)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
