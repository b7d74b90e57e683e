package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkOrdersPaidSingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepository(db)

	now := time.Now()
	mock.ExpectExec(`UPDATE orders`).
		WithArgs("Card", now, pq.Array([]int64{100, 101})).
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.MarkOrdersPaid(db, []int64{100, 101}, "Card", now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockUnpaidOrderIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepository(db)

	mock.ExpectQuery(`SELECT id FROM orders`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100).AddRow(101))

	ids, err := repo.LockUnpaidOrderIDs(db, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 101}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnpaidOrdersByTableGroupsItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepository(db)

	cols := []string{
		"id", "table_id", "status", "payment_status", "total_amount",
		"payment_method", "notes", "created_at", "updated_at",
		"oi_id", "menu_item_id", "quantity", "unit_price", "total_price",
		"item_name",
	}
	now := time.Now()
	rows := sqlmock.NewRows(cols).
		AddRow(100, 4, "Delivered", "Unpaid", "33.50", nil, nil, now, now, 1, 1, 2, "10.00", "20.00", "Margherita").
		AddRow(100, 4, "Delivered", "Unpaid", "33.50", nil, nil, now, now, 2, 2, 1, "13.50", "13.50", "Lasagna").
		AddRow(101, 4, "Ready", "Unpaid", "10.00", nil, nil, now, now, 3, 1, 1, "10.00", "10.00", "Margherita")

	mock.ExpectQuery(`SELECT (.+) FROM orders o`).
		WithArgs(int64(4)).
		WillReturnRows(rows)

	orders, err := repo.GetUnpaidOrdersByTable(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, int64(100), orders[0].ID)
	require.Len(t, orders[0].OrderItems, 2)
	assert.Equal(t, int64(101), orders[1].ID)
	require.Len(t, orders[1].OrderItems, 1)
	assert.Equal(t, "Margherita", *orders[1].OrderItems[0].ItemName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepository(db)

	now := time.Now()
	mock.ExpectExec(`UPDATE orders SET status`).
		WithArgs("Ready", now, int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateOrderStatus(db, 404, "Ready", now)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
