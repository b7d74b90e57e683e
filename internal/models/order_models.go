package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a single placed request tied to a table. It owns its items:
// the pair is created together and items are only ever replaced wholesale.
type Order struct {
	ID            int64           `json:"id" db:"id"`
	TableID       int64           `json:"table_id" db:"table_id"`
	Status        string          `json:"status" db:"status"`
	PaymentStatus string          `json:"payment_status" db:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentMethod *string         `json:"payment_method,omitempty" db:"payment_method"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	TableName  *string     `json:"table_name,omitempty"`
	OrderItems []OrderItem `json:"items"`
}

// OrderItem is one line of an order. UnitPrice is the menu price captured
// when the line was written, decoupled from the live menu price.
type OrderItem struct {
	ID         int64           `json:"id" db:"id"`
	OrderID    int64           `json:"order_id" db:"order_id"`
	MenuItemID int64           `json:"menu_item_id" db:"menu_item_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`

	ItemName *string `json:"name,omitempty"`
}

// OrderFilters defines the available filters for querying orders.
// Used by both the service and repository layers.
type OrderFilters struct {
	TableID       *int64  `form:"table_id"`
	Status        *string `form:"status"`
	PaymentStatus *string `form:"payment_status"`
}
