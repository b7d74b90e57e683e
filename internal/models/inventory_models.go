package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is the master record for one stocked ingredient.
// CurrentStock is a materialized running total over the transaction log
// and must always equal the log's cumulative effect; the two are only
// ever written inside the same database transaction.
type Ingredient struct {
	ID               int64           `json:"id" db:"id"`
	Name             string          `json:"name" db:"name" binding:"required"`
	Unit             string          `json:"unit" db:"unit" binding:"required"`
	CurrentStock     decimal.Decimal `json:"current_stock" db:"current_stock"`
	MinimumStock     decimal.Decimal `json:"minimum_stock" db:"minimum_stock"`
	PricePerUnit     decimal.Decimal `json:"price_per_unit" db:"price_per_unit"`
	Supplier         *string         `json:"supplier,omitempty" db:"supplier"`
	LastPurchaseDate *time.Time      `json:"last_purchase_date,omitempty" db:"last_purchase_date"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty" db:"expiry_date"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// InventoryTransaction is one row of the append-only stock ledger.
// Quantity is always a positive magnitude; the sign of its effect on
// stock is implied by TransactionType.
type InventoryTransaction struct {
	ID              int64           `json:"id" db:"id"`
	IngredientID    int64           `json:"ingredient_id" db:"ingredient_id"`
	TransactionType string          `json:"transaction_type" db:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	Reference       string          `json:"reference" db:"reference"`
	Notes           *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	IngredientName *string `json:"ingredient_name,omitempty"`
}

// StockAlert tags an ingredient with why it needs attention.
type StockAlert struct {
	Ingredient Ingredient `json:"ingredient"`
	AlertType  string     `json:"alert_type"`
}
