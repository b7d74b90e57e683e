package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem represents a dish on the menu. Order items snapshot the price at
// order time, so editing a menu item later never rewrites past orders.
type MenuItem struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name" binding:"required"`
	Description string          `json:"description" db:"description" binding:"required"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImageURL    *string         `json:"image_url,omitempty" db:"image_url"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// PopularMenuItem is a menu item annotated with how often it was ordered.
type PopularMenuItem struct {
	MenuItem
	TotalOrdered int64 `json:"total_ordered" db:"total_ordered"`
}
