package models

import "github.com/shopspring/decimal"

// BillLine is one merged line of a table's consolidated bill. Lines from
// different unpaid orders that share a menu item are folded together;
// OrderIDs keeps the set of orders that contributed, which settlement
// consumes directly.
type BillLine struct {
	MenuItemID int64           `json:"menu_item_id"`
	ItemName   string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
	OrderIDs   []int64         `json:"order_ids"`
}

// TableBill is the consolidated view of every unpaid order for one table.
type TableBill struct {
	TableID    int64           `json:"table_id"`
	TableName  string          `json:"table_name"`
	OrderIDs   []int64         `json:"order_ids"`
	Lines      []BillLine      `json:"lines"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// SettlementResult reports the outcome of settling a table's bill.
// SettledOrderIDs is empty when another caller already settled the table.
type SettlementResult struct {
	TableID         int64           `json:"table_id"`
	PaymentMethod   string          `json:"payment_method"`
	SettledOrderIDs []int64         `json:"settled_order_ids"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
}
