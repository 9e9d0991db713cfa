package domain

import "github.com/shopspring/decimal"

// Order is the client's view of a placed order: an opaque id and the amount
// to charge. The order lifecycle past payment initiation is entirely
// server-side.
type Order struct {
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// OrderItem is one line of an order submission.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
