package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry as served by the backend. The client never
// mutates products; they live only for the duration of the page view.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
}

// Pagination is server-provided paging metadata. The client requests the
// indices the server hands back and does no paging math of its own.
type Pagination struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}
