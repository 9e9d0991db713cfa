package domain

import "github.com/shopspring/decimal"

// CartLine is the canonical product-and-quantity pairing. The backend emits
// cart items in more than one shape (nested product object, bare product id);
// the api package normalizes all of them into this struct on receipt so
// nothing above that boundary branches on response shape.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is unit price times quantity for this line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the client's snapshot of the server-owned cart. TotalPrice and
// TotalItems are denormalized for display; they must always agree with the
// line list and are never authoritative on their own.
type Cart struct {
	ID         string          `json:"id"`
	Lines      []CartLine      `json:"lines"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalItems int             `json:"total_items"`
}

// EmptyCart is the snapshot used when no cart exists or a load failed.
func EmptyCart() Cart {
	return Cart{TotalPrice: decimal.Zero}
}

// ComputedTotal sums unit price times quantity over all lines.
func (c Cart) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ComputedItems sums quantities over all lines.
func (c Cart) ComputedItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// QuantityOf returns the quantity for a product, 0 when it has no line.
func (c Cart) QuantityOf(productID int64) int {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
