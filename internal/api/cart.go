package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

// wireCartItem covers every line shape the backend has been seen to emit:
// "product" as a nested object, "product" as a bare id, a flat "product_id",
// or just "id" with the product fields inlined.
type wireCartItem struct {
	Product   json.RawMessage  `json:"product"`
	ProductID int64            `json:"product_id"`
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Price     *decimal.Decimal `json:"price"`
	Image     string           `json:"image"`
	Quantity  int              `json:"quantity"`
}

type wireProduct struct {
	ID    int64            `json:"id"`
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Image string           `json:"image"`
}

type wireCart struct {
	ID         json.Number      `json:"id"`
	Items      []wireCartItem   `json:"items"`
	TotalPrice *decimal.Decimal `json:"total_price"`
	Total      *decimal.Decimal `json:"total"`
	TotalItems *int             `json:"total_items"`
}

// GetCart fetches the authoritative cart.
func (c *Client) GetCart(ctx context.Context) (domain.Cart, error) {
	var wire wireCart
	if err := c.do(ctx, http.MethodGet, "cart/", nil, nil, &wire); err != nil {
		return domain.EmptyCart(), err
	}
	return normalizeCart(wire), nil
}

// AddToCart asks the server to increment the line for productID by quantity,
// creating it when absent. When the mutation response carries the full cart
// it is returned with ok=true; otherwise the caller must refetch.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) (domain.Cart, bool, error) {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	return c.cartMutation(ctx, "cart/add/", body)
}

// RemoveFromCart asks the server to decrement the line by quantity.
func (c *Client) RemoveFromCart(ctx context.Context, productID int64, quantity int) (domain.Cart, bool, error) {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	return c.cartMutation(ctx, "cart/remove/", body)
}

// RemoveAllFromCart drops the line entirely, regardless of quantity.
func (c *Client) RemoveAllFromCart(ctx context.Context, productID int64) (domain.Cart, bool, error) {
	body := map[string]any{"product_id": productID, "quantity": "all"}
	return c.cartMutation(ctx, "cart/remove/", body)
}

func (c *Client) cartMutation(ctx context.Context, path string, body map[string]any) (domain.Cart, bool, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, path, nil, body, &raw); err != nil {
		return domain.EmptyCart(), false, err
	}

	// Some deployments answer with the updated cart, others with just the
	// touched line or a bare ack.
	var probe struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Items == nil {
		return domain.EmptyCart(), false, nil
	}

	var wire wireCart
	if err := json.Unmarshal(raw, &wire); err != nil {
		return domain.EmptyCart(), false, nil
	}
	return normalizeCart(wire), true, nil
}

// normalizeCart flattens every wire shape into the canonical Cart. Lines the
// server reports with quantity < 1 are dropped rather than displayed, and
// the denormalized totals are recomputed whenever the server omits them.
func normalizeCart(wire wireCart) domain.Cart {
	cart := domain.Cart{ID: wire.ID.String(), TotalPrice: decimal.Zero}
	if cart.ID == "" || cart.ID == "0" {
		cart.ID = ""
	}

	for _, item := range wire.Items {
		line, ok := normalizeLine(item)
		if !ok {
			continue
		}
		cart.Lines = append(cart.Lines, line)
	}

	switch {
	case wire.TotalPrice != nil:
		cart.TotalPrice = *wire.TotalPrice
	case wire.Total != nil:
		cart.TotalPrice = *wire.Total
	default:
		cart.TotalPrice = cart.ComputedTotal()
	}
	if wire.TotalItems != nil {
		cart.TotalItems = *wire.TotalItems
	} else {
		cart.TotalItems = cart.ComputedItems()
	}
	return cart
}

func normalizeLine(item wireCartItem) (domain.CartLine, bool) {
	line := domain.CartLine{
		Name:      item.Name,
		Image:     item.Image,
		Quantity:  item.Quantity,
		UnitPrice: decimal.Zero,
	}
	if item.Price != nil {
		line.UnitPrice = *item.Price
	}

	if len(item.Product) > 0 {
		var nested wireProduct
		if err := json.Unmarshal(item.Product, &nested); err == nil && nested.ID != 0 {
			line.ProductID = nested.ID
			line.Name = nested.Name
			line.Image = nested.Image
			if nested.Price != nil {
				line.UnitPrice = *nested.Price
			}
		} else {
			var bareID int64
			if err := json.Unmarshal(item.Product, &bareID); err == nil {
				line.ProductID = bareID
			}
		}
	}
	if line.ProductID == 0 {
		line.ProductID = item.ProductID
	}
	if line.ProductID == 0 {
		line.ProductID = item.ID
	}

	if line.ProductID == 0 || line.Quantity < 1 {
		return domain.CartLine{}, false
	}
	return line, true
}
