package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestCart_ComputedTotal(t *testing.T) {
	cart := Cart{
		Lines: []CartLine{
			{ProductID: 1, UnitPrice: price(t, "100.00"), Quantity: 2},
			{ProductID: 2, UnitPrice: price(t, "49.99"), Quantity: 3},
		},
	}

	assert.True(t, cart.ComputedTotal().Equal(price(t, "349.97")))
	assert.Equal(t, 5, cart.ComputedItems())
}

func TestCart_QuantityOf(t *testing.T) {
	cart := Cart{
		Lines: []CartLine{
			{ProductID: 7, UnitPrice: price(t, "10.00"), Quantity: 4},
		},
	}

	assert.Equal(t, 4, cart.QuantityOf(7))
	assert.Equal(t, 0, cart.QuantityOf(8), "absent product must report zero")
}

func TestCartLine_Subtotal(t *testing.T) {
	line := CartLine{UnitPrice: price(t, "19.95"), Quantity: 3}
	assert.True(t, line.Subtotal().Equal(price(t, "59.85")))
}

func TestEmptyCart(t *testing.T) {
	cart := EmptyCart()
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.TotalPrice.IsZero())
	assert.Equal(t, 0, cart.ComputedItems())
}
