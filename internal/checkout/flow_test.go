package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

type mockOrderAPI struct {
	submitErr  error
	paymentErr error

	gotAddr  domain.Address
	gotItems []domain.OrderItem
	gotIdem  string
	gotPayID string
	submits  int
}

func (m *mockOrderAPI) SubmitOrder(_ context.Context, addr domain.Address, items []domain.OrderItem, idem string) (domain.Order, error) {
	m.submits++
	m.gotAddr = addr
	m.gotItems = items
	m.gotIdem = idem
	if m.submitErr != nil {
		return domain.Order{}, m.submitErr
	}
	return domain.Order{ID: "1042", Total: decimal.RequireFromString("299.99")}, nil
}

func (m *mockOrderAPI) CreatePayment(_ context.Context, amount decimal.Decimal, orderID string) (string, error) {
	m.gotPayID = orderID
	if m.paymentErr != nil {
		return "", m.paymentErr
	}
	return "https://sandbox.payfast.co.za/eng/process?order=" + orderID, nil
}

type mockCart struct {
	cart domain.Cart
}

func (m *mockCart) Snapshot() domain.Cart { return m.cart }
func (m *mockCart) Load(context.Context) (domain.Cart, error) {
	return m.cart, nil
}

func cartWithLines() *mockCart {
	lines := []domain.CartLine{
		{ProductID: 1, Name: "Pen", UnitPrice: decimal.RequireFromString("100.00"), Quantity: 2},
		{ProductID: 3, Name: "Notebook", UnitPrice: decimal.RequireFromString("99.99"), Quantity: 1},
	}
	cart := domain.Cart{Lines: lines}
	cart.TotalPrice = cart.ComputedTotal()
	cart.TotalItems = cart.ComputedItems()
	return &mockCart{cart: cart}
}

func goodAddress() domain.Address {
	return domain.Address{
		FullName:   "Thandi Mokoena",
		Phone:      "0825550199",
		Street:     "14 Long Street",
		City:       "Cape Town",
		Province:   "Western Cape",
		PostalCode: "8001",
		Country:    "South Africa",
	}
}

func TestConfirm_MovesToConfirmed(t *testing.T) {
	api := &mockOrderAPI{}
	flow := NewFlow(api, cartWithLines(), nil)

	order, err := flow.Confirm(context.Background(), goodAddress())
	require.NoError(t, err)

	assert.Equal(t, "1042", order.ID)
	assert.Equal(t, domain.CheckoutStatusConfirmed, flow.Status())
	assert.Equal(t, []domain.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 3, Quantity: 1}}, api.gotItems)
	assert.NotEmpty(t, api.gotIdem, "order submission must carry an idempotency key")
}

func TestConfirm_InvalidAddressStaysEditing(t *testing.T) {
	api := &mockOrderAPI{}
	flow := NewFlow(api, cartWithLines(), nil)

	addr := goodAddress()
	addr.City = ""
	addr.Phone = "12"

	_, err := flow.Confirm(context.Background(), addr)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Errors, 2)
	assert.Equal(t, domain.CheckoutStatusEditing, flow.Status())
	assert.Zero(t, api.submits, "validation failures never reach the network")
}

func TestConfirm_EmptyCartNeverSubmits(t *testing.T) {
	api := &mockOrderAPI{}
	flow := NewFlow(api, &mockCart{cart: domain.EmptyCart()}, nil)

	_, err := flow.Confirm(context.Background(), goodAddress())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, domain.CheckoutStatusEditing, flow.Status())
	assert.Zero(t, api.submits)
}

func TestConfirm_SubmitFailureStaysEditing(t *testing.T) {
	api := &mockOrderAPI{submitErr: errors.New("backend down")}
	flow := NewFlow(api, cartWithLines(), nil)

	_, err := flow.Confirm(context.Background(), goodAddress())
	assert.Error(t, err)
	assert.Equal(t, domain.CheckoutStatusEditing, flow.Status())

	// The same flow can retry with the same idempotency key.
	firstKey := api.gotIdem
	api.submitErr = nil
	_, err = flow.Confirm(context.Background(), goodAddress())
	require.NoError(t, err)
	assert.Equal(t, firstKey, api.gotIdem)
}

func TestConfirm_TwiceIsRejected(t *testing.T) {
	api := &mockOrderAPI{}
	flow := NewFlow(api, cartWithLines(), nil)

	first, err := flow.Confirm(context.Background(), goodAddress())
	require.NoError(t, err)

	returned, err := flow.Confirm(context.Background(), goodAddress())
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, first, returned, "the already-placed order is reported back")
	assert.Equal(t, 1, api.submits)
}

func TestPay_RequiresConfirmation(t *testing.T) {
	flow := NewFlow(&mockOrderAPI{}, cartWithLines(), nil)

	_, err := flow.Pay(context.Background())
	assert.ErrorIs(t, err, ErrNotConfirmed)
}

func TestPay_ReturnsGatewayURL(t *testing.T) {
	api := &mockOrderAPI{}
	flow := NewFlow(api, cartWithLines(), nil)

	_, err := flow.Confirm(context.Background(), goodAddress())
	require.NoError(t, err)

	url, err := flow.Pay(context.Background())
	require.NoError(t, err)
	assert.Contains(t, url, "order=1042")
	assert.Equal(t, "1042", api.gotPayID)
}

func TestPay_FailureKeepsConfirmedForRetry(t *testing.T) {
	api := &mockOrderAPI{paymentErr: errors.New("gateway timeout")}
	flow := NewFlow(api, cartWithLines(), nil)

	_, err := flow.Confirm(context.Background(), goodAddress())
	require.NoError(t, err)

	_, err = flow.Pay(context.Background())
	assert.Error(t, err)
	assert.Equal(t, domain.CheckoutStatusConfirmed, flow.Status())

	api.paymentErr = nil
	url, err := flow.Pay(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, url)
}

func TestConfirm_FallsBackToSnapshotTotal(t *testing.T) {
	// Some deployments omit the total in the order response.
	api := &zeroTotalAPI{}
	cart := cartWithLines()
	flow := NewFlow(api, cart, nil)

	order, err := flow.Confirm(context.Background(), goodAddress())
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(cart.cart.TotalPrice))
}

type zeroTotalAPI struct{}

func (z *zeroTotalAPI) SubmitOrder(context.Context, domain.Address, []domain.OrderItem, string) (domain.Order, error) {
	return domain.Order{ID: "9", Total: decimal.Zero}, nil
}

func (z *zeroTotalAPI) CreatePayment(context.Context, decimal.Decimal, string) (string, error) {
	return "https://example.test/pay", nil
}
