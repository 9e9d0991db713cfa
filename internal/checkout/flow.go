// Package checkout drives the two-step order flow: confirm the order with a
// shipping address, then initiate payment against the hosted gateway.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

var (
	// ErrEmptyCart rejects confirmation before any network call is made.
	ErrEmptyCart = errors.New("checkout: cart is empty, nothing to checkout")

	ErrAlreadyConfirmed = errors.New("checkout: order already confirmed")
	ErrNotConfirmed     = errors.New("checkout: order has not been confirmed")
)

// ValidationError wraps the per-field address failures. The flow stays in
// EDITING when it is returned.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// API is the slice of the backend client the flow needs.
type API interface {
	SubmitOrder(ctx context.Context, addr domain.Address, items []domain.OrderItem, idempotencyKey string) (domain.Order, error)
	CreatePayment(ctx context.Context, amount decimal.Decimal, orderID string) (string, error)
}

// CartSource supplies the order summary. The cart manager implements it.
type CartSource interface {
	Snapshot() domain.Cart
	Load(ctx context.Context) (domain.Cart, error)
}

type Flow struct {
	api  API
	cart CartSource
	log  *zap.Logger

	mu     sync.Mutex
	status domain.CheckoutStatus
	order  domain.Order
	idem   string
}

func NewFlow(api API, cart CartSource, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{
		api:    api,
		cart:   cart,
		log:    log,
		status: domain.CheckoutStatusEditing,
		idem:   uuid.NewString(),
	}
}

// Status returns the current flow state.
func (f *Flow) Status() domain.CheckoutStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Order returns the confirmed order; the zero Order before confirmation.
func (f *Flow) Order() domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

// Confirm validates the address and submits the order built from the cart
// snapshot. Validation failures and submission failures keep the flow in
// EDITING; success moves it to CONFIRMED and records the order. Business
// rejections (empty cart, bad address) never reach the network.
func (f *Flow) Confirm(ctx context.Context, addr domain.Address) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.status.CanTransitionTo(domain.CheckoutStatusConfirmed) {
		return f.order, ErrAlreadyConfirmed
	}
	if errs := addr.Validate(); len(errs) > 0 {
		return domain.Order{}, &ValidationError{Errors: errs}
	}

	snapshot := f.cart.Snapshot()
	if snapshot.IsEmpty() {
		return domain.Order{}, ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		items = append(items, domain.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	order, err := f.api.SubmitOrder(ctx, addr, items, f.idem)
	if err != nil {
		return domain.Order{}, fmt.Errorf("submit order: %w", err)
	}
	if order.Total.IsZero() {
		order.Total = snapshot.TotalPrice
	}

	f.order = order
	f.status = domain.CheckoutStatusConfirmed
	f.log.Info("order confirmed",
		zap.String("order_id", order.ID),
		zap.String("total", order.Total.String()),
	)
	return order, nil
}

// Pay requests a payment intent for the confirmed order and returns the
// hosted gateway URL. Failure leaves the flow in CONFIRMED: the order is
// already placed, so payment can simply be retried.
func (f *Flow) Pay(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != domain.CheckoutStatusConfirmed {
		return "", ErrNotConfirmed
	}

	paymentURL, err := f.api.CreatePayment(ctx, f.order.Total, f.order.ID)
	if err != nil {
		return "", fmt.Errorf("create payment: %w", err)
	}
	return paymentURL, nil
}
