// Package cart maintains the client-visible snapshot of the server-owned
// cart and mediates every mutation through it, so the UI never displays a
// quantity the server does not know about.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
	"github.com/Thamsanqa-bit/penden-storefront/internal/store"
)

var (
	// ErrLineBusy means a mutation for the same product is still in flight.
	// Callers surface it by keeping that product's controls disabled; they
	// never queue a second request behind the first.
	ErrLineBusy = errors.New("cart: mutation for this product already in flight")

	ErrInvalidDelta = errors.New("cart: delta must be a positive integer")
)

// API is the slice of the backend client the manager needs. The bool result
// reports whether the mutation response carried the full updated cart.
type API interface {
	GetCart(ctx context.Context) (domain.Cart, error)
	AddToCart(ctx context.Context, productID int64, quantity int) (domain.Cart, bool, error)
	RemoveFromCart(ctx context.Context, productID int64, quantity int) (domain.Cart, bool, error)
	RemoveAllFromCart(ctx context.Context, productID int64) (domain.Cart, bool, error)
}

type Manager struct {
	api   API
	store store.Store
	log   *zap.Logger
	sfg   singleflight.Group // collapses concurrent Loads

	mu       sync.RWMutex
	snapshot domain.Cart

	inflightMu sync.Mutex
	inflight   map[int64]struct{}
}

func NewManager(api API, st store.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		api:      api,
		store:    st,
		log:      log,
		snapshot: domain.EmptyCart(),
		inflight: make(map[int64]struct{}),
	}
}

// Load fetches the authoritative cart and replaces the snapshot with it.
// On failure the snapshot is reset to the empty cart rather than left stale,
// and the error is returned for the caller to surface. Concurrent calls are
// collapsed into one request.
func (m *Manager) Load(ctx context.Context) (domain.Cart, error) {
	// The fetch is shared by every caller that joins it, so it must not die
	// with whichever caller started it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := m.sfg.Do("load", func() (any, error) {
		cart, err := m.api.GetCart(fetchCtx)
		if err != nil {
			m.setSnapshot(domain.EmptyCart())
			return domain.EmptyCart(), fmt.Errorf("load cart: %w", err)
		}
		m.setSnapshot(cart)
		return cart, nil
	})
	if err != nil {
		return domain.EmptyCart(), err
	}
	return v.(domain.Cart), nil
}

// Restore seeds the snapshot from the local store before the first Load, so
// a returning user sees their last-known cart immediately. Best effort: the
// cache is advisory and may be absent or stale.
func (m *Manager) Restore(ctx context.Context) {
	raw, err := m.store.Get(ctx, store.KeyCart)
	if err != nil {
		return
	}
	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		m.log.Debug("discarding unreadable cached cart", zap.Error(err))
		return
	}
	m.mu.Lock()
	m.snapshot = cart
	m.mu.Unlock()
}

// AddLine asks the server to increment the line for productID by delta,
// creating it when absent, then refreshes the snapshot from the server's
// answer. A failed mutation leaves the snapshot at its last-confirmed state.
func (m *Manager) AddLine(ctx context.Context, productID int64, delta int) error {
	if delta < 1 {
		return ErrInvalidDelta
	}
	release, err := m.acquireLine(productID)
	if err != nil {
		return err
	}
	defer release()

	cart, full, err := m.api.AddToCart(ctx, productID, delta)
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return m.refresh(ctx, cart, full)
}

// RemoveLine asks the server to decrement the line by delta. A decrement
// that reaches zero removes the line entirely; the snapshot never holds a
// line with quantity below one.
func (m *Manager) RemoveLine(ctx context.Context, productID int64, delta int) error {
	if delta < 1 {
		return ErrInvalidDelta
	}
	release, err := m.acquireLine(productID)
	if err != nil {
		return err
	}
	defer release()

	cart, full, err := m.api.RemoveFromCart(ctx, productID, delta)
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return m.refresh(ctx, cart, full)
}

// RemoveAll drops the line for productID regardless of its quantity.
func (m *Manager) RemoveAll(ctx context.Context, productID int64) error {
	release, err := m.acquireLine(productID)
	if err != nil {
		return err
	}
	defer release()

	cart, full, err := m.api.RemoveAllFromCart(ctx, productID)
	if err != nil {
		return fmt.Errorf("remove all from cart: %w", err)
	}
	return m.refresh(ctx, cart, full)
}

// Snapshot returns the last-known cart state. Pure read, never a network
// call.
func (m *Manager) Snapshot() domain.Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cart := m.snapshot
	cart.Lines = append([]domain.CartLine(nil), m.snapshot.Lines...)
	return cart
}

// QuantityOf returns the snapshot quantity for a product, 0 when absent.
func (m *Manager) QuantityOf(productID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot.QuantityOf(productID)
}

// InFlight reports whether a mutation for productID is outstanding, so the
// UI can keep that product's controls disabled.
func (m *Manager) InFlight(productID int64) bool {
	m.inflightMu.Lock()
	defer m.inflightMu.Unlock()
	_, busy := m.inflight[productID]
	return busy
}

// refresh applies the server's answer to a mutation: the response cart when
// it carried one, otherwise a full reload. Local counters are never trusted.
func (m *Manager) refresh(ctx context.Context, cart domain.Cart, full bool) error {
	if full {
		m.setSnapshot(cart)
		return nil
	}
	if _, err := m.Load(ctx); err != nil {
		return err
	}
	return nil
}

func (m *Manager) setSnapshot(cart domain.Cart) {
	m.mu.Lock()
	m.snapshot = cart
	m.mu.Unlock()
	m.persist(cart)
}

func (m *Manager) persist(cart domain.Cart) {
	data, err := json.Marshal(cart)
	if err != nil {
		m.log.Debug("marshal cart for cache", zap.Error(err))
		return
	}
	if err := m.store.Set(context.Background(), store.KeyCart, string(data)); err != nil {
		m.log.Debug("cache cart", zap.Error(err))
	}
}

func (m *Manager) acquireLine(productID int64) (func(), error) {
	m.inflightMu.Lock()
	defer m.inflightMu.Unlock()
	if _, busy := m.inflight[productID]; busy {
		return nil, ErrLineBusy
	}
	m.inflight[productID] = struct{}{}
	return func() {
		m.inflightMu.Lock()
		delete(m.inflight, productID)
		m.inflightMu.Unlock()
	}, nil
}
