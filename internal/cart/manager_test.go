package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
	"github.com/Thamsanqa-bit/penden-storefront/internal/store"
)

// mockAPI is a tiny in-memory cart backend implementing the API interface.
type mockAPI struct {
	mu         sync.Mutex
	quantities map[int64]int
	prices     map[int64]decimal.Decimal

	fullCartResponses bool // whether mutations answer with the updated cart
	getErr            error
	mutateErr         error
	getCalls          int

	// When set, mutations block until released. Used to hold a request in
	// flight.
	block chan struct{}

	// When set, GetCart signals getStarted and then blocks until getBlock
	// closes or its context is done.
	getBlock   chan struct{}
	getStarted chan struct{}
}

func newMockAPI() *mockAPI {
	return &mockAPI{
		quantities:        make(map[int64]int),
		prices:            map[int64]decimal.Decimal{1: decimal.NewFromInt(100), 2: decimal.RequireFromString("49.99")},
		fullCartResponses: true,
	}
}

func (m *mockAPI) snapshot() domain.Cart {
	cart := domain.EmptyCart()
	for id, qty := range m.quantities {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: id,
			UnitPrice: m.prices[id],
			Quantity:  qty,
		})
	}
	cart.TotalPrice = cart.ComputedTotal()
	cart.TotalItems = cart.ComputedItems()
	return cart
}

func (m *mockAPI) GetCart(ctx context.Context) (domain.Cart, error) {
	if m.getBlock != nil {
		if m.getStarted != nil {
			m.getStarted <- struct{}{}
		}
		select {
		case <-m.getBlock:
		case <-ctx.Done():
			return domain.EmptyCart(), ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return domain.EmptyCart(), m.getErr
	}
	return m.snapshot(), nil
}

func (m *mockAPI) AddToCart(_ context.Context, productID int64, quantity int) (domain.Cart, bool, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutateErr != nil {
		return domain.EmptyCart(), false, m.mutateErr
	}
	m.quantities[productID] += quantity
	if !m.fullCartResponses {
		return domain.EmptyCart(), false, nil
	}
	return m.snapshot(), true, nil
}

func (m *mockAPI) RemoveFromCart(_ context.Context, productID int64, quantity int) (domain.Cart, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutateErr != nil {
		return domain.EmptyCart(), false, m.mutateErr
	}
	if m.quantities[productID] <= quantity {
		delete(m.quantities, productID)
	} else {
		m.quantities[productID] -= quantity
	}
	if !m.fullCartResponses {
		return domain.EmptyCart(), false, nil
	}
	return m.snapshot(), true, nil
}

func (m *mockAPI) RemoveAllFromCart(_ context.Context, productID int64) (domain.Cart, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutateErr != nil {
		return domain.EmptyCart(), false, m.mutateErr
	}
	delete(m.quantities, productID)
	if !m.fullCartResponses {
		return domain.EmptyCart(), false, nil
	}
	return m.snapshot(), true, nil
}

func newManager(api API) *Manager {
	return NewManager(api, store.NewMemoryStore(), nil)
}

func TestAddLine_QuantityMatchesServer(t *testing.T) {
	api := newMockAPI()
	mgr := newManager(api)
	ctx := context.Background()

	require.NoError(t, mgr.AddLine(ctx, 1, 1))
	require.NoError(t, mgr.AddLine(ctx, 1, 2))

	_, err := mgr.Load(ctx)
	require.NoError(t, err)

	// The displayed quantity is the server's, never a client-side counter.
	assert.Equal(t, api.quantities[1], mgr.QuantityOf(1))
	assert.Equal(t, 3, mgr.QuantityOf(1))
}

func TestRemoveLine_DecrementToZeroDropsLine(t *testing.T) {
	api := newMockAPI()
	mgr := newManager(api)
	ctx := context.Background()

	require.NoError(t, mgr.AddLine(ctx, 1, 1))
	require.NoError(t, mgr.RemoveLine(ctx, 1, 1))

	snapshot := mgr.Snapshot()
	assert.True(t, snapshot.IsEmpty(), "line must be absent, not present with quantity 0")
	assert.Equal(t, 0, mgr.QuantityOf(1))
	assert.True(t, snapshot.TotalPrice.IsZero())
}

func TestAddThenRemove_RestoresOriginalTotal(t *testing.T) {
	api := newMockAPI()
	mgr := newManager(api)
	ctx := context.Background()

	require.NoError(t, mgr.AddLine(ctx, 2, 1))
	before := mgr.Snapshot().TotalPrice

	require.NoError(t, mgr.AddLine(ctx, 1, 1))
	require.NoError(t, mgr.RemoveLine(ctx, 1, 1))

	after := mgr.Snapshot()
	assert.Equal(t, 0, after.QuantityOf(1))
	assert.True(t, after.TotalPrice.Equal(before),
		"total %s should return to %s", after.TotalPrice, before)
}

func TestLoad_Idempotent(t *testing.T) {
	api := newMockAPI()
	api.quantities[1] = 2
	mgr := newManager(api)
	ctx := context.Background()

	first, err := mgr.Load(ctx)
	require.NoError(t, err)
	second, err := mgr.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.Lines, second.Lines)
	assert.True(t, first.TotalPrice.Equal(second.TotalPrice))
	assert.Equal(t, first.TotalItems, second.TotalItems)
}

func TestSnapshot_TotalMatchesLines(t *testing.T) {
	api := newMockAPI()
	api.quantities[1] = 2
	api.quantities[2] = 3
	mgr := newManager(api)

	_, err := mgr.Load(context.Background())
	require.NoError(t, err)

	snapshot := mgr.Snapshot()
	assert.True(t, snapshot.TotalPrice.Equal(snapshot.ComputedTotal()))
	assert.Equal(t, snapshot.TotalItems, snapshot.ComputedItems())
}

func TestLoad_FailureFallsBackToEmptyCart(t *testing.T) {
	api := newMockAPI()
	api.quantities[1] = 5
	mgr := newManager(api)
	ctx := context.Background()

	_, err := mgr.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, mgr.QuantityOf(1))

	// Stale data must not stay on display after a failed refresh.
	api.mu.Lock()
	api.getErr = errors.New("backend down")
	api.mu.Unlock()

	cart, err := mgr.Load(ctx)
	assert.Error(t, err)
	assert.True(t, cart.IsEmpty())
	assert.True(t, mgr.Snapshot().IsEmpty())
}

func TestMutationFailure_KeepsLastConfirmedState(t *testing.T) {
	api := newMockAPI()
	mgr := newManager(api)
	ctx := context.Background()

	require.NoError(t, mgr.AddLine(ctx, 1, 2))
	require.Equal(t, 2, mgr.QuantityOf(1))

	api.mu.Lock()
	api.mutateErr = errors.New("backend down")
	api.mu.Unlock()

	assert.Error(t, mgr.AddLine(ctx, 1, 1))
	assert.Equal(t, 2, mgr.QuantityOf(1), "failed mutation must not change the snapshot")
}

func TestAddLine_RejectsNonPositiveDelta(t *testing.T) {
	mgr := newManager(newMockAPI())
	ctx := context.Background()

	assert.ErrorIs(t, mgr.AddLine(ctx, 1, 0), ErrInvalidDelta)
	assert.ErrorIs(t, mgr.AddLine(ctx, 1, -3), ErrInvalidDelta)
	assert.ErrorIs(t, mgr.RemoveLine(ctx, 1, 0), ErrInvalidDelta)
}

func TestAddLine_SecondMutationForSameProductIsBusy(t *testing.T) {
	api := newMockAPI()
	api.block = make(chan struct{})
	mgr := newManager(api)
	ctx := context.Background()

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- mgr.AddLine(ctx, 1, 1)
	}()
	<-started

	// Wait for the first mutation to take the line slot.
	for !mgr.InFlight(1) {
		time.Sleep(time.Millisecond)
	}

	assert.ErrorIs(t, mgr.AddLine(ctx, 1, 1), ErrLineBusy)

	close(api.block)
	require.NoError(t, <-done)
	assert.False(t, mgr.InFlight(1))
	assert.Equal(t, 1, mgr.QuantityOf(1), "only the first click may reach the server")
}

func TestLoad_SurvivesInitialCallerCancelling(t *testing.T) {
	api := newMockAPI()
	api.quantities[1] = 2
	api.getBlock = make(chan struct{})
	api.getStarted = make(chan struct{}, 1)
	mgr := newManager(api)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := mgr.Load(ctx)
		done <- err
	}()

	// The caller that started the shared fetch bails out mid-flight. The
	// fetch belongs to everyone who joined it and must still complete.
	<-api.getStarted
	cancel()
	close(api.getBlock)

	require.NoError(t, <-done)
	assert.Equal(t, 2, mgr.QuantityOf(1))
}

func TestMutation_RefetchesWhenResponseHasNoCart(t *testing.T) {
	api := newMockAPI()
	api.fullCartResponses = false
	mgr := newManager(api)
	ctx := context.Background()

	require.NoError(t, mgr.AddLine(ctx, 1, 1))

	api.mu.Lock()
	calls := api.getCalls
	api.mu.Unlock()
	assert.Equal(t, 1, calls, "mutation without a cart body must trigger a reload")
	assert.Equal(t, 1, mgr.QuantityOf(1))
}

func TestRestore_SeedsSnapshotFromCache(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	first := NewManager(newMockAPI(), st, nil)
	require.NoError(t, first.AddLine(ctx, 1, 2))

	// A new manager over the same store starts from the cached snapshot.
	second := NewManager(newMockAPI(), st, nil)
	second.Restore(ctx)
	assert.Equal(t, 2, second.QuantityOf(1))
}

func TestRemoveAll_DropsWholeLine(t *testing.T) {
	api := newMockAPI()
	mgr := newManager(api)
	ctx := context.Background()

	require.NoError(t, mgr.AddLine(ctx, 1, 5))
	require.NoError(t, mgr.RemoveAll(ctx, 1))

	assert.Equal(t, 0, mgr.QuantityOf(1))
	assert.True(t, mgr.Snapshot().IsEmpty())
}
