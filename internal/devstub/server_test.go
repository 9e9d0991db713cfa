package devstub

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thamsanqa-bit/penden-storefront/internal/api"
	"github.com/Thamsanqa-bit/penden-storefront/internal/auth"
	"github.com/Thamsanqa-bit/penden-storefront/internal/cart"
	"github.com/Thamsanqa-bit/penden-storefront/internal/checkout"
	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
	"github.com/Thamsanqa-bit/penden-storefront/internal/session"
	"github.com/Thamsanqa-bit/penden-storefront/internal/store"
)

// harness wires the full client stack against an in-process stub backend,
// the same way cmd/storefront does against the real one.
type harness struct {
	client    *api.Client
	session   *session.Session
	gate      *auth.Gate
	cart      *cart.Manager
	store     store.Store
	serverURL string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := httptest.NewServer(NewServer(nil).Handler())
	t.Cleanup(srv.Close)

	st := store.NewMemoryStore()
	sess := session.New(st)

	client, err := api.New(srv.URL+"/api/",
		api.WithTokenSource(sess),
		api.WithUnauthorizedHook(func(ctx context.Context) { _ = sess.Clear(ctx) }),
	)
	require.NoError(t, err)

	return &harness{
		client:    client,
		session:   sess,
		gate:      auth.NewGate(client, sess, nil),
		cart:      cart.NewManager(client, st, nil),
		store:     st,
		serverURL: srv.URL + "/api/",
	}
}

func (h *harness) register(t *testing.T, username string) {
	t.Helper()
	err := h.gate.Register(context.Background(), api.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Phone:    "0825550199",
		Password: "hunter22",
	})
	require.NoError(t, err)
}

func shippingAddress() domain.Address {
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

func TestProducts_PaginationAndCategoryFilter(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	products, pagination, err := h.client.ListProducts(ctx, 1, 5, "")
	require.NoError(t, err)
	assert.Len(t, products, 5)
	assert.True(t, pagination.HasNext)
	assert.False(t, pagination.HasPrevious)

	last, lastPg, err := h.client.ListProducts(ctx, pagination.TotalPages, 5, "")
	require.NoError(t, err)
	assert.NotEmpty(t, last)
	assert.False(t, lastPg.HasNext)
	assert.True(t, lastPg.HasPrevious)

	frames, _, err := h.client.ListProducts(ctx, 1, 20, "Frames")
	require.NoError(t, err)
	require.NotEmpty(t, frames)
	for _, p := range frames {
		assert.Equal(t, "Frames", p.Category)
	}
}

func TestCart_RequiresAuth(t *testing.T) {
	h := newHarness(t)
	_, err := h.cart.Load(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestCart_AddRemoveRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "thandi")

	require.NoError(t, h.cart.AddLine(ctx, 1, 2))
	snapshot, err := h.cart.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.QuantityOf(1))
	assert.True(t, snapshot.TotalPrice.Equal(snapshot.ComputedTotal()))

	// Decrement below one removes the line entirely.
	require.NoError(t, h.cart.RemoveLine(ctx, 1, 2))
	snapshot = h.cart.Snapshot()
	assert.True(t, snapshot.IsEmpty())
	assert.True(t, snapshot.TotalPrice.IsZero())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	h := newHarness(t)
	h.register(t, "thandi")

	other := newSecondUser(t, h)
	err := other.gate.Register(context.Background(), api.RegisterRequest{
		Username: "thandi",
		Email:    "other@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)
	assert.EqualError(t, err, "A user with that username already exists")
}

// newSecondUser shares the backend but not the local store.
func newSecondUser(t *testing.T, h *harness) *harness {
	t.Helper()
	st := store.NewMemoryStore()
	sess := session.New(st)

	client, err := api.New(h.serverURL,
		api.WithTokenSource(sess),
		api.WithUnauthorizedHook(func(ctx context.Context) { _ = sess.Clear(ctx) }),
	)
	require.NoError(t, err)
	return &harness{
		client:  client,
		session: sess,
		gate:    auth.NewGate(client, sess, nil),
		cart:    cart.NewManager(client, st, nil),
		store:   st,
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	h.register(t, "thandi")
	require.NoError(t, h.gate.Logout(context.Background()))

	err := h.gate.Login(context.Background(), "thandi", "wrong")
	assert.Error(t, err)
	assert.False(t, h.session.IsLoggedIn(context.Background()))
}

func TestUnauthorized_ClearsStoredToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "thandi")
	require.True(t, h.session.IsLoggedIn(ctx))

	// Sabotage the stored token; the next authenticated call 401s and the
	// hook wipes the session.
	require.NoError(t, h.store.Set(ctx, store.KeyToken, "forged"))
	_, err := h.cart.Load(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, h.session.IsLoggedIn(ctx))
}

func TestCheckout_FullFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "thandi")

	require.NoError(t, h.cart.AddLine(ctx, 1, 2))
	require.NoError(t, h.cart.AddLine(ctx, 3, 1))
	total := h.cart.Snapshot().TotalPrice

	flow := checkout.NewFlow(h.client, h.cart, nil)
	require.Equal(t, domain.CheckoutStatusEditing, flow.Status())

	order, err := flow.Confirm(ctx, shippingAddress())
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.True(t, order.Total.Equal(total))
	assert.Equal(t, domain.CheckoutStatusConfirmed, flow.Status())

	url, err := flow.Pay(ctx)
	require.NoError(t, err)
	assert.Contains(t, url, "payfast")

	// The order superseded the cart server-side.
	snapshot, err := h.cart.Load(ctx)
	require.NoError(t, err)
	assert.True(t, snapshot.IsEmpty())
}

func TestImageUpload_AnonymousRoundTrip(t *testing.T) {
	h := newHarness(t)

	message, err := h.client.UploadImage(context.Background(), api.ImageUpload{
		Filename: "custom-frame.png",
		Data:     []byte("png-bytes"),
		Email:    "thandi@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Image uploaded successfully!", message)
}

func TestPDFUpload_RequiresAuth(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	err := h.client.UploadPDF(ctx, "Letterhead", "letterhead.pdf", []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	h.register(t, "thandi")
	require.NoError(t, h.client.UploadPDF(ctx, "Letterhead", "letterhead.pdf", []byte("%PDF-1.4")))
}

func TestCheckout_EmptyCartNeverReachesNetwork(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "thandi")

	_, err := h.cart.Load(ctx)
	require.NoError(t, err)

	flow := checkout.NewFlow(h.client, h.cart, nil)
	_, err = flow.Confirm(ctx, shippingAddress())
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Equal(t, domain.CheckoutStatusEditing, flow.Status())
}
