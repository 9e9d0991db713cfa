// Package catalog fetches product pages. Pagination is entirely
// server-driven: the browser only ever requests the indices the server
// reported, it computes nothing itself.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
	"github.com/Thamsanqa-bit/penden-storefront/internal/store"
)

// API is the slice of the backend client the browser needs.
type API interface {
	ListProducts(ctx context.Context, page, pageSize int, category string) ([]domain.Product, domain.Pagination, error)
}

// Page is one fetched catalog page.
type Page struct {
	Products   []domain.Product  `json:"products"`
	Pagination domain.Pagination `json:"pagination"`
	Category   string            `json:"category,omitempty"`
}

type Browser struct {
	api      API
	store    store.Store
	pageSize int
	log      *zap.Logger
}

func NewBrowser(api API, st store.Store, pageSize int, log *zap.Logger) *Browser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Browser{api: api, store: st, pageSize: pageSize, log: log}
}

// LoadPage fetches a page of products, optionally filtered by category.
// On failure it degrades to an empty list plus the error; there is no retry
// beyond the user asking again.
func (b *Browser) LoadPage(ctx context.Context, page int, category string) (Page, error) {
	products, pagination, err := b.api.ListProducts(ctx, page, b.pageSize, category)
	if err != nil {
		return Page{}, fmt.Errorf("load products: %w", err)
	}

	p := Page{Products: products, Pagination: pagination, Category: category}
	b.cache(p)
	return p, nil
}

// CachedPage returns the last successfully fetched page from the local
// store, for instant display before the first network round trip.
func (b *Browser) CachedPage(ctx context.Context) (Page, bool) {
	raw, err := b.store.Get(ctx, store.KeyProducts)
	if err != nil {
		return Page{}, false
	}
	var p Page
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		b.log.Debug("discarding unreadable cached page", zap.Error(err))
		return Page{}, false
	}
	return p, true
}

func (b *Browser) cache(p Page) {
	data, err := json.Marshal(p)
	if err != nil {
		b.log.Debug("marshal page for cache", zap.Error(err))
		return
	}
	if err := b.store.Set(context.Background(), store.KeyProducts, string(data)); err != nil {
		b.log.Debug("cache product page", zap.Error(err))
	}
}
