package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

// ListProducts fetches one catalog page. Older backend deployments return a
// bare product array with no pagination envelope; those come back as a single
// page.
func (c *Client) ListProducts(ctx context.Context, page, pageSize int, category string) ([]domain.Product, domain.Pagination, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	if category != "" {
		query.Set("category", category)
	}

	var body json.RawMessage
	if err := c.do(ctx, http.MethodGet, "products/", query, nil, &body); err != nil {
		return nil, domain.Pagination{}, err
	}

	// Bare array shape.
	var bare []domain.Product
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, singlePage(len(bare)), nil
	}

	var envelope struct {
		Products   []domain.Product  `json:"products"`
		Pagination domain.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, domain.Pagination{}, &Error{Status: http.StatusOK, Message: "unexpected product list shape"}
	}
	if envelope.Pagination.Page == 0 {
		envelope.Pagination = singlePage(len(envelope.Products))
	}
	return envelope.Products, envelope.Pagination, nil
}

func singlePage(n int) domain.Pagination {
	return domain.Pagination{
		Page:       1,
		PageSize:   n,
		TotalPages: 1,
		TotalItems: n,
	}
}
