package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

type orderRequest struct {
	FullName   string             `json:"full_name"`
	Phone      string             `json:"phone"`
	Street     string             `json:"street"`
	City       string             `json:"city"`
	Province   string             `json:"province"`
	PostalCode string             `json:"postal_code"`
	Country    string             `json:"country"`
	Email      string             `json:"email,omitempty"`
	Items      []domain.OrderItem `json:"items"`
}

type orderResponse struct {
	ID    json.Number      `json:"id"`
	Total *decimal.Decimal `json:"total"`
}

// SubmitOrder posts the address and line items to the checkout endpoint.
// idempotencyKey dedupes retries of the same confirmation server-side.
func (c *Client) SubmitOrder(ctx context.Context, addr domain.Address, items []domain.OrderItem, idempotencyKey string) (domain.Order, error) {
	req := orderRequest{
		FullName:   addr.FullName,
		Phone:      addr.Phone,
		Street:     addr.Street,
		City:       addr.City,
		Province:   addr.Province,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
		Email:      addr.Email,
		Items:      items,
	}

	headers := http.Header{}
	if idempotencyKey != "" {
		headers.Set("X-Idempotency-Key", idempotencyKey)
	}

	var resp orderResponse
	if err := c.doHeaders(ctx, http.MethodPost, "checkout/", nil, headers, req, &resp); err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{ID: resp.ID.String(), Total: decimal.Zero}
	if resp.Total != nil {
		order.Total = *resp.Total
	}
	return order, nil
}

type paymentRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	OrderID string          `json:"order_id"`
}

type paymentResponse struct {
	PaymentURL string `json:"payment_url"`
}

// CreatePayment requests a payment intent for an order and returns the
// hosted gateway URL the user must be sent to.
func (c *Client) CreatePayment(ctx context.Context, amount decimal.Decimal, orderID string) (string, error) {
	var resp paymentResponse
	err := c.do(ctx, http.MethodPost, "create-payment/", nil, paymentRequest{Amount: amount, OrderID: orderID}, &resp)
	if err != nil {
		return "", err
	}
	if resp.PaymentURL == "" {
		return "", &Error{Status: http.StatusBadGateway, Message: "payment gateway returned no payment_url"}
	}
	return resp.PaymentURL, nil
}
