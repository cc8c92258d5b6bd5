package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// CreateOrder places an order from the server-side cart. No idempotency key
// is sent: retrying after a lost response can create a second order.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) ListAddresses(ctx context.Context) ([]Address, error) {
	var addresses []Address
	if err := c.do(ctx, http.MethodGet, "addresses", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) GetVariant(ctx context.Context, id int64) (*Variant, error) {
	var v Variant
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("variants/%d", id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetVariantStock is admin-only on the server side.
func (c *Client) SetVariantStock(ctx context.Context, id int64, stock int, active bool) (*Variant, error) {
	body := struct {
		Stock  int  `json:"stock"`
		Active bool `json:"active"`
	}{stock, active}
	var v Variant
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("variants/%d/stock", id), body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
