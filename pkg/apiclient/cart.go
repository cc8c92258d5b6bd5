package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// GetCart returns ErrNotFound (via *StatusError) when the user has no cart yet.
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, variantID int64, quantity int) (*Cart, error) {
	body := struct {
		VariantID int64 `json:"variant_id"`
		Quantity  int   `json:"quantity"`
	}{variantID, quantity}

	var cart Cart
	if err := c.do(ctx, http.MethodPost, "cart/items", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*Cart, error) {
	body := struct {
		Quantity int `json:"quantity"`
	}{quantity}

	var cart Cart
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("cart/items/%d", itemID), body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("cart/items/%d", itemID), nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "cart", nil, nil)
}
