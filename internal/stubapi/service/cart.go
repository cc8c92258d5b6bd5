package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/stubapi/events"
	"github.com/Skotchmaster/storefront/internal/stubapi/models"
	"github.com/Skotchmaster/storefront/internal/stubapi/repo"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (h *CartService) GetCart(ctx context.Context, userID int64) (*apiclient.Cart, error) {
	cart, err := h.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}
	return cartDTO(cart), nil
}

func (h *CartService) AddToCart(ctx context.Context, userID, variantID int64, quantity int) (*apiclient.Cart, error) {
	if variantID <= 0 {
		return nil, fmt.Errorf("variant_id must be positive: %w", ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}
	if err := h.Repo.AddToCart(ctx, userID, variantID, quantity); err != nil {
		return nil, classify(err)
	}
	h.emit(ctx, "cart.item_added", userID, map[string]any{"variant_id": variantID, "quantity": quantity})
	return h.GetCart(ctx, userID)
}

func (h *CartService) UpdateCartItem(ctx context.Context, userID, itemID int64, quantity int) (*apiclient.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}
	if err := h.Repo.UpdateCartItem(ctx, userID, itemID, quantity); err != nil {
		return nil, classify(err)
	}
	h.emit(ctx, "cart.item_updated", userID, map[string]any{"item_id": itemID, "quantity": quantity})
	return h.GetCart(ctx, userID)
}

func (h *CartService) RemoveCartItem(ctx context.Context, userID, itemID int64) error {
	if err := h.Repo.RemoveCartItem(ctx, userID, itemID); err != nil {
		return classify(err)
	}
	h.emit(ctx, "cart.item_removed", userID, map[string]any{"item_id": itemID})
	return nil
}

func (h *CartService) ClearCart(ctx context.Context, userID int64) error {
	if err := h.Repo.ClearCart(ctx, userID); err != nil {
		return classify(err)
	}
	h.emit(ctx, "cart.cleared", userID, nil)
	return nil
}

func (h *CartService) emit(ctx context.Context, typ string, userID int64, payload any) {
	events.Emit(ctx, h.Events, logging.FromContext(ctx), events.Event{Type: typ, UserID: userID, Payload: payload})
}

// cartDTO prices the cart. Line totals and the subtotal are only ever
// computed here, on the server.
func cartDTO(c *models.Cart) *apiclient.Cart {
	out := &apiclient.Cart{ID: c.ID, Items: make([]apiclient.CartItem, 0, len(c.Items))}
	for _, it := range c.Items {
		item := apiclient.CartItem{ID: it.ID, VariantID: it.VariantID, Quantity: it.Quantity}
		if v := it.Variant; v != nil {
			item.ProductName = v.ProductName
			item.SKU = v.SKU
			item.Size = v.Size
			item.Color = v.Color
			item.ImageURL = v.ImageURL
			item.UnitPrice = v.Price
			item.AvailableStock = v.Stock
		}
		item.TotalPrice = item.UnitPrice * int64(item.Quantity)
		out.Subtotal += item.TotalPrice
		out.TotalItems += item.Quantity
		out.Items = append(out.Items, item)
	}
	return out
}
