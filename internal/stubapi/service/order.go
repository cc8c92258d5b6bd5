package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/storefront/internal/stubapi/events"
	"github.com/Skotchmaster/storefront/internal/stubapi/models"
	"github.com/Skotchmaster/storefront/internal/stubapi/repo"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const maxNotesLen = 1000

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// CreateOrder builds the order from the user's server-side cart. There is no
// coupon engine, so any coupon code is rejected.
func (h *OrderService) CreateOrder(ctx context.Context, userID int64, req apiclient.CreateOrderRequest) (*apiclient.Order, error) {
	if req.ShippingAddressID <= 0 {
		return nil, fmt.Errorf("%w: shipping_address_id required", ErrValidation)
	}
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		return nil, fmt.Errorf("%w: unknown coupon %q", ErrUnprocessable, code)
	}
	if len(req.Notes) > maxNotesLen {
		return nil, fmt.Errorf("%w: notes too long", ErrValidation)
	}
	if _, err := h.Repo.GetAddress(ctx, userID, req.ShippingAddressID); err != nil {
		return nil, fmt.Errorf("shipping address: %w", classify(err))
	}

	order, err := h.Repo.CreateOrderFromCart(ctx, repo.NewOrder{
		UserID:            userID,
		ShippingAddressID: req.ShippingAddressID,
		Notes:             strings.TrimSpace(req.Notes),
	})
	if err != nil {
		return nil, classify(err)
	}

	events.Emit(ctx, h.Events, logging.FromContext(ctx), events.Event{
		Type:    "order.created",
		UserID:  userID,
		Payload: map[string]any{"order_number": order.Number, "total": order.Total},
	})
	return orderDTO(order), nil
}

func (h *OrderService) ListOrders(ctx context.Context, userID int64, offset, limit int) ([]apiclient.Order, error) {
	orders, err := h.Repo.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]apiclient.Order, 0, len(orders))
	for i := range orders {
		out = append(out, *orderDTO(&orders[i]))
	}
	return out, nil
}

func (h *OrderService) ListAddresses(ctx context.Context, userID int64) ([]apiclient.Address, error) {
	addresses, err := h.Repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]apiclient.Address, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, apiclient.Address{
			ID:         a.ID,
			Label:      a.Label,
			Line1:      a.Line1,
			Line2:      a.Line2,
			City:       a.City,
			PostalCode: a.PostalCode,
			Country:    a.Country,
			IsDefault:  a.IsDefault,
		})
	}
	return out, nil
}

func orderDTO(o *models.Order) *apiclient.Order {
	out := &apiclient.Order{
		ID:                o.ID,
		OrderNumber:       o.Number,
		Status:            o.Status,
		ShippingAddressID: o.ShippingAddressID,
		CouponCode:        o.CouponCode,
		Notes:             o.Notes,
		Subtotal:          o.Subtotal,
		Discount:          o.Discount,
		Total:             o.Total,
		CreatedAt:         o.CreatedAt,
		Items:             make([]apiclient.OrderItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, apiclient.OrderItem{
			VariantID:   it.VariantID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			TotalPrice:  it.TotalPrice,
		})
	}
	return out
}
