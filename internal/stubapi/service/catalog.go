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

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (h *CatalogService) GetVariant(ctx context.Context, id int64) (*apiclient.Variant, error) {
	v, err := h.Repo.GetVariant(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return variantDTO(v), nil
}

// SetStock is the admin hook used to provoke out-of-stock and inactive
// variants against a running stub.
func (h *CatalogService) SetStock(ctx context.Context, id int64, stock int, active bool) (*apiclient.Variant, error) {
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	v, err := h.Repo.UpdateVariantStock(ctx, id, stock, active)
	if err != nil {
		return nil, classify(err)
	}
	events.Emit(ctx, h.Events, logging.FromContext(ctx), events.Event{
		Type:    "variant.stock_changed",
		Payload: map[string]any{"variant_id": id, "stock": stock, "active": active},
	})
	return variantDTO(v), nil
}

func variantDTO(v *models.Variant) *apiclient.Variant {
	return &apiclient.Variant{
		ID:          v.ID,
		ProductName: v.ProductName,
		SKU:         v.SKU,
		Size:        v.Size,
		Color:       v.Color,
		ImageURL:    v.ImageURL,
		Price:       v.Price,
		Stock:       v.Stock,
		Active:      v.Active,
	}
}
