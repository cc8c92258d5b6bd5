package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/stubapi/models"
)

type NewOrder struct {
	UserID            int64
	ShippingAddressID int64
	CouponCode        string
	Notes             string
}

// CreateOrderFromCart prices the user's server-side cart, reserves stock and
// stores the order. The cart itself is left as it is; emptying it is a
// separate call.
func (r *GormRepo) CreateOrderFromCart(ctx context.Context, in NewOrder) (*models.Order, error) {
	var order models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := withItems(tx).Where("user_id = ?", in.UserID).First(&cart).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		var subtotal int64
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			v := it.Variant
			if v == nil || !v.Active {
				return fmt.Errorf("variant %d: %w", it.VariantID, ErrInactiveVariant)
			}
			res := tx.Model(&models.Variant{}).
				Where("id = ? AND stock >= ?", v.ID, it.Quantity).
				Update("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("variant %d: %w", v.ID, ErrOutOfStock)
			}

			line := v.Price * int64(it.Quantity)
			subtotal += line
			items = append(items, models.OrderItem{
				VariantID:   v.ID,
				ProductName: v.ProductName,
				SKU:         v.SKU,
				UnitPrice:   v.Price,
				Quantity:    it.Quantity,
				TotalPrice:  line,
			})
		}

		order = models.Order{
			Number:            "pending-" + uuid.NewString(),
			UserID:            in.UserID,
			ShippingAddressID: in.ShippingAddressID,
			CouponCode:        in.CouponCode,
			Notes:             in.Notes,
			Status:            models.OrderStatusNew,
			Subtotal:          subtotal,
			Total:             subtotal,
			Items:             items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		order.Number = fmt.Sprintf("ORD-%d", order.ID+1000)
		return tx.Model(&order).Update("number", order.Number).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the user's orders, newest first.
func (r *GormRepo) ListOrders(ctx context.Context, userID int64, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
