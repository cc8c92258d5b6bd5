package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/stubapi/models"
)

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Variant")
}

// GetCart returns gorm.ErrRecordNotFound when the user never had a cart.
func (r *GormRepo) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	var cart models.Cart
	if err := withItems(r.DB.WithContext(ctx)).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func ensureCart(tx *gorm.DB, userID int64) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func activeVariant(tx *gorm.DB, variantID int64) (*models.Variant, error) {
	var v models.Variant
	if err := tx.First(&v, variantID).Error; err != nil {
		return nil, err
	}
	if !v.Active {
		return nil, ErrInactiveVariant
	}
	return &v, nil
}

// AddToCart merges the quantity into an existing line for the variant or
// creates the line. The resulting quantity may not exceed the stock.
func (r *GormRepo) AddToCart(ctx context.Context, userID, variantID int64, quantity int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := activeVariant(tx, variantID)
		if err != nil {
			return err
		}
		cart, err := ensureCart(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND variant_id = ?", cart.ID, variantID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if quantity > v.Stock {
				return ErrOutOfStock
			}
			return tx.Create(&models.CartItem{CartID: cart.ID, VariantID: variantID, Quantity: quantity}).Error
		case err != nil:
			return err
		}

		if item.Quantity+quantity > v.Stock {
			return ErrOutOfStock
		}
		return tx.Model(&item).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
	})
}

func (r *GormRepo) UpdateCartItem(ctx context.Context, userID, itemID int64, quantity int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		err := tx.Joins("JOIN carts ON carts.id = cart_items.cart_id").
			Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
			First(&item).Error
		if err != nil {
			return err
		}

		v, err := activeVariant(tx, item.VariantID)
		if err != nil {
			return err
		}
		if quantity > v.Stock {
			return ErrOutOfStock
		}
		return tx.Model(&item).Update("quantity", quantity).Error
	})
}

// RemoveCartItem returns gorm.ErrRecordNotFound when the line is not in the
// user's cart, including when it was removed already.
func (r *GormRepo) RemoveCartItem(ctx context.Context, userID, itemID int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) ClearCart(ctx context.Context, userID int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
}
