package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/stubapi/models"
)

var (
	ErrOutOfStock      = errors.New("not enough stock")
	ErrInactiveVariant = errors.New("variant is not available")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrTokenRevoked    = errors.New("token expired or revoked")
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) CreateVariant(ctx context.Context, v *models.Variant) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *GormRepo) GetVariant(ctx context.Context, id int64) (*models.Variant, error) {
	var v models.Variant
	if err := r.DB.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) CreateAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) ListAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	var out []models.Address
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetAddress(ctx context.Context, userID, id int64) (*models.Address, error) {
	var a models.Address
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateVariantStock sets stock and availability. Existing cart lines are
// not touched; they fail at checkout if they no longer fit.
func (r *GormRepo) UpdateVariantStock(ctx context.Context, id int64, stock int, active bool) (*models.Variant, error) {
	res := r.DB.WithContext(ctx).Model(&models.Variant{}).
		Where("id = ?", id).
		Updates(map[string]any{"stock": stock, "active": active})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetVariant(ctx, id)
}
