package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        int64  `gorm:"primaryKey"           json:"id"`
	UserID    int64  `gorm:"index;not null"       json:"user_id"`
	TokenHash string `gorm:"uniqueIndex;not null" json:"-"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"not null"             json:"revoked"`
}

type Variant struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductName string `gorm:"not null"                 json:"product_name"`
	SKU         string `gorm:"uniqueIndex;not null"     json:"sku"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	ImageURL    string `json:"image_url"`
	Price       int64  `gorm:"not null;check:price>=0"  json:"price"`
	Stock       int    `gorm:"not null;check:stock>=0"  json:"stock"`
	Active      bool   `gorm:"not null"                 json:"active"`
}

type Cart struct {
	ID        string     `gorm:"primaryKey"            json:"id"`
	UserID    int64      `gorm:"uniqueIndex;not null"  json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID"     json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CartItem struct {
	ID        int64    `gorm:"primaryKey;autoIncrement"                json:"id"`
	CartID    string   `gorm:"uniqueIndex:idx_cart_variant;not null"   json:"cart_id"`
	VariantID int64    `gorm:"uniqueIndex:idx_cart_variant;not null"   json:"variant_id"`
	Quantity  int      `gorm:"not null;check:quantity>0"               json:"quantity"`
	Variant   *Variant `gorm:"foreignKey:VariantID"                    json:"variant,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Address struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64  `gorm:"index;not null"           json:"user_id"`
	Label      string `json:"label"`
	Line1      string `gorm:"not null"                 json:"line1"`
	Line2      string `json:"line2"`
	City       string `gorm:"not null"                 json:"city"`
	PostalCode string `gorm:"not null"                 json:"postal_code"`
	Country    string `gorm:"not null"                 json:"country"`
	IsDefault  bool   `gorm:"not null"                 json:"is_default"`
}

const (
	OrderStatusNew = "new"
)

type Order struct {
	ID                int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Number            string      `gorm:"uniqueIndex;not null"     json:"number"`
	UserID            int64       `gorm:"index;not null"           json:"user_id"`
	ShippingAddressID int64       `gorm:"not null"                 json:"shipping_address_id"`
	CouponCode        string      `json:"coupon_code"`
	Notes             string      `json:"notes"`
	Status            string      `gorm:"not null"                 json:"status"`
	Subtotal          int64       `gorm:"not null"                 json:"subtotal"`
	Discount          int64       `gorm:"not null"                 json:"discount"`
	Total             int64       `gorm:"not null"                 json:"total"`
	Items             []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
	CreatedAt         time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64  `gorm:"index;not null"           json:"order_id"`
	VariantID   int64  `gorm:"not null"                 json:"variant_id"`
	ProductName string `gorm:"not null"                 json:"product_name"`
	SKU         string `gorm:"not null"                 json:"sku"`
	UnitPrice   int64  `gorm:"not null"                 json:"unit_price"`
	Quantity    int    `gorm:"not null;check:quantity>0" json:"quantity"`
	TotalPrice  int64  `gorm:"not null"                 json:"total_price"`
}

// All lists the tables for AutoMigrate.
func All() []any {
	return []any{&User{}, &RefreshToken{}, &Variant{}, &Cart{}, &CartItem{}, &Address{}, &Order{}, &OrderItem{}}
}
