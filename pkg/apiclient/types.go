package apiclient

import "time"

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
	IsAdmin      bool   `json:"is_admin"`
}

type CartItem struct {
	ID             int64  `json:"id"`
	VariantID      int64  `json:"variant_id"`
	ProductName    string `json:"product_name"`
	SKU            string `json:"sku"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	ImageURL       string `json:"image_url"`
	UnitPrice      int64  `json:"unit_price"`
	Quantity       int    `json:"quantity"`
	TotalPrice     int64  `json:"total_price"`
	AvailableStock int    `json:"available_stock"`
}

// Cart is the wire form of the server-side cart. Amounts are minor units.
type Cart struct {
	ID         string     `json:"id"`
	Items      []CartItem `json:"items"`
	Subtotal   int64      `json:"subtotal"`
	TotalItems int        `json:"total_items"`
}

type CreateOrderRequest struct {
	ShippingAddressID int64  `json:"shipping_address_id"`
	CouponCode        string `json:"coupon_code,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

type OrderItem struct {
	VariantID   int64  `json:"variant_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	TotalPrice  int64  `json:"total_price"`
}

type Order struct {
	ID                int64       `json:"id"`
	OrderNumber       string      `json:"order_number"`
	Status            string      `json:"status"`
	ShippingAddressID int64       `json:"shipping_address_id"`
	CouponCode        string      `json:"coupon_code,omitempty"`
	Notes             string      `json:"notes,omitempty"`
	Subtotal          int64       `json:"subtotal"`
	Discount          int64       `json:"discount"`
	Total             int64       `json:"total"`
	Items             []OrderItem `json:"items"`
	CreatedAt         time.Time   `json:"created_at"`
}

type Address struct {
	ID         int64  `json:"id"`
	Label      string `json:"label"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type Variant struct {
	ID          int64  `json:"id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Active      bool   `json:"active"`
}
