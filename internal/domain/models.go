package domain

import "time"

// Product is a catalog entry. Stock on a product with variants is the
// roll-up of its variants' stock; both granularities are decremented on
// every reservation.
type Product struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	SKU       string     `json:"sku"`
	Images    []string   `json:"images"`
	BasePrice *float64   `json:"base_price,omitempty"`
	Price     *float64   `json:"price,omitempty"` // discounted price, valid until ExpiresAt
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Stock     int        `json:"stock"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Variant is a purchasable configuration of a product with its own stock
// and price.
type Variant struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	BasePrice *float64        `json:"base_price,omitempty"`
	Price     *float64        `json:"price,omitempty"` // discounted price, valid until ExpiresAt
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Stock     int             `json:"stock"`
	Options   []VariantOption `json:"options"`
}

// VariantOption is one attribute/value pair of a variant (e.g. Size=M).
type VariantOption struct {
	Attribute string `json:"attribute"`
	Option    string `json:"option"`
}

type Cart struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	SessionID *string   `json:"session_id,omitempty"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is one (product, variant) line of a cart. The unit price is
// never stored here; it is resolved at read time.
type CartItem struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	VariantID *string   `json:"variant_id,omitempty"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// SameLine reports whether the item refers to the given (product, variant)
// pair. A cart holds at most one item per pair.
func (i CartItem) SameLine(productID string, variantID *string) bool {
	if i.ProductID != productID {
		return false
	}
	if (i.VariantID == nil) != (variantID == nil) {
		return false
	}
	return i.VariantID == nil || *i.VariantID == *variantID
}

type CouponType string

const (
	CouponPercentage CouponType = "PERCENTAGE"
	CouponFixed      CouponType = "FIXED"
)

type Coupon struct {
	ID         string     `json:"id"`
	Code       string     `json:"code"`
	Type       CouponType `json:"type"`
	Value      float64    `json:"value"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	UsageLimit *int       `json:"usage_limit,omitempty"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// Fields returns the mutable address fields, used to detect whether an
// incoming address differs from the stored one.
func (a Address) Fields() AddressFields {
	return AddressFields{
		Name:    a.Name,
		Email:   a.Email,
		Phone:   a.Phone,
		Street:  a.Street,
		City:    a.City,
		Country: a.Country,
	}
}

type AddressFields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"order_id"`
	Provider      string        `json:"provider"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// VariantSnapshot is the variant part of an order-item snapshot.
type VariantSnapshot struct {
	SKU     string          `json:"sku"`
	Options []VariantOption `json:"options"`
}

// ItemSnapshot is the denormalized copy of product display data embedded
// in an order item at checkout time. Historical orders stay stable even if
// the product later changes or is deleted.
type ItemSnapshot struct {
	Name    string           `json:"name"`
	SKU     string           `json:"sku"`
	Price   float64          `json:"price"`
	Image   string           `json:"image,omitempty"`
	Variant *VariantSnapshot `json:"variant,omitempty"`
}

type OrderItem struct {
	ID        string       `json:"id"`
	OrderID   string       `json:"order_id"`
	ProductID string       `json:"product_id"`
	VariantID *string      `json:"variant_id,omitempty"`
	Quantity  int          `json:"quantity"`
	Price     float64      `json:"price"`
	Snapshot  ItemSnapshot `json:"data"`
}

// Order is immutable once created except for its status.
type Order struct {
	ID             string      `json:"id"`
	OrderNumber    string      `json:"order_number"`
	UserID         string      `json:"user_id"`
	AddressID      string      `json:"address_id"`
	CouponID       *string     `json:"coupon_id,omitempty"`
	IdempotencyKey *string     `json:"-"`
	Status         OrderStatus `json:"status"`
	Subtotal       float64     `json:"subtotal"`
	ShippingCost   float64     `json:"shipping_cost"`
	DiscountAmount float64     `json:"discount_amount"`
	TotalAmount    float64     `json:"total_amount"`
	Items          []OrderItem `json:"items"`
	Payments       []Payment   `json:"payments"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type Wishlist struct {
	ID        string         `json:"id"`
	UserID    *string        `json:"user_id,omitempty"`
	SessionID *string        `json:"session_id,omitempty"`
	Items     []WishlistItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
}

type WishlistItem struct {
	ID         string    `json:"id"`
	WishlistID string    `json:"wishlist_id"`
	ProductID  string    `json:"product_id"`
	CreatedAt  time.Time `json:"created_at"`
}
