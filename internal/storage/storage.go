// Package storage defines the persistence contract the services run
// against. Postgres implements it for production (internal/postgres);
// the in-memory implementation (internal/memstore) backs the tests.
package storage

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

// DB runs functions inside a transaction. The function receives a Tx
// scoped to that transaction; an error return rolls everything back.
// Services compose all their reads, stock checks and writes for one
// operation into a single InTx call, which is what keeps cart state and
// stock state from diverging under concurrent requests.
type DB interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of operations available inside one transaction.
// "ForUpdate" variants take a row lock so check-then-write sequences are
// serialized against concurrent transactions touching the same row.
type Tx interface {
	CatalogTx
	CartTx
	CouponTx
	AddressTx
	OrderTx
	WishlistTx
}

type CatalogTx interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
	Variant(ctx context.Context, id string) (*domain.Variant, error)
	ProductForUpdate(ctx context.Context, id string) (*domain.Product, error)
	VariantForUpdate(ctx context.Context, id string) (*domain.Variant, error)
	// AdjustProductStock / AdjustVariantStock add delta (may be negative)
	// to the stock column. Callers check availability first under a row
	// lock; the storage layer additionally refuses to store a negative
	// stock value.
	AdjustProductStock(ctx context.Context, id string, delta int) error
	AdjustVariantStock(ctx context.Context, id string, delta int) error
}

type CartTx interface {
	CartByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error)
	CartForUpdate(ctx context.Context, id string) (*domain.Cart, error)
	CreateCart(ctx context.Context, cart *domain.Cart) error
	UpdateCartIdentity(ctx context.Context, id string, userID, sessionID *string) error
	DeleteCart(ctx context.Context, id string) error

	CartItems(ctx context.Context, cartID string) ([]domain.CartItem, error)
	InsertCartItem(ctx context.Context, item *domain.CartItem) error
	UpdateCartItemQuantity(ctx context.Context, itemID string, quantity int) error
	ReassignCartItem(ctx context.Context, itemID, newCartID string) error
	DeleteCartItem(ctx context.Context, itemID string) error
	DeleteCartItems(ctx context.Context, cartID string) error
}

type CouponTx interface {
	CouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	// CouponUsage counts orders referencing the coupon. Called inside the
	// checkout transaction so the usage-limit check is atomic with order
	// creation.
	CouponUsage(ctx context.Context, couponID string) (int, error)
	ActiveCoupons(ctx context.Context) ([]domain.Coupon, error)
}

type AddressTx interface {
	Address(ctx context.Context, id string) (*domain.Address, error)
	Addresses(ctx context.Context, userID string) ([]domain.Address, error)
	CountAddresses(ctx context.Context, userID string) (int, error)
	InsertAddress(ctx context.Context, addr *domain.Address) error
	UpdateAddress(ctx context.Context, addr *domain.Address) error
	DeleteAddress(ctx context.Context, id string) error
	ClearDefaultAddress(ctx context.Context, userID string) error
	// AddressOrderCount reports how many orders reference the address;
	// a referenced address cannot be deleted.
	AddressOrderCount(ctx context.Context, addressID string) (int, error)
}

type OrderTx interface {
	InsertOrder(ctx context.Context, order *domain.Order) error
	InsertOrderItem(ctx context.Context, item *domain.OrderItem) error
	InsertPayment(ctx context.Context, payment *domain.Payment) error

	Order(ctx context.Context, id string) (*domain.Order, error)
	OrderForUpdate(ctx context.Context, id string) (*domain.Order, error)
	OrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	OrderByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	OrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	UserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error

	Payments(ctx context.Context, orderID string) ([]domain.Payment, error)
	UpdatePayment(ctx context.Context, payment *domain.Payment) error
	PaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
}

type WishlistTx interface {
	WishlistByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Wishlist, error)
	CreateWishlist(ctx context.Context, w *domain.Wishlist) error
	UpdateWishlistIdentity(ctx context.Context, id string, userID, sessionID *string) error
	DeleteWishlist(ctx context.Context, id string) error
	WishlistItems(ctx context.Context, wishlistID string) ([]domain.WishlistItem, error)
	InsertWishlistItem(ctx context.Context, item *domain.WishlistItem) error
	DeleteWishlistItem(ctx context.Context, itemID string) error
	DeleteWishlistItems(ctx context.Context, wishlistID string) error
}
