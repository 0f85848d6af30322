// Package memstore is an in-memory implementation of the storage
// contract with the same transactional semantics as postgres: InTx takes
// the store lock for the whole function and rolls every write back when
// the function errors. It backs the service tests.
package memstore

import (
	"context"
	"sync"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

type state struct {
	products      map[string]domain.Product
	variants      map[string]domain.Variant
	carts         map[string]domain.Cart
	cartItems     map[string]domain.CartItem
	coupons       map[string]domain.Coupon
	addresses     map[string]domain.Address
	orders        map[string]domain.Order
	orderItems    map[string]domain.OrderItem
	payments      map[string]domain.Payment
	wishlists     map[string]domain.Wishlist
	wishlistItems map[string]domain.WishlistItem
}

func newState() state {
	return state{
		products:      map[string]domain.Product{},
		variants:      map[string]domain.Variant{},
		carts:         map[string]domain.Cart{},
		cartItems:     map[string]domain.CartItem{},
		coupons:       map[string]domain.Coupon{},
		addresses:     map[string]domain.Address{},
		orders:        map[string]domain.Order{},
		orderItems:    map[string]domain.OrderItem{},
		payments:      map[string]domain.Payment{},
		wishlists:     map[string]domain.Wishlist{},
		wishlistItems: map[string]domain.WishlistItem{},
	}
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s state) clone() state {
	return state{
		products:      copyMap(s.products),
		variants:      copyMap(s.variants),
		carts:         copyMap(s.carts),
		cartItems:     copyMap(s.cartItems),
		coupons:       copyMap(s.coupons),
		addresses:     copyMap(s.addresses),
		orders:        copyMap(s.orders),
		orderItems:    copyMap(s.orderItems),
		payments:      copyMap(s.payments),
		wishlists:     copyMap(s.wishlists),
		wishlistItems: copyMap(s.wishlistItems),
	}
}

type Store struct {
	mu sync.Mutex
	st state
}

var _ storage.DB = (*Store)(nil)

func New() *Store {
	return &Store{st: newState()}
}

// InTx serializes all transactions behind one lock, which also makes the
// ForUpdate reads trivially correct.
func (s *Store) InTx(_ context.Context, fn func(tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&Tx{st: &s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Seed helpers used by tests.

func (s *Store) SeedProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

func (s *Store) SeedVariant(v domain.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.variants[v.ID] = v
}

func (s *Store) SeedCoupon(c domain.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.coupons[c.ID] = c
}

func (s *Store) SeedAddress(a domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.addresses[a.ID] = a
}

// ProductStock reports the current stock of a product, for assertions.
func (s *Store) ProductStock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.products[id].Stock
}

func (s *Store) VariantStock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.variants[id].Stock
}

// CartCount reports how many cart rows exist, for merge assertions.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.carts)
}

// Tx implements storage.Tx directly over the store state; the store lock
// is already held while it is in use.
type Tx struct {
	st *state
}

var _ storage.Tx = (*Tx)(nil)
