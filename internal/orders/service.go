// Package orders tracks order status after checkout. Orders are immutable
// except for status, and status only moves along
// PENDING -> PROCESSING -> SHIPPED -> DELIVERED, with CANCELLED reachable
// only from PENDING and REFUNDED as the terminal admin state.
package orders

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/inventory"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

type Service struct {
	db        storage.DB
	publisher Publisher
	producer  string
}

// NewService builds the lifecycle service. publisher may be nil.
func NewService(db storage.DB, publisher Publisher, producer string) *Service {
	return &Service{db: db, publisher: publisher, producer: producer}
}

// Get returns an order. When requesterID is non-empty the order must
// belong to that user.
func (s *Service) Get(ctx context.Context, id, requesterID string) (*domain.Order, error) {
	var order *domain.Order
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		order, err = tx.Order(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if requesterID != "" && order.UserID != requesterID {
		return nil, domain.Unauthorizedf("not authorized to view this order")
	}
	return order, nil
}

func (s *Service) GetByNumber(ctx context.Context, orderNumber, requesterID string) (*domain.Order, error) {
	var order *domain.Order
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		order, err = tx.OrderByNumber(ctx, orderNumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	if requesterID != "" && order.UserID != requesterID {
		return nil, domain.Unauthorizedf("not authorized to view this order")
	}
	return order, nil
}

func (s *Service) ListUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.UserOrders(ctx, userID)
		return err
	})
	return out, err
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.AllOrders(ctx)
		return err
	})
	return out, err
}

// UpdateStatus moves an order to newStatus. Admin-only at the API layer,
// but the lifecycle is enforced here regardless: arbitrary jumps and
// transitions out of terminal states are errors.
func (s *Service) UpdateStatus(ctx context.Context, id string, newStatus domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, domain.Invalidf("unknown order status %q", newStatus)
	}
	var order *domain.Order
	var from domain.OrderStatus
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		o, err := tx.OrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = o.Status
		if !domain.CanTransition(o.Status, newStatus) {
			return domain.Invalidf("cannot transition order from %s to %s", o.Status, newStatus)
		}
		// an admin cancellation restores stock the same way an owner
		// cancellation does
		if newStatus == domain.OrderCancelled {
			if err := releaseItems(ctx, tx, id); err != nil {
				return err
			}
		}
		if err := tx.UpdateOrderStatus(ctx, id, newStatus); err != nil {
			return err
		}
		order, err = tx.Order(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	PublishOrderStatusUpdated(s.publisher, s.producer, order, from)
	return order, nil
}

// Cancel cancels a PENDING order on behalf of its owner and returns every
// reserved item quantity to stock, in the same transaction as the status
// change.
func (s *Service) Cancel(ctx context.Context, id, userID string) (*domain.Order, error) {
	var order *domain.Order
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		o, err := tx.OrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return domain.Unauthorizedf("not authorized to cancel this order")
		}
		if o.Status != domain.OrderPending {
			return domain.Invalidf("cannot cancel order that is not pending")
		}

		if err := releaseItems(ctx, tx, id); err != nil {
			return err
		}

		if err := tx.UpdateOrderStatus(ctx, id, domain.OrderCancelled); err != nil {
			return err
		}
		order, err = tx.Order(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	PublishOrderCancelled(s.publisher, s.producer, order)
	return order, nil
}

// releaseItems returns every item quantity of an order to stock.
func releaseItems(ctx context.Context, tx storage.Tx, orderID string) error {
	items, err := tx.OrderItems(ctx, orderID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := inventory.ReleaseTx(ctx, tx, item.ProductID, item.VariantID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}
