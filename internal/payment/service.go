// Package payment tracks payments on orders and talks to the payment
// provider for intents. One order may carry several payment attempts but
// at most one COMPLETED payment.
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

type Service struct {
	db       storage.DB
	provider Provider
	currency string
	now      func() time.Time
}

func NewService(db storage.DB, provider Provider, currency string) *Service {
	if currency == "" {
		currency = "usd"
	}
	return &Service{db: db, provider: provider, currency: currency, now: time.Now}
}

// IntentResponse is returned to the client so it can confirm the payment
// with the provider directly.
type IntentResponse struct {
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// CreateIntent opens a payment attempt for the order. The order must
// belong to the user, must not be cancelled or refunded and must not
// already be paid. An existing PENDING payment row (created at checkout)
// is reused rather than duplicated.
func (s *Service) CreateIntent(ctx context.Context, userID, orderID string) (*IntentResponse, error) {
	var order *domain.Order
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		order, err = tx.Order(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.Unauthorizedf("not authorized to pay for this order")
	}
	if order.Status == domain.OrderCancelled || order.Status == domain.OrderRefunded {
		return nil, domain.Invalidf("cannot pay for cancelled or refunded order")
	}
	for _, p := range order.Payments {
		if p.Status == domain.PaymentCompleted {
			return nil, domain.Invalidf("order is already paid")
		}
	}

	intent, err := s.provider.CreateIntent(ctx, order.TotalAmount, s.currency)
	if err != nil {
		return nil, err
	}

	err = s.db.InTx(ctx, func(tx storage.Tx) error {
		for _, p := range order.Payments {
			if p.Status == domain.PaymentPending {
				p.TransactionID = intent.TransactionID
				return tx.UpdatePayment(ctx, &p)
			}
		}
		return tx.InsertPayment(ctx, &domain.Payment{
			ID:            uuid.NewString(),
			OrderID:       orderID,
			Provider:      s.provider.Name(),
			Amount:        order.TotalAmount,
			Status:        domain.PaymentPending,
			TransactionID: intent.TransactionID,
			CreatedAt:     s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return &IntentResponse{
		ClientSecret: intent.ClientSecret,
		Amount:       order.TotalAmount,
		Currency:     s.currency,
	}, nil
}

// Confirm marks the payment carrying transactionID as COMPLETED. Called
// from the provider webhook once the charge settles.
func (s *Service) Confirm(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var payment *domain.Payment
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		payment, err = tx.PaymentByTransactionID(ctx, transactionID)
		if err != nil {
			return err
		}
		if payment.Status == domain.PaymentCompleted {
			return nil
		}
		payment.Status = domain.PaymentCompleted
		return tx.UpdatePayment(ctx, payment)
	})
	return payment, err
}

// Status lists the payments of an order the user owns.
func (s *Service) Status(ctx context.Context, userID, orderID string) ([]domain.Payment, error) {
	var order *domain.Order
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		order, err = tx.Order(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.Unauthorizedf("not authorized to view this order")
	}
	return order.Payments, nil
}
