package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/memstore"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

func seed(t *testing.T, st *memstore.Store, o domain.Order, payments ...domain.Payment) {
	t.Helper()
	err := st.InTx(context.Background(), func(tx storage.Tx) error {
		if err := tx.InsertOrder(context.Background(), &o); err != nil {
			return err
		}
		for i := range payments {
			payments[i].OrderID = o.ID
			if err := tx.InsertPayment(context.Background(), &payments[i]); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestCreateIntentReusesPendingPayment(t *testing.T) {
	st := memstore.New()
	seed(t, st,
		domain.Order{ID: "o1", OrderNumber: "ORD-1", UserID: "u1", Status: domain.OrderPending, TotalAmount: 190},
		domain.Payment{ID: "pay1", Provider: "STRIPE", Amount: 190, Status: domain.PaymentPending},
	)
	svc := NewService(st, MockProvider{}, "usd")
	ctx := context.Background()

	resp, err := svc.CreateIntent(ctx, "u1", "o1")
	require.NoError(t, err)
	assert.Equal(t, 190.0, resp.Amount)
	assert.Equal(t, "usd", resp.Currency)
	assert.NotEmpty(t, resp.ClientSecret)

	payments, err := svc.Status(ctx, "u1", "o1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.NotEmpty(t, payments[0].TransactionID)
}

func TestCreateIntentGuards(t *testing.T) {
	st := memstore.New()
	seed(t, st, domain.Order{ID: "o1", OrderNumber: "ORD-1", UserID: "u1", Status: domain.OrderCancelled, TotalAmount: 50})
	seed(t, st,
		domain.Order{ID: "o2", OrderNumber: "ORD-2", UserID: "u1", Status: domain.OrderPending, TotalAmount: 50},
		domain.Payment{ID: "pay2", Provider: "STRIPE", Amount: 50, Status: domain.PaymentCompleted, TransactionID: "pi_1"},
	)
	svc := NewService(st, MockProvider{}, "usd")
	ctx := context.Background()

	_, err := svc.CreateIntent(ctx, "u2", "o1")
	assert.True(t, domain.IsCode(err, domain.CodeUnauthorized))

	_, err = svc.CreateIntent(ctx, "u1", "o1")
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))

	_, err = svc.CreateIntent(ctx, "u1", "o2")
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))

	_, err = svc.CreateIntent(ctx, "u1", "missing")
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestConfirm(t *testing.T) {
	st := memstore.New()
	seed(t, st,
		domain.Order{ID: "o1", OrderNumber: "ORD-1", UserID: "u1", Status: domain.OrderPending, TotalAmount: 190},
		domain.Payment{ID: "pay1", Provider: "STRIPE", Amount: 190, Status: domain.PaymentPending, TransactionID: "pi_1"},
	)
	svc := NewService(st, MockProvider{}, "usd")
	ctx := context.Background()

	p, err := svc.Confirm(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, p.Status)

	// confirming twice is harmless
	p, err = svc.Confirm(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, p.Status)

	_, err = svc.Confirm(ctx, "pi_unknown")
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestStatusOwnership(t *testing.T) {
	st := memstore.New()
	seed(t, st, domain.Order{ID: "o1", OrderNumber: "ORD-1", UserID: "u1", Status: domain.OrderPending})
	svc := NewService(st, MockProvider{}, "usd")

	_, err := svc.Status(context.Background(), "u2", "o1")
	assert.True(t, domain.IsCode(err, domain.CodeUnauthorized))
}
