package payment

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	stripe "github.com/stripe/stripe-go/v81"
	stripeclient "github.com/stripe/stripe-go/v81/client"
)

// Intent is what a provider hands back for a new payment attempt.
type Intent struct {
	TransactionID string
	ClientSecret  string
}

// Provider creates payment intents with an external processor.
type Provider interface {
	Name() string
	CreateIntent(ctx context.Context, amount float64, currency string) (Intent, error)
}

// StripeProvider drives the real Stripe API.
type StripeProvider struct {
	api *stripeclient.API
}

func NewStripeProvider(apiKey string) *StripeProvider {
	api := &stripeclient.API{}
	api.Init(apiKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) Name() string { return "STRIPE" }

func (p *StripeProvider) CreateIntent(ctx context.Context, amount float64, currency string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("stripe payment intent: %w", err)
	}
	return Intent{TransactionID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// MockProvider issues deterministic-looking intents without any external
// call. Used when no Stripe key is configured.
type MockProvider struct{}

func (MockProvider) Name() string { return "MOCK" }

func (MockProvider) CreateIntent(_ context.Context, _ float64, _ string) (Intent, error) {
	now := time.Now().UnixMilli()
	return Intent{
		TransactionID: fmt.Sprintf("pi_%d", now),
		ClientSecret:  fmt.Sprintf("pi_%d_secret_%06d", now, rand.Intn(1000000)),
	}, nil
}
