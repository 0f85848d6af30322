package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/bakervibes/vexa-backend/internal/address"
	"github.com/bakervibes/vexa-backend/internal/cart"
	"github.com/bakervibes/vexa-backend/internal/checkout"
	"github.com/bakervibes/vexa-backend/internal/config"
	"github.com/bakervibes/vexa-backend/internal/coupon"
	"github.com/bakervibes/vexa-backend/internal/httpx"
	kafkax "github.com/bakervibes/vexa-backend/internal/kafka"
	"github.com/bakervibes/vexa-backend/internal/orders"
	"github.com/bakervibes/vexa-backend/internal/payment"
	"github.com/bakervibes/vexa-backend/internal/postgres"
	"github.com/bakervibes/vexa-backend/internal/redisx"
	"github.com/bakervibes/vexa-backend/internal/wishlist"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", cfg.ServiceName)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()
	db := postgres.NewDB(pool)

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// One producer per topic; events route by type.
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCancelled := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCancelled, 1024)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusUpdated, 1024)
	producerCtx, stopProducers := context.WithCancel(context.Background())
	pCreated.Start(producerCtx)
	pCancelled.Start(producerCtx)
	pStatus.Start(producerCtx)
	events := &eventRouter{created: pCreated, cancelled: pCancelled, status: pStatus}

	var provider payment.Provider = payment.MockProvider{}
	if cfg.StripeKey != "" {
		provider = payment.NewStripeProvider(cfg.StripeKey)
	}

	carts := cart.NewService(db)
	coupons := coupon.NewEvaluator(db)
	addresses := address.NewService(db)
	orderSvc := orders.NewService(db, events, cfg.ServiceName)
	checkoutSvc := checkout.NewService(db, events, cfg.ServiceName)
	payments := payment.NewService(db, provider, cfg.Currency)
	wishlists := wishlist.NewService(db)

	router := httpx.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(httpx.Auth(cfg.JWTSecret))
		(&httpx.CartHandler{Carts: carts}).Register(r)
		(&httpx.CheckoutHandler{Checkout: checkoutSvc, Orders: orderSvc, Redis: rdb}).Register(r)
		(&httpx.CouponHandler{Coupons: coupons}).Register(r)
		(&httpx.OrdersHandler{Orders: orderSvc, Redis: rdb}).Register(r)
		(&httpx.AddressHandler{Addresses: addresses}).Register(r)
		(&httpx.PaymentHandler{Payments: payments}).Register(r)
		(&httpx.WishlistHandler{Wishlists: wishlists}).Register(r)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server", "err", err)
	}

	log.Info("shutting down")
	stopProducers()
	pCreated.WaitClosed()
	pCancelled.WaitClosed()
	pStatus.WaitClosed()
}

// eventRouter fans order events out to the producer of their topic based
// on the x-event-type header.
type eventRouter struct {
	created   *kafkax.Producer
	cancelled *kafkax.Producer
	status    *kafkax.Producer
}

func (r *eventRouter) Publish(key, value []byte, headers ...kafkago.Header) {
	for _, h := range headers {
		if h.Key != "x-event-type" {
			continue
		}
		switch string(h.Value) {
		case orders.EventOrderCancelled:
			r.cancelled.Publish(key, value, headers...)
			return
		case orders.EventOrderStatusUpdated:
			r.status.Publish(key, value, headers...)
			return
		}
	}
	r.created.Publish(key, value, headers...)
}
