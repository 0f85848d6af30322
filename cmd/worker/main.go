// The worker consumes order events and keeps the redis order-status
// cache warm, so status reads almost never hit the database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/bakervibes/vexa-backend/internal/config"
	"github.com/bakervibes/vexa-backend/internal/domain"
	kafkax "github.com/bakervibes/vexa-backend/internal/kafka"
	"github.com/bakervibes/vexa-backend/internal/orders"
	"github.com/bakervibes/vexa-backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", cfg.ServiceName+"-worker")
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	group := getenv("WORKER_GROUP", "status-cache")
	workers := mustAtoi(os.Getenv("WORKER_CONCURRENCY"), "4")
	h := &handler{rdb: rdb}

	topics := []string{orders.TopicOrderCreated, orders.TopicOrderCancelled, orders.TopicOrderStatusUpdated}
	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		g.Go(func() error {
			log.Info("consumer started", "group", group, "topic", topic, "workers", workers)
			return cons.Start(gctx, h.handle)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("consumer exit", "err", err)
		os.Exit(1)
	}
	log.Info("shut down")
}

type handler struct {
	rdb *redis.Client
}

func (h *handler) handle(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		slog.Error("bad envelope", "err", err)
		return nil // poison message, commit and move on
	}

	var orderID, userID string
	var status domain.OrderStatus
	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, userID, status = p.OrderID, p.UserID, domain.OrderPending
	case orders.EventOrderCancelled:
		p, err := kafkax.UnwrapPayload[orders.OrderCancelledPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, userID, status = p.OrderID, p.UserID, domain.OrderCancelled
	case orders.EventOrderStatusUpdated:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusUpdatedPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, userID, status = p.OrderID, p.UserID, p.To
	default:
		return nil
	}

	body, _ := json.Marshal(orders.StatusCache{Status: status, UpdatedAt: env.OccurredAt, UserID: userID})
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	return h.rdb.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
