package redisx

import "time"

const (
	// Checkout idempotency fast path: idem:checkout:{key} -> order_id.
	// The orders table keeps the durable unique constraint; this only
	// short-circuits retries without a database round trip.
	KeyIdemCheckout = "idem:checkout:%s"

	// Cached order status: order_status:{order_id} -> {"status": "...", "updated_at": "..."}
	KeyOrderStatus = "order_status:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
)
