package domain

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderRefunded   OrderStatus = "REFUNDED"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:    {OrderProcessing: true, OrderCancelled: true, OrderRefunded: true},
	OrderProcessing: {OrderShipped: true, OrderRefunded: true},
	OrderShipped:    {OrderDelivered: true, OrderRefunded: true},
	OrderDelivered:  {OrderRefunded: true},
	OrderCancelled:  {},
	OrderRefunded:   {},
}

// CanTransition reports whether an order may move from one status to
// another. CANCELLED and REFUNDED are terminal.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

func ValidStatus(s OrderStatus) bool {
	_, ok := validNext[s]
	return ok
}
