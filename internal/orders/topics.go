package orders

const (
	TopicOrderCreated       = "order.created"
	TopicOrderCancelled     = "order.cancelled"
	TopicOrderStatusUpdated = "order.status.updated"
)

// Partition key = order id, so every event of one order keeps its order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
