package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// OrderEvent names a state change announced to the involved parties.
type OrderEvent string

const (
	EventOrderCreated    OrderEvent = "order_created"
	EventOrderConfirmed  OrderEvent = "order_confirmed"
	EventOrderRejected   OrderEvent = "order_rejected"
	EventOrderPreparing  OrderEvent = "order_preparing"
	EventOrderReady      OrderEvent = "order_ready"
	EventCourierAssigned OrderEvent = "courier_assigned"
	EventOrderPickedUp   OrderEvent = "order_picked_up"
	EventOrderInTransit  OrderEvent = "order_in_transit"
	EventOrderDelivered  OrderEvent = "order_delivered"
	EventOrderCancelled  OrderEvent = "order_cancelled"
	// EventOrderAvailable is broadcast to eligible couriers when an order
	// becomes ready for pickup.
	EventOrderAvailable OrderEvent = "order_available"
)

// Notifier fans out an order state change to the involved parties.
// Dispatch is asynchronous and best-effort: it must be called only after the
// triggering transaction has committed, never blocks the caller, and its
// failures never propagate back into the engine's call path.
type Notifier interface {
	Dispatch(o *order.Order, event OrderEvent)
}

// BotSender is the conversational-bot channel: best-effort text delivery to a
// recipient's chat. The dispatcher retries transient failures a bounded
// number of times, then drops the message with a logged warning.
type BotSender interface {
	Send(ctx context.Context, chatID string, text string) error
}

// PushPublisher is the real-time push channel: fire-and-forget publication
// with no delivery guarantee and no retry.
type PushPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
