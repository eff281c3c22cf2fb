package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
)

const (
	channelBot  = "bot"
	channelPush = "push"

	outcomeDelivered = "delivered"
	outcomeDropped   = "dropped"
	outcomeSkipped   = "skipped"
)

// Config tunes dispatcher delivery behavior.
type Config struct {
	// PushTopic is the broker topic order events are published to.
	PushTopic string

	// AdminChatID is the operations chat. Empty disables admin notifications.
	AdminChatID string

	// BotAttempts is how many times a bot message is tried before it is
	// dropped. Values below 1 are treated as 1.
	BotAttempts int

	// BotBackoff is the fixed pause between bot attempts.
	BotBackoff time.Duration

	// DeliveryTimeout bounds a single fan-out run.
	DeliveryTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.BotAttempts < 1 {
		c.BotAttempts = 3
	}
	if c.BotBackoff <= 0 {
		c.BotBackoff = 300 * time.Millisecond
	}
	if c.DeliveryTimeout <= 0 {
		c.DeliveryTimeout = 30 * time.Second
	}
	return c
}

// Dispatcher fans an order event out to every interested party over the bot
// and push channels. Delivery runs outside the caller's transaction and never
// propagates an error back: a channel failure is logged, counted and dropped
// so that one broken channel cannot break another or the business operation.
type Dispatcher struct {
	bot       ports.BotSender
	push      ports.PushPublisher
	customers ports.CustomerDirectory
	vendors   ports.VendorDirectory
	couriers  ports.CourierRepository
	metrics   *metrics.DispatchMetrics
	logger    *slog.Logger
	cfg       Config
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(
	bot ports.BotSender,
	push ports.PushPublisher,
	customers ports.CustomerDirectory,
	vendors ports.VendorDirectory,
	couriers ports.CourierRepository,
	m *metrics.DispatchMetrics,
	logger *slog.Logger,
	cfg Config,
) (*Dispatcher, error) {
	if bot == nil || push == nil || customers == nil || vendors == nil || couriers == nil {
		return nil, errors.New("all notification collaborators are required")
	}
	if m == nil {
		return nil, errors.New("metrics is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		bot:       bot,
		push:      push,
		customers: customers,
		vendors:   vendors,
		couriers:  couriers,
		metrics:   m,
		logger:    logger.With("component", "notifications"),
		cfg:       cfg.withDefaults(),
	}, nil
}

// Dispatch schedules asynchronous fan-out of the event and returns
// immediately. Implements ports.Notifier.
func (d *Dispatcher) Dispatch(o *order.Order, event ports.OrderEvent) {
	if o == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.DeliveryTimeout)
		defer cancel()
		d.DispatchSync(ctx, o, event)
	}()
}

// DispatchSync performs the fan-out on the calling goroutine. It is the
// synchronous core of Dispatch and is also used where the caller manages its
// own scheduling.
func (d *Dispatcher) DispatchSync(ctx context.Context, o *order.Order, event ports.OrderEvent) {
	for _, role := range []Role{RoleCustomer, RoleVendor, RoleCourier, RoleAdmin} {
		text, ok := messageFor(event, role, o)
		if !ok {
			continue
		}

		chatID, err := d.resolveChatID(ctx, o, role)
		if err != nil {
			d.logger.Warn("recipient lookup failed",
				"order", o.Number(), "event", string(event), "role", string(role), "error", err)
			d.metrics.ObserveDelivery(channelBot, outcomeSkipped)
			continue
		}
		if chatID == "" {
			d.metrics.ObserveDelivery(channelBot, outcomeSkipped)
			continue
		}

		d.sendBot(ctx, chatID, text, o, event, role)
	}

	d.publishPush(ctx, o, event)
}

// Broadcast sends the courier-facing message for the event to each of the
// given couriers. Used to announce ready orders to nearby couriers.
func (d *Dispatcher) Broadcast(ctx context.Context, o *order.Order, event ports.OrderEvent, couriers []*courier.Courier) {
	text, ok := messageFor(event, RoleCourier, o)
	if !ok {
		return
	}
	for _, c := range couriers {
		if c == nil || c.ChatID() == "" {
			continue
		}
		d.sendBot(ctx, c.ChatID(), text, o, event, RoleCourier)
	}
}

func (d *Dispatcher) resolveChatID(ctx context.Context, o *order.Order, role Role) (string, error) {
	switch role {
	case RoleCustomer:
		customer, err := d.customers.Get(ctx, o.CustomerID())
		if err != nil {
			return "", err
		}
		return customer.ChatID, nil
	case RoleVendor:
		vendor, err := d.vendors.Get(ctx, o.VendorID())
		if err != nil {
			return "", err
		}
		return vendor.ChatID, nil
	case RoleCourier:
		courierID := o.Courier()
		if courierID == nil {
			return "", nil
		}
		c, err := d.couriers.Get(ctx, *courierID)
		if err != nil {
			return "", err
		}
		return c.ChatID(), nil
	case RoleAdmin:
		return d.cfg.AdminChatID, nil
	default:
		return "", errs.NewValueIsInvalidError("role")
	}
}

func (d *Dispatcher) sendBot(ctx context.Context, chatID string, text string, o *order.Order, event ports.OrderEvent, role Role) {
	var err error
	for attempt := 1; attempt <= d.cfg.BotAttempts; attempt++ {
		if err = d.bot.Send(ctx, chatID, text); err == nil {
			d.metrics.ObserveDelivery(channelBot, outcomeDelivered)
			return
		}
		if attempt < d.cfg.BotAttempts {
			select {
			case <-ctx.Done():
				d.metrics.ObserveDelivery(channelBot, outcomeDropped)
				return
			case <-time.After(d.cfg.BotBackoff):
			}
		}
	}

	d.logger.Warn("bot message dropped",
		"order", o.Number(), "event", string(event), "role", string(role),
		"attempts", d.cfg.BotAttempts, "error", err)
	d.metrics.ObserveDelivery(channelBot, outcomeDropped)
}

type pushEvent struct {
	OrderID string `json:"order_id"`
	Number  string `json:"number"`
	Status  string `json:"status"`
	Event   string `json:"event"`
	Total   int64  `json:"total"`
}

func (d *Dispatcher) publishPush(ctx context.Context, o *order.Order, event ports.OrderEvent) {
	payload, err := json.Marshal(pushEvent{
		OrderID: o.ID().String(),
		Number:  o.Number(),
		Status:  o.Status().String(),
		Event:   string(event),
		Total:   o.Total().Int64(),
	})
	if err != nil {
		d.logger.Warn("push payload encoding failed", "order", o.Number(), "error", err)
		d.metrics.ObserveDelivery(channelPush, outcomeDropped)
		return
	}

	if err := d.push.Publish(ctx, d.cfg.PushTopic, payload); err != nil {
		d.logger.Warn("push publish failed",
			"order", o.Number(), "event", string(event), "error", err)
		d.metrics.ObserveDelivery(channelPush, outcomeDropped)
		return
	}
	d.metrics.ObserveDelivery(channelPush, outcomeDelivered)
}
