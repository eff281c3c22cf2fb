package notifications

import (
	"fmt"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// Role identifies a notification recipient kind.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleCourier  Role = "courier"
	RoleAdmin    Role = "admin"
)

type templateKey struct {
	Event ports.OrderEvent
	Role  Role
}

// messageTemplates maps (event, role) to the bot message for that recipient.
// Combinations absent from the table are intentionally not announced to that
// role and are silently skipped by the dispatcher.
func messageTemplates() map[templateKey]func(o *order.Order) string {
	return map[templateKey]func(o *order.Order) string{
		{ports.EventOrderCreated, RoleVendor}: func(o *order.Order) string {
			return fmt.Sprintf("New order %s: %d item(s), total %d. Please confirm or reject.",
				o.Number(), len(o.Items()), o.Total())
		},
		{ports.EventOrderCreated, RoleAdmin}: func(o *order.Order) string {
			return fmt.Sprintf("Order %s created.", o.Number())
		},

		{ports.EventOrderConfirmed, RoleCustomer}: func(o *order.Order) string {
			return fmt.Sprintf("Your order %s has been confirmed by the restaurant.", o.Number())
		},

		{ports.EventOrderRejected, RoleCustomer}: func(o *order.Order) string {
			return fmt.Sprintf("Unfortunately your order %s was rejected by the vendor.", o.Number())
		},
		{ports.EventOrderRejected, RoleAdmin}: func(o *order.Order) string {
			return fmt.Sprintf("Order %s was rejected by the vendor.", o.Number())
		},

		{ports.EventOrderPreparing, RoleCustomer}: func(o *order.Order) string {
			return fmt.Sprintf("Your order %s is being prepared.", o.Number())
		},

		{ports.EventOrderReady, RoleCustomer}: func(o *order.Order) string {
			return fmt.Sprintf("Your order %s is ready; we are looking for a courier.", o.Number())
		},
		{ports.EventOrderReady, RoleAdmin}: func(o *order.Order) string {
			return fmt.Sprintf("Order %s is ready and waiting for courier assignment.", o.Number())
		},

		{ports.EventCourierAssigned, RoleCustomer}: func(o *order.Order) string {
			return fmt.Sprintf("A courier has been assigned to your order %s.", o.Number())
		},
		{ports.EventCourierAssigned, RoleVendor}: func(o *order.Order) string {
			return fmt.Sprintf("A courier is on the way to pick up order %s.", o.Number())
		},
		{ports.EventCourierAssigned, RoleCourier}: func(o *order.Order) string {
			return fmt.Sprintf("You are assigned to order %s. Pickup address in the order card.", o.Number())
		},

		{ports.EventOrderPickedUp, RoleCustomer}: func(o *order.Order) string {
			return fmt.Sprintf("The courier has picked up your order %s.", o.Number())
		},
		{ports.EventOrderPickedUp, RoleVendor}: func(o *order.Order) string {
			return fmt.Sprintf("Order %s has been picked up by the courier.", o.Number())
		},

		{ports.EventOrderInTransit, RoleCustomer}: func(o *order.Order) string {
			return fmt.Sprintf("Your order %s is on its way to %s.", o.Number(), o.Address())
		},

		{ports.EventOrderDelivered, RoleCustomer}: func(o *order.Order) string {
			return fmt.Sprintf("Your order %s has been delivered. You can now rate the vendor and courier.", o.Number())
		},
		{ports.EventOrderDelivered, RoleVendor}: func(o *order.Order) string {
			return fmt.Sprintf("Order %s has been delivered to the customer.", o.Number())
		},
		{ports.EventOrderDelivered, RoleCourier}: func(o *order.Order) string {
			return fmt.Sprintf("Delivery of order %s is complete. Thank you!", o.Number())
		},

		{ports.EventOrderCancelled, RoleCustomer}: func(o *order.Order) string {
			return fmt.Sprintf("Your order %s has been cancelled.", o.Number())
		},
		{ports.EventOrderCancelled, RoleVendor}: func(o *order.Order) string {
			return fmt.Sprintf("Order %s has been cancelled.", o.Number())
		},
		{ports.EventOrderCancelled, RoleAdmin}: func(o *order.Order) string {
			return fmt.Sprintf("Order %s has been cancelled.", o.Number())
		},

		{ports.EventOrderAvailable, RoleCourier}: func(o *order.Order) string {
			return fmt.Sprintf("Order %s is ready for pickup near you. Claim it in the app.", o.Number())
		},
	}
}

// messageFor returns the bot text for an (event, role) pair, or ok=false when
// that role is not announced for the event.
func messageFor(event ports.OrderEvent, role Role, o *order.Order) (string, bool) {
	tmpl, ok := messageTemplates()[templateKey{Event: event, Role: role}]
	if !ok {
		return "", false
	}
	return tmpl(o), true
}
