package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var (
	ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
	)

	// ErrCancellationHasOwnOperation is returned when a caller tries to reach
	// the cancelled status through the generic status change. Cancellation
	// carries compensating actions and uses its own command.
	ErrCancellationHasOwnOperation = errors.New(
		"cancellation must use the cancel order operation",
	)
)

// ChangeOrderStatusCommand represents a request to move an order to a new
// lifecycle status on behalf of an actor.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	to      order.Status
	note    string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a status change command. The target
// status must be a known status; whether the transition is allowed from the
// order's current status is decided by the aggregate at handling time.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	actorID kernel.UUID,
	to order.Status,
	note string,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
		cmd.setTo(to),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	cmd.note = note
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }

// ActorID returns who requested the transition.
func (c ChangeOrderStatusCommand) ActorID() kernel.UUID { return c.actorID }

// To returns the target status.
func (c ChangeOrderStatusCommand) To() order.Status { return c.to }

// Note returns the free-form note recorded with the history entry.
func (c ChangeOrderStatusCommand) Note() string { return c.note }

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *ChangeOrderStatusCommand) setTo(to order.Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if to == order.Cancelled {
		return ErrCancellationHasOwnOperation
	}

	c.to = to
	return nil
}
