package commands

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// AssignCourierCommandHandler binds a courier to a ready order. Both sides of
// the assignment are conditional writes inside one transaction: the order
// moves ready to assigned only if it is still ready, and the courier is
// claimed only if still free. When several couriers race for the same order
// exactly one assignment commits; the losers get a conflict and no partial
// state survives.
type AssignCourierCommandHandler struct {
	executor ports.TxExecutor
	notifier ports.Notifier
}

// NewAssignCourierCommandHandler creates a handler for courier assignment.
func NewAssignCourierCommandHandler(
	executor ports.TxExecutor,
	notifier ports.Notifier,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		executor: executor,
		notifier: notifier,
	}
}

// Handle processes the courier assignment command.
func (h *AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var assigned *order.Order
	err := h.executor.Execute(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		if err = o.Assign(cmd.CourierID()); err != nil {
			return err
		}

		if err = uow.CourierRepository().Claim(ctx, cmd.CourierID(), cmd.OrderID()); err != nil {
			return err
		}

		if err = uow.OrderRepository().Update(ctx, o, order.Ready); err != nil {
			return err
		}

		assigned = o
		return nil
	})
	if err != nil {
		return err
	}

	h.notifier.Dispatch(assigned, ports.EventCourierAssigned)
	return nil
}
