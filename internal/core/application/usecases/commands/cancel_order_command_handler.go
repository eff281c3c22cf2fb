package commands

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order and runs the compensating
// actions in the same transaction: reserved stock goes back to the
// inventory, an assigned courier is freed, and a paid order is flagged for
// refund. The status-guarded write makes a concurrent double cancellation
// impossible, so stock is returned exactly once.
type CancelOrderCommandHandler struct {
	executor ports.TxExecutor
	notifier ports.Notifier
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	executor ports.TxExecutor,
	notifier ports.Notifier,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		executor: executor,
		notifier: notifier,
	}
}

// Handle processes the cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var cancelled *order.Order
	err := h.executor.Execute(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
		if err != nil {
			return err
		}
		previous := o.Status()
		courierID := o.Courier()

		if err = o.Cancel(cmd.ActorID(), cmd.Reason()); err != nil {
			return err
		}

		if err = restockItems(ctx, uow.ProductInventory(), o.Items()); err != nil {
			return err
		}

		if courierID != nil {
			if err = uow.CourierRepository().Release(ctx, *courierID, false); err != nil {
				return err
			}
		}

		if err = uow.OrderRepository().Update(ctx, o, previous); err != nil {
			return err
		}

		cancelled = o
		return nil
	})
	if err != nil {
		return err
	}

	h.notifier.Dispatch(cancelled, ports.EventOrderCancelled)
	return nil
}
