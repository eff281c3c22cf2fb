package commands

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler moves an order through its lifecycle. The
// transition itself is validated by the aggregate; the handler adds the
// side effects that belong to specific targets: a rejection is permitted only
// to the order's vendor and returns reserved stock to the inventory, a
// delivery frees the courier and counts the completed run.
//
// The write is guarded by the status the order had when it was loaded, so two
// concurrent transitions cannot both apply: the later one fails with a
// conflict and nothing from it is persisted.
type ChangeOrderStatusCommandHandler struct {
	executor ports.TxExecutor
	notifier ports.Notifier
}

// NewChangeOrderStatusCommandHandler creates a handler for status changes.
func NewChangeOrderStatusCommandHandler(
	executor ports.TxExecutor,
	notifier ports.Notifier,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		executor: executor,
		notifier: notifier,
	}
}

// Handle processes the status change command.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var changed *order.Order
	err := h.executor.Execute(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		orderRepo := uow.OrderRepository()

		o, err := orderRepo.Get(ctx, cmd.OrderID())
		if err != nil {
			return err
		}
		previous := o.Status()
		courierID := o.Courier()

		if cmd.To() == order.Rejected {
			if !cmd.ActorID().IsEqual(o.VendorID()) {
				return errs.NewUnauthorizedError("only the vendor can reject an order")
			}
			if err = o.Reject(cmd.ActorID(), cmd.Note()); err != nil {
				return err
			}
			if err = restockItems(ctx, uow.ProductInventory(), o.Items()); err != nil {
				return err
			}
		} else {
			if err = o.ChangeStatus(cmd.To(), cmd.ActorID(), cmd.Note()); err != nil {
				return err
			}
		}

		if cmd.To() == order.Delivered && courierID != nil {
			if err = uow.CourierRepository().Release(ctx, *courierID, true); err != nil {
				return err
			}
		}

		if err = orderRepo.Update(ctx, o, previous); err != nil {
			return err
		}

		changed = o
		return nil
	})
	if err != nil {
		return err
	}

	if event, ok := eventForStatus(cmd.To()); ok {
		h.notifier.Dispatch(changed, event)
	}
	return nil
}

func restockItems(ctx context.Context, inventory ports.ProductInventory, items []order.Item) error {
	for _, item := range items {
		if err := inventory.Restock(ctx, item.ProductID(), item.Quantity()); err != nil {
			return err
		}
	}
	return nil
}

func eventForStatus(status order.Status) (ports.OrderEvent, bool) {
	switch status {
	case order.Confirmed:
		return ports.EventOrderConfirmed, true
	case order.Preparing:
		return ports.EventOrderPreparing, true
	case order.Ready:
		return ports.EventOrderReady, true
	case order.Assigned:
		return ports.EventCourierAssigned, true
	case order.PickedUp:
		return ports.EventOrderPickedUp, true
	case order.InTransit:
		return ports.EventOrderInTransit, true
	case order.Delivered:
		return ports.EventOrderDelivered, true
	case order.Rejected:
		return ports.EventOrderRejected, true
	case order.Cancelled:
		return ports.EventOrderCancelled, true
	default:
		return "", false
	}
}
