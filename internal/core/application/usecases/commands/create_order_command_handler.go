package commands

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// CreateOrderCommandHandler handles order placement. Within one atomic unit
// of work it verifies the vendor is accepting orders, snapshots product names
// and prices, reserves stock for every line, prices the order, and persists
// it in pending status. If any line cannot be reserved the whole order is
// rolled back and no stock stays reserved.
//
// The involved parties are notified only after the transaction commits.
type CreateOrderCommandHandler struct {
	executor ports.TxExecutor
	notifier ports.Notifier
	pricing  Pricing
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(
	executor ports.TxExecutor,
	notifier ports.Notifier,
	pricing Pricing,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		executor: executor,
		notifier: notifier,
		pricing:  pricing,
	}
}

// Handle processes the order placement command and returns the created order.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var created *order.Order
	err := h.executor.Execute(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		vendor, err := uow.VendorDirectory().Get(ctx, cmd.VendorID())
		if err != nil {
			return err
		}
		if !vendor.AcceptingOrders {
			return errs.NewConflictError(
				fmt.Sprintf("vendor %s is not accepting orders", vendor.Name))
		}

		inventory := uow.ProductInventory()
		items := make([]order.Item, 0, len(cmd.Lines()))
		for _, line := range cmd.Lines() {
			product, err := inventory.Get(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if !product.Available {
				return errs.NewConflictError(
					fmt.Sprintf("item unavailable: %s", product.Name))
			}
			if err = inventory.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
				return errs.NewConflictErrorWithCause(
					fmt.Sprintf("item unavailable: %s", product.Name), err)
			}

			item, err := order.NewItem(product.ID, product.Name, product.Price, line.Quantity)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		distanceKm, err := vendor.Location.DistanceKm(cmd.Dropoff())
		if err != nil {
			return err
		}

		subtotal := subtotalOf(items)
		o, err := order.NewOrder(
			cmd.OrderID(),
			order.GenerateNumber(time.Now().UTC()),
			cmd.CustomerID(),
			cmd.VendorID(),
			items,
			cmd.Dropoff(),
			cmd.Address(),
			cmd.PaymentMethod(),
			cmd.Notes(),
			h.pricing.DeliveryFeeFor(distanceKm),
			h.pricing.ServiceFeeFor(subtotal),
			cmd.Discount(),
		)
		if err != nil {
			return err
		}

		if err = uow.OrderRepository().Add(ctx, o); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.notifier.Dispatch(created, ports.EventOrderCreated)
	return created, nil
}

func subtotalOf(items []order.Item) (subtotal kernel.Money) {
	for _, item := range items {
		subtotal += item.LineTotal()
	}
	return subtotal
}
