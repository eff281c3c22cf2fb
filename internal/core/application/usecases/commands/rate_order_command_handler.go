package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// ErrNoCourierToRate is returned when a courier rating targets an order that
// carries no courier reference.
var ErrNoCourierToRate = errors.New("order has no courier to rate")

// RateOrderCommandHandler records a rating on a delivered order and folds the
// score into the rated party's running average inside the same transaction.
// The aggregate enforces the delivered-only and once-per-rater rules; the
// version-guarded order write keeps a concurrent duplicate from slipping past
// them, since rating an order never changes its status.
type RateOrderCommandHandler struct {
	executor ports.TxExecutor
}

// NewRateOrderCommandHandler creates a handler for order ratings.
func NewRateOrderCommandHandler(executor ports.TxExecutor) RateOrderCommandHandler {
	return RateOrderCommandHandler{
		executor: executor,
	}
}

// Handle processes the rating command.
func (h *RateOrderCommandHandler) Handle(ctx context.Context, cmd RateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.executor.Execute(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		if err = o.AddRating(cmd.RaterID(), cmd.Target(), cmd.Score(), cmd.Comment()); err != nil {
			return err
		}

		switch cmd.Target() {
		case order.RatingTargetVendor:
			err = uow.VendorDirectory().AddRating(ctx, o.VendorID(), cmd.Score())
		case order.RatingTargetCourier:
			courierID := o.Courier()
			if courierID == nil {
				return ErrNoCourierToRate
			}
			err = uow.CourierRepository().AddRating(ctx, *courierID, cmd.Score())
		}
		if err != nil {
			return err
		}

		return uow.OrderRepository().Update(ctx, o, order.Delivered)
	})
}
