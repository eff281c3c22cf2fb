package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

func newChangeStatusCommand(t *testing.T, orderID kernel.UUID, to order.Status) commands.ChangeOrderStatusCommand {
	t.Helper()
	return newChangeStatusCommandBy(t, orderID, kernel.NewUUID(), to)
}

func newChangeStatusCommandBy(t *testing.T, orderID, actorID kernel.UUID, to order.Status) commands.ChangeOrderStatusCommand {
	t.Helper()
	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actorID, to, "")
	require.NoError(t, err)
	return cmd
}

func TestChangeOrderStatusCommandHandler_Handle_Confirm(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t)
	cmd := newChangeStatusCommand(t, o.ID(), order.Confirmed)

	uow := newStubUoW()
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.orders.On("Update", ctx, o, order.Pending).Return(nil).Once()

	notifier := &recordingNotifier{}
	handler := commands.NewChangeOrderStatusCommandHandler(&stubExecutor{uow: uow}, notifier)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, order.Confirmed, o.Status())
	require.NotNil(t, o.AcceptedAt())

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, ports.EventOrderConfirmed, events[0].Event)

	uow.assertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_RejectRestocks(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t)
	productID := o.Items()[0].ProductID()
	cmd := newChangeStatusCommandBy(t, o.ID(), o.VendorID(), order.Rejected)

	uow := newStubUoW()
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.inventory.On("Restock", ctx, productID, 2).Return(nil).Once()
	uow.orders.On("Update", ctx, o, order.Pending).Return(nil).Once()

	notifier := &recordingNotifier{}
	handler := commands.NewChangeOrderStatusCommandHandler(&stubExecutor{uow: uow}, notifier)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, order.Rejected, o.Status())

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, ports.EventOrderRejected, events[0].Event)

	uow.assertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_RejectOnlyFromPending(t *testing.T) {
	ctx := t.Context()
	o := orderInStatus(t, order.Confirmed)
	cmd := newChangeStatusCommandBy(t, o.ID(), o.VendorID(), order.Rejected)

	uow := newStubUoW()
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(&stubExecutor{uow: uow}, &recordingNotifier{})

	err := handler.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)
	uow.inventory.AssertNotCalled(t, "Restock", mock.Anything, mock.Anything, mock.Anything)
	uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_RejectByNonVendorIsUnauthorized(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t)
	cmd := newChangeStatusCommandBy(t, o.ID(), kernel.NewUUID(), order.Rejected)

	uow := newStubUoW()
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(&stubExecutor{uow: uow}, &recordingNotifier{})

	err := handler.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
	assert.Equal(t, order.Pending, o.Status())
	uow.inventory.AssertNotCalled(t, "Restock", mock.Anything, mock.Anything, mock.Anything)
	uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_DeliveredFreesCourier(t *testing.T) {
	ctx := t.Context()
	o := orderInStatus(t, order.InTransit)
	courierID := o.Courier()
	require.NotNil(t, courierID)
	cmd := newChangeStatusCommand(t, o.ID(), order.Delivered)

	uow := newStubUoW()
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.couriers.On("Release", ctx, *courierID, true).Return(nil).Once()
	uow.orders.On("Update", ctx, o, order.InTransit).Return(nil).Once()

	notifier := &recordingNotifier{}
	handler := commands.NewChangeOrderStatusCommandHandler(&stubExecutor{uow: uow}, notifier)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, order.Delivered, o.Status())
	require.NotNil(t, o.DeliveredAt())

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, ports.EventOrderDelivered, events[0].Event)

	uow.assertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_IllegalTransition(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t)
	cmd := newChangeStatusCommand(t, o.ID(), order.Delivered)

	uow := newStubUoW()
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	notifier := &recordingNotifier{}
	handler := commands.NewChangeOrderStatusCommandHandler(&stubExecutor{uow: uow}, notifier)

	err := handler.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, order.Pending, o.Status())
	assert.Empty(t, notifier.all())
	uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_ConcurrentChangeLoses(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t)
	cmd := newChangeStatusCommand(t, o.ID(), order.Confirmed)

	uow := newStubUoW()
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.orders.On("Update", ctx, o, order.Pending).
		Return(errs.NewConflictError("conflicting order status")).Once()

	notifier := &recordingNotifier{}
	handler := commands.NewChangeOrderStatusCommandHandler(&stubExecutor{uow: uow}, notifier)

	err := handler.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Empty(t, notifier.all())
}

func TestChangeOrderStatusCommandHandler_Handle_ValidationError(t *testing.T) {
	handler := commands.NewChangeOrderStatusCommandHandler(&stubExecutor{uow: newStubUoW()}, &recordingNotifier{})

	err := handler.Handle(t.Context(), commands.ChangeOrderStatusCommand{})
	require.ErrorIs(t, err, commands.ErrChangeOrderStatusCommandIsNotConstructed)
}
