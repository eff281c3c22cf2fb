package order_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDropoff(t *testing.T) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(41.311081, 69.240562)
	require.NoError(t, err)
	return point
}

func testItems(t *testing.T) []order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "Plov", kernel.Money(45000), 2)
	require.NoError(t, err)
	return []order.Item{item}
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.GenerateNumber(time.Now()),
		kernel.NewUUID(),
		kernel.NewUUID(),
		testItems(t),
		testDropoff(t),
		"12 Amir Temur Avenue",
		"cash",
		"",
		kernel.Money(10000), // delivery fee
		kernel.Money(9000),  // service fee
		kernel.Money(4000),  // discount
	)
	require.NoError(t, err)
	return o
}

// advanceTo walks the order along the happy path up to the wanted status.
func advanceTo(t *testing.T, o *order.Order, courierID kernel.UUID, want order.Status) {
	t.Helper()
	actor := o.VendorID()

	path := []order.Status{
		order.Confirmed, order.Preparing, order.Ready,
		order.Assigned, order.PickedUp, order.InTransit, order.Delivered,
	}
	for _, next := range path {
		if o.Status() == want {
			return
		}
		if next == order.Assigned {
			require.NoError(t, o.Assign(courierID))
			continue
		}
		require.NoError(t, o.ChangeStatus(next, actor, ""))
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order with one history entry", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Courier())
		assert.Equal(t, order.PaymentUnpaid, o.PaymentStatus())
		require.Len(t, o.History(), 1)
		assert.Equal(t, order.Pending, o.History()[0].Status)
		assert.Equal(t, int64(1), o.Version())
		assert.False(t, o.CreatedAt().IsZero())
	})

	t.Run("pricing invariant holds after creation", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, kernel.Money(90000), o.Subtotal())
		assert.Equal(t, o.Subtotal()+o.DeliveryFee()+o.ServiceFee()-o.Discount(), o.Total())
		assert.Equal(t, kernel.Money(105000), o.Total())
	})

	t.Run("requires items", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "ORD-1", kernel.NewUUID(), kernel.NewUUID(),
			nil, testDropoff(t), "addr", "cash", "", 0, 0, 0,
		)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("requires address and number", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "", kernel.NewUUID(), kernel.NewUUID(),
			testItems(t), testDropoff(t), "addr", "cash", "", 0, 0, 0,
		)
		require.Error(t, err)

		_, err = order.NewOrder(
			kernel.NewUUID(), "ORD-1", kernel.NewUUID(), kernel.NewUUID(),
			testItems(t), testDropoff(t), "", "cash", "", 0, 0, 0,
		)
		require.Error(t, err)
	})
}

func TestGenerateNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	a := order.GenerateNumber(now)
	b := order.GenerateNumber(now)

	assert.Regexp(t, `^ORD-20250314-[0-9A-F]{6}$`, a)
	assert.NotEqual(t, a, b)
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("legal transition appends history and sets milestone once", func(t *testing.T) {
		o := newTestOrder(t)
		actor := o.VendorID()

		require.NoError(t, o.ChangeStatus(order.Confirmed, actor, "accepted"))

		assert.Equal(t, order.Confirmed, o.Status())
		require.Len(t, o.History(), 2)
		assert.Equal(t, "accepted", o.History()[1].Note)
		require.NotNil(t, o.AcceptedAt())
	})

	t.Run("illegal transition leaves order unchanged", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.ChangeStatus(order.Delivered, o.VendorID(), "")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Pending, o.Status())
		assert.Len(t, o.History(), 1)
	})

	t.Run("assigned requires courier reference", func(t *testing.T) {
		o := newTestOrder(t)
		advanceTo(t, o, kernel.NewUUID(), order.Ready)

		err := o.ChangeStatus(order.Assigned, o.VendorID(), "")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("terminal status rejects further transitions", func(t *testing.T) {
		o := newTestOrder(t)
		courierID := kernel.NewUUID()
		advanceTo(t, o, courierID, order.Delivered)

		err := o.ChangeStatus(order.Cancelled, o.CustomerID(), "")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Delivered, o.Status())
	})
}

func TestOrder_Assign(t *testing.T) {
	t.Run("assigns from ready", func(t *testing.T) {
		o := newTestOrder(t)
		advanceTo(t, o, kernel.NewUUID(), order.Ready)
		courierID := kernel.NewUUID()

		entriesBefore := len(o.History())

		require.NoError(t, o.Assign(courierID))

		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Courier())
		assert.True(t, o.Courier().IsEqual(courierID))
		require.NotNil(t, o.AssignedAt())
		assert.Len(t, o.History(), entriesBefore, "assignment must not append a history entry")
	})

	t.Run("assignment from any other status is rejected", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.Assign(kernel.NewUUID())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Nil(t, o.Courier())
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("records reason and clears courier", func(t *testing.T) {
		o := newTestOrder(t)
		advanceTo(t, o, kernel.NewUUID(), order.Assigned)

		require.NoError(t, o.Cancel(o.CustomerID(), "changed my mind"))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.Courier())
		require.NotNil(t, o.CancelledAt())
		history := o.History()
		assert.Equal(t, "changed my mind", history[len(history)-1].Note)
	})

	t.Run("a paid order becomes refund pending", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaid())

		require.NoError(t, o.Cancel(o.CustomerID(), "out of stock"))

		assert.Equal(t, order.PaymentRefundPending, o.PaymentStatus())
	})

	t.Run("cancelling twice fails with terminal conflict", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel(o.CustomerID(), "first"))

		err := o.Cancel(o.CustomerID(), "second")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestOrder_Reject(t *testing.T) {
	t.Run("vendor rejects pending order", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Reject(o.VendorID(), "kitchen closed"))

		assert.Equal(t, order.Rejected, o.Status())
		require.NotNil(t, o.CancelledAt())
	})

	t.Run("rejecting a confirmed order fails", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.ChangeStatus(order.Confirmed, o.VendorID(), ""))

		err := o.Reject(o.VendorID(), "")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestOrder_AddRating(t *testing.T) {
	t.Run("rating before delivery fails", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.AddRating(o.CustomerID(), order.RatingTargetVendor, 5, "")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("rating after delivery succeeds once per target", func(t *testing.T) {
		o := newTestOrder(t)
		advanceTo(t, o, kernel.NewUUID(), order.Delivered)

		require.NoError(t, o.AddRating(o.CustomerID(), order.RatingTargetVendor, 5, "great"))
		require.NoError(t, o.AddRating(o.CustomerID(), order.RatingTargetCourier, 4, "fast"))

		err := o.AddRating(o.CustomerID(), order.RatingTargetVendor, 3, "again")
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)

		assert.Len(t, o.Ratings(), 2)
	})

	t.Run("score must be within range", func(t *testing.T) {
		o := newTestOrder(t)
		advanceTo(t, o, kernel.NewUUID(), order.Delivered)

		err := o.AddRating(o.CustomerID(), order.RatingTargetVendor, 6, "")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestOrder_FullLifecycleScenario(t *testing.T) {
	// Create with one item (45000 x 2), walk the happy path, and check the
	// resulting history and pricing.
	o := newTestOrder(t)
	courierID := kernel.NewUUID()

	advanceTo(t, o, courierID, order.Delivered)

	assert.Equal(t, order.Delivered, o.Status())
	require.NotNil(t, o.DeliveredAt())
	assert.Equal(t, kernel.Money(90000), o.Subtotal())
	assert.Equal(t, o.Subtotal()+o.DeliveryFee()+o.ServiceFee()-o.Discount(), o.Total())

	// 7 history entries: created plus every recorded transition. Assignment
	// leaves no history entry, only the courier reference and its milestone.
	history := o.History()
	require.Len(t, history, 7)
	sequence := make([]order.Status, 0, len(history))
	for _, entry := range history {
		sequence = append(sequence, entry.Status)
	}
	assert.Equal(t, []order.Status{
		order.Pending, order.Confirmed, order.Preparing, order.Ready,
		order.PickedUp, order.InTransit, order.Delivered,
	}, sequence)
}

func TestRestoreOrder(t *testing.T) {
	t.Run("round trip preserves state and recomputes total", func(t *testing.T) {
		o := newTestOrder(t)
		courierID := kernel.NewUUID()
		advanceTo(t, o, courierID, order.Assigned)

		restored, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:            o.ID(),
			Number:        o.Number(),
			CustomerID:    o.CustomerID(),
			VendorID:      o.VendorID(),
			CourierID:     o.Courier(),
			Items:         o.Items(),
			Subtotal:      o.Subtotal(),
			DeliveryFee:   o.DeliveryFee(),
			ServiceFee:    o.ServiceFee(),
			Discount:      o.Discount(),
			Status:        o.Status(),
			History:       o.History(),
			Version:       o.Version(),
			Dropoff:       o.Dropoff(),
			Address:       o.Address(),
			PaymentMethod: o.PaymentMethod(),
			PaymentStatus: o.PaymentStatus(),
			Notes:         o.Notes(),
			CreatedAt:     o.CreatedAt(),
			AcceptedAt:    o.AcceptedAt(),
			ReadyAt:       o.ReadyAt(),
			AssignedAt:    o.AssignedAt(),
		})

		require.NoError(t, err)
		assert.True(t, restored.IsEqual(o))
		assert.Equal(t, o.Status(), restored.Status())
		assert.Equal(t, o.Total(), restored.Total())
		assert.Equal(t, o.Version(), restored.Version())
		assert.Len(t, restored.History(), len(o.History()))
	})

	t.Run("nonpositive version is rejected", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:         o.ID(),
			Number:     o.Number(),
			CustomerID: o.CustomerID(),
			VendorID:   o.VendorID(),
			Items:      o.Items(),
			Status:     order.Pending,
			Version:    0,
			Dropoff:    o.Dropoff(),
			Address:    o.Address(),
			CreatedAt:  o.CreatedAt(),
		})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})

	t.Run("assigned status without courier is rejected", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:         o.ID(),
			Number:     o.Number(),
			CustomerID: o.CustomerID(),
			VendorID:   o.VendorID(),
			Items:      o.Items(),
			Status:     order.Assigned,
			Version:    1,
			Dropoff:    o.Dropoff(),
			Address:    o.Address(),
			CreatedAt:  o.CreatedAt(),
		})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_ValidateZeroValue(t *testing.T) {
	var o order.Order

	require.Error(t, o.Validate())
	require.Error(t, (&o).ChangeStatus(order.Confirmed, kernel.NewUUID(), ""))
}
