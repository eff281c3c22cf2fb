package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/google/uuid"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	// ErrOrderIsTerminal is returned when mutating an order that already reached
	// delivered, cancelled, or rejected.
	ErrOrderIsTerminal = errs.NewConflictError("order is in a terminal status")
	// ErrCourierIsRequired is returned when transitioning to assigned without a courier.
	ErrCourierIsRequired = errs.NewValueIsRequiredError("courier")
	// ErrOrderNotDelivered is returned when rating an order that has not been delivered.
	ErrOrderNotDelivered = errs.NewConflictError("order is not delivered yet")
	// ErrAlreadyRated is returned when the same rater rates the same target twice.
	ErrAlreadyRated = errs.NewConflictError("order is already rated by this actor for this target")
)

// PaymentStatus tracks the payment flag on an order. Actual money movement is
// handled by an external collaborator; the engine only flips this flag.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentRefundPending PaymentStatus = "refund_pending"
)

// RatingTarget names the party a rating applies to.
type RatingTarget string

const (
	RatingTargetVendor  RatingTarget = "vendor"
	RatingTargetCourier RatingTarget = "courier"
)

// StatusChange is one append-only entry in the order's status history.
type StatusChange struct {
	Status  Status
	At      time.Time
	ActorID kernel.UUID
	Note    string
}

// Rating is one score left by a rater for a vendor or courier on a delivered order.
type Rating struct {
	RaterID kernel.UUID
	Target  RatingTarget
	Score   int
	Comment string
	At      time.Time
}

// Order is the central aggregate of the fulfillment engine. It owns the status
// state machine, immutable line-item snapshots, derived pricing, the
// append-only status history, and write-once milestone timestamps.
//
// Invariants:
//   - total == subtotal + deliveryFee + serviceFee - discount
//   - status only moves along edges of the transition table
//   - the courier reference is set iff status has reached assigned or later,
//     and is cleared only by cancellation
//   - line items and their price snapshots are write-once at creation
//   - once terminal, no further mutation of status, pricing, or items
type Order struct {
	id         kernel.UUID
	number     string
	customerID kernel.UUID
	vendorID   kernel.UUID
	courierID  *kernel.UUID

	items       []Item
	subtotal    kernel.Money
	deliveryFee kernel.Money
	serviceFee  kernel.Money
	discount    kernel.Money
	total       kernel.Money

	status  Status
	history []StatusChange
	version int64

	dropoff kernel.GeoPoint
	address string

	paymentMethod string
	paymentStatus PaymentStatus
	notes         string

	createdAt   time.Time
	acceptedAt  *time.Time
	readyAt     *time.Time
	assignedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time

	ratings []Rating

	guard guard.ConstructorGuard
}

// GenerateNumber produces a human-readable order number of the form
// ORD-YYYYMMDD-XXXXXX. The suffix is random, so numbers are unique for all
// practical purposes and are never reused.
func GenerateNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}

// NewOrder creates a pending order with snapshot line items and derived
// pricing, and writes the first history entry. The subtotal is computed from
// the items; delivery fee, service fee and discount are supplied by the
// caller (the creation use case derives them from distance and configuration).
func NewOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	vendorID kernel.UUID,
	items []Item,
	dropoff kernel.GeoPoint,
	address string,
	paymentMethod string,
	notes string,
	deliveryFee kernel.Money,
	serviceFee kernel.Money,
	discount kernel.Money,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		vendorID.Validate(),
		dropoff.Validate(),
	); err != nil {
		return nil, err
	}

	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}
	if address == "" {
		return nil, errs.NewValueIsRequiredError("delivery address")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("order items")
	}
	if deliveryFee < 0 || serviceFee < 0 || discount < 0 {
		return nil, errs.NewValueIsInvalidError("order pricing")
	}

	var subtotal kernel.Money
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		subtotal += item.LineTotal()
	}

	now := time.Now().UTC()
	order := &Order{
		id:            id,
		number:        number,
		customerID:    customerID,
		vendorID:      vendorID,
		items:         append([]Item(nil), items...),
		subtotal:      subtotal,
		deliveryFee:   deliveryFee,
		serviceFee:    serviceFee,
		discount:      discount,
		status:        Pending,
		dropoff:       dropoff,
		address:       address,
		paymentMethod: paymentMethod,
		paymentStatus: PaymentUnpaid,
		notes:         notes,
		createdAt:     now,
		version:       1,
		guard:         guard.NewConstructorGuard(),
	}
	order.recomputeTotal()
	order.history = append(order.history, StatusChange{
		Status:  Pending,
		At:      now,
		ActorID: customerID,
		Note:    "order created",
	})

	return order, nil
}

// RestoreOrderParams carries the persisted state needed to rehydrate an order.
type RestoreOrderParams struct {
	ID            kernel.UUID
	Number        string
	CustomerID    kernel.UUID
	VendorID      kernel.UUID
	CourierID     *kernel.UUID
	Items         []Item
	Subtotal      kernel.Money
	DeliveryFee   kernel.Money
	ServiceFee    kernel.Money
	Discount      kernel.Money
	Status        Status
	History       []StatusChange
	Version       int64
	Dropoff       kernel.GeoPoint
	Address       string
	PaymentMethod string
	PaymentStatus PaymentStatus
	Notes         string
	CreatedAt     time.Time
	AcceptedAt    *time.Time
	ReadyAt       *time.Time
	AssignedAt    *time.Time
	PickedUpAt    *time.Time
	DeliveredAt   *time.Time
	CancelledAt   *time.Time
	Ratings       []Rating
}

// RestoreOrder reconstructs an order from persistence. It revalidates the
// courier-reference invariant so corrupted rows are rejected at the boundary.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.CustomerID.Validate(),
		p.VendorID.Validate(),
		p.Status.Validate(),
		p.Dropoff.Validate(),
	); err != nil {
		return nil, err
	}

	if p.Version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("order",
			fmt.Errorf("persisted version %d is below 1", p.Version))
	}

	hasCourier := p.CourierID != nil
	requiresCourier := p.Status == Assigned || p.Status == PickedUp ||
		p.Status == InTransit || p.Status == Delivered
	if requiresCourier && !hasCourier {
		return nil, errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("status %s requires a courier", p.Status))
	}

	order := &Order{
		id:            p.ID,
		number:        p.Number,
		customerID:    p.CustomerID,
		vendorID:      p.VendorID,
		courierID:     p.CourierID,
		items:         append([]Item(nil), p.Items...),
		subtotal:      p.Subtotal,
		deliveryFee:   p.DeliveryFee,
		serviceFee:    p.ServiceFee,
		discount:      p.Discount,
		status:        p.Status,
		history:       append([]StatusChange(nil), p.History...),
		version:       p.Version,
		dropoff:       p.Dropoff,
		address:       p.Address,
		paymentMethod: p.PaymentMethod,
		paymentStatus: p.PaymentStatus,
		notes:         p.Notes,
		createdAt:     p.CreatedAt,
		acceptedAt:    p.AcceptedAt,
		readyAt:       p.ReadyAt,
		assignedAt:    p.AssignedAt,
		pickedUpAt:    p.PickedUpAt,
		deliveredAt:   p.DeliveredAt,
		cancelledAt:   p.CancelledAt,
		ratings:       append([]Rating(nil), p.Ratings...),
		guard:         guard.NewConstructorGuard(),
	}
	order.recomputeTotal()

	return order, nil
}

// Validate ensures the Order was created via NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's storage identity.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the stable human-readable order number.
func (o *Order) Number() string { return o.number }

// CustomerID returns the ordering customer's identity.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// VendorID returns the vendor's identity.
func (o *Order) VendorID() kernel.UUID { return o.vendorID }

// Courier returns the assigned courier's identity, or nil before assignment.
func (o *Order) Courier() *kernel.UUID { return o.courierID }

// Items returns a copy of the line items.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// Subtotal returns the sum of line totals.
func (o *Order) Subtotal() kernel.Money { return o.subtotal }

// DeliveryFee returns the distance-derived delivery fee.
func (o *Order) DeliveryFee() kernel.Money { return o.deliveryFee }

// ServiceFee returns the service fee.
func (o *Order) ServiceFee() kernel.Money { return o.serviceFee }

// Discount returns the applied discount.
func (o *Order) Discount() kernel.Money { return o.discount }

// Total returns the derived total: subtotal + deliveryFee + serviceFee - discount.
func (o *Order) Total() kernel.Money { return o.total }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// History returns a copy of the append-only status history.
func (o *Order) History() []StatusChange {
	return append([]StatusChange(nil), o.history...)
}

// Version returns the optimistic concurrency token the order was loaded
// with. It counts writes, not status changes: the persistence layer bumps it
// on every successful update.
func (o *Order) Version() int64 { return o.version }

// BumpVersion advances the optimistic concurrency token. Called by the
// persistence layer after a successful guarded write so the in-memory
// aggregate stays usable for a follow-up write.
func (o *Order) BumpVersion() { o.version++ }

// Dropoff returns the delivery coordinates.
func (o *Order) Dropoff() kernel.GeoPoint { return o.dropoff }

// Address returns the free-text delivery address.
func (o *Order) Address() string { return o.address }

// PaymentMethod returns the payment method chosen at creation.
func (o *Order) PaymentMethod() string { return o.paymentMethod }

// PaymentStatus returns the current payment flag.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// Notes returns the free-text customer notes.
func (o *Order) Notes() string { return o.notes }

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// AcceptedAt returns the confirmation milestone, or nil.
func (o *Order) AcceptedAt() *time.Time { return o.acceptedAt }

// ReadyAt returns the ready milestone, or nil.
func (o *Order) ReadyAt() *time.Time { return o.readyAt }

// AssignedAt returns the assignment milestone, or nil.
func (o *Order) AssignedAt() *time.Time { return o.assignedAt }

// PickedUpAt returns the pickup milestone, or nil.
func (o *Order) PickedUpAt() *time.Time { return o.pickedUpAt }

// DeliveredAt returns the delivery milestone, or nil.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// CancelledAt returns the cancellation milestone, or nil.
func (o *Order) CancelledAt() *time.Time { return o.cancelledAt }

// Ratings returns a copy of the ratings left on this order.
func (o *Order) Ratings() []Rating {
	return append([]Rating(nil), o.ratings...)
}

// ChangeStatus moves the order along one edge of the transition table,
// appends a history entry, and sets the corresponding milestone timestamp
// exactly once. Transitioning to assigned requires the courier reference to
// be set first via Assign.
func (o *Order) ChangeStatus(to Status, actorID kernel.UUID, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := actorID.Validate(); err != nil {
		return err
	}

	if to == Assigned && o.courierID == nil {
		return ErrCourierIsRequired
	}

	newStatus, err := o.status.TransitionTo(to)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = newStatus
	o.history = append(o.history, StatusChange{
		Status:  newStatus,
		At:      now,
		ActorID: actorID,
		Note:    note,
	})
	o.setMilestone(newStatus, now)

	return nil
}

// Assign sets the courier reference and moves the order from ready to
// assigned in one step. Assignment from any other status is rejected with a
// conflict, which also covers the losing side of a concurrent assignment race.
// Unlike ChangeStatus it appends no history entry: the assignment is recorded
// by the courier reference and the assignedAt milestone.
func (o *Order) Assign(courierID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.status != Ready {
		return errs.NewConflictErrorWithCause("order is no longer available",
			fmt.Errorf("order %s is %s, assignment requires ready", o.number, o.status))
	}

	o.courierID = &courierID
	o.status = Assigned
	o.setMilestone(Assigned, time.Now().UTC())
	return nil
}

// Cancel moves the order to the cancelled terminal status, records the
// reason, clears the courier reference, and flips a paid order to
// refund-pending. Restocking reserved inventory is a compensating action
// performed by the cancellation use case, not by the aggregate.
func (o *Order) Cancel(actorID kernel.UUID, reason string) error {
	if err := o.ChangeStatus(Cancelled, actorID, reason); err != nil {
		return err
	}

	o.courierID = nil
	if o.paymentStatus == PaymentPaid {
		o.paymentStatus = PaymentRefundPending
	}

	return nil
}

// Reject moves a pending order to the rejected terminal status. Only the
// transition table limits who may land here; the use case layer restricts the
// operation to the vendor.
func (o *Order) Reject(actorID kernel.UUID, note string) error {
	if err := o.ChangeStatus(Rejected, actorID, note); err != nil {
		return err
	}

	if o.paymentStatus == PaymentPaid {
		o.paymentStatus = PaymentRefundPending
	}

	return nil
}

// MarkPaid flips the payment flag to paid. Orders in a terminal status other
// than delivered cannot be marked paid.
func (o *Order) MarkPaid() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status == Cancelled || o.status == Rejected {
		return ErrOrderIsTerminal
	}

	o.paymentStatus = PaymentPaid
	return nil
}

// AddRating records a score for a vendor or courier. Rating is permitted only
// after the order reached delivered, and at most once per rater/target pair.
func (o *Order) AddRating(raterID kernel.UUID, target RatingTarget, score int, comment string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := raterID.Validate(); err != nil {
		return err
	}
	if target != RatingTargetVendor && target != RatingTargetCourier {
		return errs.NewValueIsInvalidError("rating target")
	}
	if score < 1 || score > 5 {
		return errs.NewValueIsOutOfRangeError("score", score, 1, 5)
	}

	if o.status != Delivered {
		return ErrOrderNotDelivered
	}

	for _, r := range o.ratings {
		if r.RaterID.IsEqual(raterID) && r.Target == target {
			return ErrAlreadyRated
		}
	}

	o.ratings = append(o.ratings, Rating{
		RaterID: raterID,
		Target:  target,
		Score:   score,
		Comment: comment,
		At:      time.Now().UTC(),
	})

	return nil
}

func (o *Order) recomputeTotal() {
	o.total = o.subtotal + o.deliveryFee + o.serviceFee - o.discount
}

// setMilestone records the milestone timestamp for a status exactly once.
// Rejected orders share the cancellation milestone.
func (o *Order) setMilestone(status Status, at time.Time) {
	set := func(field **time.Time) {
		if *field == nil {
			stamp := at
			*field = &stamp
		}
	}

	switch status {
	case Confirmed:
		set(&o.acceptedAt)
	case Ready:
		set(&o.readyAt)
	case Assigned:
		set(&o.assignedAt)
	case PickedUp:
		set(&o.pickedUpAt)
	case Delivered:
		set(&o.deliveredAt)
	case Cancelled, Rejected:
		set(&o.cancelledAt)
	}
}
