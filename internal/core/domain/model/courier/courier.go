package courier

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when creating a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	// ErrCourierIsBusy is returned when claiming a courier that already has an active order.
	ErrCourierIsBusy = errs.NewConflictError("courier is no longer available")
	// ErrNoActiveOrder is returned when releasing a courier that has no active order.
	ErrNoActiveOrder = errs.NewConflictError("courier has no active order")
)

// Courier represents a delivery courier in the marketplace.
// It is an aggregate root tracking the courier's availability for matching
// (online, verified, at most one active order), last known location, running
// rating, and completed-delivery counter.
//
// The at-most-one-active-order invariant is enforced twice: here in the
// aggregate, and by the persistence layer through a conditional update so
// that concurrent claims resolve to exactly one winner.
type Courier struct {
	id       kernel.UUID
	name     string
	chatID   string
	online   bool
	verified bool
	location kernel.GeoPoint

	activeOrderID *kernel.UUID

	rating              float64
	ratingCount         int
	completedDeliveries int

	guard guard.ConstructorGuard
}

// NewCourier creates a new courier. Couriers start offline, unverified, and
// with no active order; both flags are flipped by out-of-scope onboarding and
// presence flows.
func NewCourier(id kernel.UUID, name string, chatID string, location kernel.GeoPoint) (*Courier, error) {
	if err := errors.Join(id.Validate(), location.Validate()); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}

	return &Courier{
		id:       id,
		name:     name,
		chatID:   chatID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// RestoreCourierParams carries persisted state for rehydration.
type RestoreCourierParams struct {
	ID                  kernel.UUID
	Name                string
	ChatID              string
	Online              bool
	Verified            bool
	Location            kernel.GeoPoint
	ActiveOrderID       *kernel.UUID
	Rating              float64
	RatingCount         int
	CompletedDeliveries int
}

// RestoreCourier reconstructs a courier from persistence.
func RestoreCourier(p RestoreCourierParams) (*Courier, error) {
	if err := errors.Join(p.ID.Validate(), p.Location.Validate()); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, ErrNameIsRequired
	}

	return &Courier{
		id:                  p.ID,
		name:                p.Name,
		chatID:              p.ChatID,
		online:              p.Online,
		verified:            p.Verified,
		location:            p.Location,
		activeOrderID:       p.ActiveOrderID,
		rating:              p.Rating,
		ratingCount:         p.RatingCount,
		completedDeliveries: p.CompletedDeliveries,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Courier was created via NewCourier or RestoreCourier.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the courier's identity.
func (c *Courier) ID() kernel.UUID { return c.id }

// Name returns the courier's display name.
func (c *Courier) Name() string { return c.name }

// ChatID returns the courier's conversational-bot channel identifier.
func (c *Courier) ChatID() string { return c.chatID }

// IsOnline reports whether the courier is currently online.
func (c *Courier) IsOnline() bool { return c.online }

// IsVerified reports whether the courier completed verification.
func (c *Courier) IsVerified() bool { return c.verified }

// Location returns the courier's last known location.
func (c *Courier) Location() kernel.GeoPoint { return c.location }

// ActiveOrder returns the courier's active order, or nil when free.
func (c *Courier) ActiveOrder() *kernel.UUID { return c.activeOrderID }

// Rating returns the courier's running average rating.
func (c *Courier) Rating() float64 { return c.rating }

// RatingCount returns how many ratings contributed to the average.
func (c *Courier) RatingCount() int { return c.ratingCount }

// CompletedDeliveries returns the courier's completed-delivery counter.
func (c *Courier) CompletedDeliveries() int { return c.completedDeliveries }

// IsAvailable reports whether the courier can take an order right now:
// online, verified, and with no active order.
func (c *Courier) IsAvailable() bool {
	return c.online && c.verified && c.activeOrderID == nil
}

// SetOnline flips the courier's presence flag.
func (c *Courier) SetOnline(online bool) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.online = online
	return nil
}

// SetVerified marks the courier's verification as complete.
func (c *Courier) SetVerified(verified bool) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.verified = verified
	return nil
}

// MoveTo updates the courier's last known location.
func (c *Courier) MoveTo(location kernel.GeoPoint) error {
	if err := errors.Join(c.Validate(), location.Validate()); err != nil {
		return err
	}
	c.location = location
	return nil
}

// Claim marks the courier busy with the given order. A courier can carry at
// most one active order; claiming a busy or unavailable courier fails with a
// conflict so the losing side of a race gets a typed error.
func (c *Courier) Claim(orderID kernel.UUID) error {
	if err := errors.Join(c.Validate(), orderID.Validate()); err != nil {
		return err
	}

	if !c.IsAvailable() {
		return ErrCourierIsBusy
	}

	c.activeOrderID = &orderID
	return nil
}

// Release frees the courier from its active order without counting a
// completed delivery. Used when the active order is cancelled.
func (c *Courier) Release() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.activeOrderID == nil {
		return ErrNoActiveOrder
	}

	c.activeOrderID = nil
	return nil
}

// CompleteDelivery frees the courier and increments the completed-delivery
// counter. Called when the active order reaches delivered.
func (c *Courier) CompleteDelivery() error {
	if err := c.Release(); err != nil {
		return err
	}

	c.completedDeliveries++
	return nil
}

// AddRating folds a new score into the running average using an
// incremental-mean update.
func (c *Courier) AddRating(score int) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if score < 1 || score > 5 {
		return errs.NewValueIsOutOfRangeError("score", score, 1, 5)
	}

	c.rating = (c.rating*float64(c.ratingCount) + float64(score)) / float64(c.ratingCount+1)
	c.ratingCount++
	return nil
}

// DistanceToKm returns the distance from the courier's last known location to
// a pickup point.
func (c *Courier) DistanceToKm(pickup kernel.GeoPoint) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	distance, err := c.location.DistanceKm(pickup)
	if err != nil {
		return 0, fmt.Errorf("courier %s: %w", c.id, err)
	}
	return distance, nil
}
