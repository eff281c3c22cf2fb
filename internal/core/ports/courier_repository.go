package ports

import (
	"context"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
//
// Claim and Release are conditional (compare-and-swap style) updates rather
// than load-modify-store sequences, so that the at-most-one-active-order
// invariant holds under concurrent assignment attempts: exactly one caller
// wins, the others receive a conflict error.
type CourierRepository interface {
	// Add persists a new courier aggregate.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its identity.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// Claim marks the courier busy with the given order, but only if the
	// courier is online, verified, and currently has no active order.
	// Returns a conflict error when the courier is no longer available.
	Claim(ctx context.Context, courierID kernel.UUID, orderID kernel.UUID) error

	// Release clears the courier's active order. When completed is true the
	// completed-deliveries counter is incremented as well.
	Release(ctx context.Context, courierID kernel.UUID, completed bool) error

	// AddRating folds a score into the courier's running average rating
	// using an incremental-mean update.
	AddRating(ctx context.Context, courierID kernel.UUID, score int) error

	// GetAllOnline retrieves couriers currently flagged online, the candidate
	// set for matching. Final eligibility filtering happens in the domain.
	GetAllOnline(ctx context.Context) ([]*courier.Courier, error)
}
