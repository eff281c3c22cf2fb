// Package ports defines the boundary contracts between the core of the
// fulfillment engine and infrastructure: repositories, the unit of work,
// external collaborators (inventory, vendors, customers), and the
// notification channels. These interfaces enable dependency inversion and
// testability; implementations live under internal/adapters.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate, including its first history entry.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order with a status guard: the
	// write succeeds only if the persisted status still equals expectedStatus.
	// When a concurrent request changed the order first, Update returns a
	// conflict error and writes nothing. This is the compare-and-swap
	// primitive behind safe concurrent transitions and courier assignment.
	Update(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order aggregate by its storage identity.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its human-readable order number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetAllReadyUnassigned retrieves orders in ready status with no courier,
	// used by the ready-order broadcast job.
	GetAllReadyUnassigned(ctx context.Context) ([]*order.Order, error)
}
