package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// ProductSnapshot is the read model of a catalog product as the engine needs
// it at order-creation time: current name and price for snapshotting, and the
// availability flag.
type ProductSnapshot struct {
	ID        kernel.UUID
	Name      string
	Price     kernel.Money
	Available bool
}

// ProductInventory is the inventory/catalog collaborator. Reserve is the
// atomic "decrement if sufficient, else fail" operation that prevents
// overselling under concurrent order creation; Restock is the plain increment
// used by the cancellation compensating action.
type ProductInventory interface {
	// Get retrieves the product snapshot for price/name capture.
	Get(ctx context.Context, id kernel.UUID) (ProductSnapshot, error)

	// Reserve atomically decrements available stock by quantity. It fails
	// with a conflict error when the product is unavailable or the remaining
	// stock would go negative; nothing is decremented in that case.
	Reserve(ctx context.Context, id kernel.UUID, quantity int) error

	// Restock increments available stock by quantity.
	Restock(ctx context.Context, id kernel.UUID, quantity int) error
}

// VendorSnapshot is the read model of a vendor as the engine needs it:
// the accepting-orders predicate, pickup coordinates, and the bot channel.
type VendorSnapshot struct {
	ID              kernel.UUID
	Name            string
	ChatID          string
	Location        kernel.GeoPoint
	AcceptingOrders bool
}

// VendorDirectory is the vendor collaborator.
type VendorDirectory interface {
	// Get retrieves the vendor snapshot.
	Get(ctx context.Context, id kernel.UUID) (VendorSnapshot, error)

	// AddRating folds a score into the vendor's running average rating.
	AddRating(ctx context.Context, id kernel.UUID, score int) error
}

// CustomerSnapshot is the read model of a customer for notification routing.
type CustomerSnapshot struct {
	ID     kernel.UUID
	Name   string
	ChatID string
}

// CustomerDirectory resolves customers for notification routing.
type CustomerDirectory interface {
	// Get retrieves the customer snapshot.
	Get(ctx context.Context, id kernel.UUID) (CustomerSnapshot, error)
}
