// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: constructor
// validation, a transactional body run through the executor, and post-commit
// notification fan-out.
package commands

import (
	"marketplace/internal/core/domain/model/kernel"
)

// Pricing carries the fee knobs applied during order creation.
type Pricing struct {
	// DeliveryBaseFee is charged on every order regardless of distance.
	DeliveryBaseFee kernel.Money

	// DeliveryPerKmFee is charged per kilometer of great-circle distance
	// between the vendor and the dropoff point.
	DeliveryPerKmFee kernel.Money

	// ServiceFeePercent is the platform cut as a percentage of the items
	// subtotal.
	ServiceFeePercent int
}

// DeliveryFeeFor computes the distance-dependent delivery fee, rounding the
// per-kilometer part to the nearest minor unit.
func (p Pricing) DeliveryFeeFor(distanceKm float64) kernel.Money {
	perDistance := kernel.Money(float64(p.DeliveryPerKmFee)*distanceKm + 0.5)
	return p.DeliveryBaseFee + perDistance
}

// ServiceFeeFor computes the platform service fee for an items subtotal.
func (p Pricing) ServiceFeeFor(subtotal kernel.Money) kernel.Money {
	return subtotal.Percent(p.ServiceFeePercent)
}
