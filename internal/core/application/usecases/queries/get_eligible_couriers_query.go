package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrGetEligibleCouriersQueryIsNotConstructed = errors.New(
		"GetEligibleCouriersQuery must be created via NewGetEligibleCouriersQuery constructor",
	)
	ErrRadiusIsInvalid = errs.NewValueIsInvalidError("radiusKm")
)

// GetEligibleCouriersQuery finds couriers that could take an order picked up
// at the given point, ranked the way assignment would rank them.
//
// Example:
//
//	query, err := NewGetEligibleCouriersQuery(pickup, 5.0)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetEligibleCouriersQueryHandler(db, 25.0)
//
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to find couriers: %w", err)
//	}
//	for _, c := range couriers {
//	    fmt.Printf("%s: %.1f km, ~%.0f min\n", c.Name, c.DistanceKm, c.EtaMinutes)
//	}
type GetEligibleCouriersQuery struct {
	pickup   kernel.GeoPoint
	radiusKm float64

	guard guard.ConstructorGuard
}

// NewGetEligibleCouriersQuery creates a query for the given pickup point and
// search radius in kilometers. The radius must be positive.
func NewGetEligibleCouriersQuery(pickup kernel.GeoPoint, radiusKm float64) (GetEligibleCouriersQuery, error) {
	if err := pickup.Validate(); err != nil {
		return GetEligibleCouriersQuery{}, err
	}
	if radiusKm <= 0 {
		return GetEligibleCouriersQuery{}, ErrRadiusIsInvalid
	}

	return GetEligibleCouriersQuery{
		pickup:   pickup,
		radiusKm: radiusKm,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Pickup returns the pickup point couriers are matched against.
func (q GetEligibleCouriersQuery) Pickup() kernel.GeoPoint {
	return q.pickup
}

// RadiusKm returns the search radius in kilometers.
func (q GetEligibleCouriersQuery) RadiusKm() float64 {
	return q.radiusKm
}

// Validate ensures the query was created through the constructor.
func (q GetEligibleCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetEligibleCouriersQueryIsNotConstructed)
}

// GetEligibleCouriersQueryResponse is one ranked courier candidate.
type GetEligibleCouriersQueryResponse struct {
	CourierID           kernel.UUID
	Name                string
	Rating              float64
	CompletedDeliveries int
	DistanceKm          float64
	EtaMinutes          float64
}
