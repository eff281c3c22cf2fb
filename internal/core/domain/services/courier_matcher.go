package services

import (
	"sort"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
)

// Match pairs an eligible courier with its distance to the pickup point.
type Match struct {
	Courier    *courier.Courier
	DistanceKm float64
}

// CourierMatcher is a domain service that selects couriers for an order's
// pickup location.
//
// Eligibility requires three independent predicates: the courier is online,
// available (no active order), and verification-complete. Candidates beyond
// the radius are discarded. The remainder is ranked by rating (descending)
// first and distance (ascending) second, so a highly rated courier slightly
// farther away beats a nearby unrated one.
type CourierMatcher struct{}

// NewCourierMatcher creates a CourierMatcher.
func NewCourierMatcher() CourierMatcher {
	return CourierMatcher{}
}

// FindEligible filters and ranks the given candidates for a pickup point.
// It returns an empty slice, not an error, when no courier qualifies; the
// caller decides whether to broadcast, widen the radius, or wait.
func (m CourierMatcher) FindEligible(
	pickup kernel.GeoPoint,
	maxRadiusKm float64,
	candidates []*courier.Courier,
) ([]Match, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		if !c.IsOnline() || !c.IsVerified() || c.ActiveOrder() != nil {
			continue
		}

		distance, err := c.DistanceToKm(pickup)
		if err != nil {
			return nil, err
		}
		if distance > maxRadiusKm {
			continue
		}

		matches = append(matches, Match{Courier: c, DistanceKm: distance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Courier.Rating() != matches[j].Courier.Rating() {
			return matches[i].Courier.Rating() > matches[j].Courier.Rating()
		}
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	return matches, nil
}
