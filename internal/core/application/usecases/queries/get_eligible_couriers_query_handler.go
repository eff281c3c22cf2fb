package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
)

// GetEligibleCouriersQueryHandler loads online couriers from the database
// and runs them through the same matcher assignment uses, so the preview a
// dispatcher sees is the ranking an actual assignment would produce.
type GetEligibleCouriersQueryHandler struct {
	db          *gorm.DB
	matcher     services.CourierMatcher
	avgSpeedKmh float64
}

// NewGetEligibleCouriersQueryHandler creates a handler for courier matching
// queries. avgSpeedKmh is the assumed courier travel speed used for the ETA
// estimate.
func NewGetEligibleCouriersQueryHandler(db *gorm.DB, avgSpeedKmh float64) GetEligibleCouriersQueryHandler {
	return GetEligibleCouriersQueryHandler{
		db:          db,
		matcher:     services.NewCourierMatcher(),
		avgSpeedKmh: avgSpeedKmh,
	}
}

// Handle executes the query. Couriers that are offline never leave the
// database; the remaining eligibility predicates and the ranking are applied
// by the domain matcher. An empty result is not an error.
func (h GetEligibleCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetEligibleCouriersQuery,
) ([]GetEligibleCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			chat_id,
			verified,
			lat,
			lon,
			active_order_id,
			rating,
			rating_count,
			completed_deliveries
		FROM couriers
		WHERE online
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]*courier.Courier, 0)

	for rows.Next() {
		var (
			id            uuid.UUID
			name          string
			chatID        string
			verified      bool
			lat           float64
			lon           float64
			activeOrderID uuid.NullUUID
			rating        float64
			ratingCount   int
			completed     int
		)

		err = rows.Scan(
			&id,
			&name,
			&chatID,
			&verified,
			&lat,
			&lon,
			&activeOrderID,
			&rating,
			&ratingCount,
			&completed,
		)
		if err != nil {
			return nil, err
		}

		courierID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		location, locErr := kernel.NewGeoPoint(lat, lon)
		if locErr != nil {
			return nil, locErr
		}

		var activeOrder *kernel.UUID
		if activeOrderID.Valid {
			oid, oidErr := kernel.UUIDFromBytes(activeOrderID.UUID[:])
			if oidErr != nil {
				return nil, oidErr
			}
			activeOrder = &oid
		}

		candidate, restoreErr := courier.RestoreCourier(courier.RestoreCourierParams{
			ID:                  courierID,
			Name:                name,
			ChatID:              chatID,
			Online:              true,
			Verified:            verified,
			Location:            location,
			ActiveOrderID:       activeOrder,
			Rating:              rating,
			RatingCount:         ratingCount,
			CompletedDeliveries: completed,
		})
		if restoreErr != nil {
			return nil, restoreErr
		}
		candidates = append(candidates, candidate)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	matches, err := h.matcher.FindEligible(query.Pickup(), query.RadiusKm(), candidates)
	if err != nil {
		return nil, err
	}

	responses := make([]GetEligibleCouriersQueryResponse, 0, len(matches))
	for _, match := range matches {
		eta, etaErr := match.Courier.Location().TravelTimeMinutes(query.Pickup(), h.avgSpeedKmh)
		if etaErr != nil {
			return nil, etaErr
		}

		responses = append(responses, GetEligibleCouriersQueryResponse{
			CourierID:           match.Courier.ID(),
			Name:                match.Courier.Name(),
			Rating:              match.Courier.Rating(),
			CompletedDeliveries: match.Courier.CompletedDeliveries(),
			DistanceKm:          match.DistanceKm,
			EtaMinutes:          eta,
		})
	}

	return responses, nil
}
