// Package courierrepo provides data transfer objects and mapping functions
// for courier persistence. Availability-sensitive writes (claim, release,
// rating) are expressed as conditional single-statement updates so they stay
// correct under concurrent assignment attempts.
package courierrepo

import (
	"github.com/google/uuid"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
)

// CourierDTO represents the database structure for persisting courier
// aggregates. Indexed by the online flag for candidate scans.
type CourierDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                string
	ChatID              string `gorm:"size:64"`
	Online              bool   `gorm:"index"`
	Verified            bool
	Lat                 float64
	Lon                 float64
	ActiveOrderID       *uuid.UUID `gorm:"type:uuid;index"`
	Rating              float64
	RatingCount         int
	CompletedDeliveries int
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(c *courier.Courier) CourierDTO {
	var activeOrderID *uuid.UUID
	if id := c.ActiveOrder(); id != nil {
		raw := id.Raw()
		activeOrderID = &raw
	}

	return CourierDTO{
		ID:                  c.ID().Raw(),
		Name:                c.Name(),
		ChatID:              c.ChatID(),
		Online:              c.IsOnline(),
		Verified:            c.IsVerified(),
		Lat:                 c.Location().Latitude(),
		Lon:                 c.Location().Longitude(),
		ActiveOrderID:       activeOrderID,
		Rating:              c.Rating(),
		RatingCount:         c.RatingCount(),
		CompletedDeliveries: c.CompletedDeliveries(),
	}
}

// toDomain converts a database DTO to a courier domain aggregate.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var activeOrderID *kernel.UUID
	if dto.ActiveOrderID != nil {
		orderID, orderErr := kernel.UUIDFromBytes((*dto.ActiveOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		activeOrderID = &orderID
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(courier.RestoreCourierParams{
		ID:                  id,
		Name:                dto.Name,
		ChatID:              dto.ChatID,
		Online:              dto.Online,
		Verified:            dto.Verified,
		Location:            location,
		ActiveOrderID:       activeOrderID,
		Rating:              dto.Rating,
		RatingCount:         dto.RatingCount,
		CompletedDeliveries: dto.CompletedDeliveries,
	})
}
