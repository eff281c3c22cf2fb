// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between the rich domain model and its relational
// representation. Items, history and ratings live in jsonb columns since they
// are always loaded and written together with the order row.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by status for the broadcast job and by courier for courier-facing
// lookups; the order number carries a unique index for support lookups.
type OrderDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number        string          `gorm:"size:32;uniqueIndex"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;index"`
	VendorID      uuid.UUID       `gorm:"type:uuid;index"`
	CourierID     *uuid.UUID      `gorm:"type:uuid;index"`
	Items         []itemRecord    `gorm:"serializer:json;type:jsonb"`
	Subtotal      int64
	DeliveryFee   int64
	ServiceFee    int64
	Discount      int64
	Total         int64
	Status        string          `gorm:"size:16;index"`
	History       []historyRecord `gorm:"serializer:json;type:jsonb"`
	Version       int64           `gorm:"not null;default:1"`
	DropoffLat    float64
	DropoffLon    float64
	Address       string
	PaymentMethod string `gorm:"size:32"`
	PaymentStatus string `gorm:"size:16"`
	Notes         string
	CreatedAt     time.Time
	AcceptedAt    *time.Time
	ReadyAt       *time.Time
	AssignedAt    *time.Time
	PickedUpAt    *time.Time
	DeliveredAt   *time.Time
	CancelledAt   *time.Time
	Ratings       []ratingRecord `gorm:"serializer:json;type:jsonb"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

type itemRecord struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type historyRecord struct {
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
	ActorID string    `json:"actor_id"`
	Note    string    `json:"note,omitempty"`
}

type ratingRecord struct {
	RaterID string    `json:"rater_id"`
	Target  string    `json:"target"`
	Score   int       `json:"score"`
	Comment string    `json:"comment,omitempty"`
	At      time.Time `json:"at"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := o.Courier(); id != nil {
		raw := id.Raw()
		courierID = &raw
	}

	items := make([]itemRecord, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, itemRecord{
			ProductID: item.ProductID().String(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice().Int64(),
			Quantity:  item.Quantity(),
		})
	}

	history := make([]historyRecord, 0, len(o.History()))
	for _, change := range o.History() {
		history = append(history, historyRecord{
			Status:  change.Status.String(),
			At:      change.At,
			ActorID: change.ActorID.String(),
			Note:    change.Note,
		})
	}

	ratings := make([]ratingRecord, 0, len(o.Ratings()))
	for _, r := range o.Ratings() {
		ratings = append(ratings, ratingRecord{
			RaterID: r.RaterID.String(),
			Target:  string(r.Target),
			Score:   r.Score,
			Comment: r.Comment,
			At:      r.At,
		})
	}

	return OrderDTO{
		ID:            o.ID().Raw(),
		Number:        o.Number(),
		CustomerID:    o.CustomerID().Raw(),
		VendorID:      o.VendorID().Raw(),
		CourierID:     courierID,
		Items:         items,
		Subtotal:      o.Subtotal().Int64(),
		DeliveryFee:   o.DeliveryFee().Int64(),
		ServiceFee:    o.ServiceFee().Int64(),
		Discount:      o.Discount().Int64(),
		Total:         o.Total().Int64(),
		Status:        o.Status().String(),
		History:       history,
		Version:       o.Version(),
		DropoffLat:    o.Dropoff().Latitude(),
		DropoffLon:    o.Dropoff().Longitude(),
		Address:       o.Address(),
		PaymentMethod: o.PaymentMethod(),
		PaymentStatus: string(o.PaymentStatus()),
		Notes:         o.Notes(),
		CreatedAt:     o.CreatedAt(),
		AcceptedAt:    o.AcceptedAt(),
		ReadyAt:       o.ReadyAt(),
		AssignedAt:    o.AssignedAt(),
		PickedUpAt:    o.PickedUpAt(),
		DeliveredAt:   o.DeliveredAt(),
		CancelledAt:   o.CancelledAt(),
		Ratings:       ratings,
	}
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder, which revalidates the cross-field invariants on the way in.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, rec := range dto.Items {
		productID, itemErr := kernel.UUIDFromString(rec.ProductID)
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewItem(productID, rec.Name, kernel.Money(rec.UnitPrice), rec.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.StatusChange, 0, len(dto.History))
	for _, rec := range dto.History {
		status, histErr := order.StatusFromString(rec.Status)
		if histErr != nil {
			return nil, histErr
		}
		actorID, histErr := kernel.UUIDFromString(rec.ActorID)
		if histErr != nil {
			return nil, histErr
		}
		history = append(history, order.StatusChange{
			Status:  status,
			At:      rec.At,
			ActorID: actorID,
			Note:    rec.Note,
		})
	}

	ratings := make([]order.Rating, 0, len(dto.Ratings))
	for _, rec := range dto.Ratings {
		raterID, rateErr := kernel.UUIDFromString(rec.RaterID)
		if rateErr != nil {
			return nil, rateErr
		}
		ratings = append(ratings, order.Rating{
			RaterID: raterID,
			Target:  order.RatingTarget(rec.Target),
			Score:   rec.Score,
			Comment: rec.Comment,
			At:      rec.At,
		})
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.NewGeoPoint(dto.DropoffLat, dto.DropoffLon)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:            id,
		Number:        dto.Number,
		CustomerID:    customerID,
		VendorID:      vendorID,
		CourierID:     courierID,
		Items:         items,
		Subtotal:      kernel.Money(dto.Subtotal),
		DeliveryFee:   kernel.Money(dto.DeliveryFee),
		ServiceFee:    kernel.Money(dto.ServiceFee),
		Discount:      kernel.Money(dto.Discount),
		Status:        status,
		History:       history,
		Version:       dto.Version,
		Dropoff:       dropoff,
		Address:       dto.Address,
		PaymentMethod: dto.PaymentMethod,
		PaymentStatus: order.PaymentStatus(dto.PaymentStatus),
		Notes:         dto.Notes,
		CreatedAt:     dto.CreatedAt,
		AcceptedAt:    dto.AcceptedAt,
		ReadyAt:       dto.ReadyAt,
		AssignedAt:    dto.AssignedAt,
		PickedUpAt:    dto.PickedUpAt,
		DeliveredAt:   dto.DeliveredAt,
		CancelledAt:   dto.CancelledAt,
		Ratings:       ratings,
	})
}
