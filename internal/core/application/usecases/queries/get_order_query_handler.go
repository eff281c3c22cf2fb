package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// GetOrderQueryHandler reads a single order straight from the database,
// bypassing the aggregate. The jsonb item and history columns are decoded
// into read-model views with the same field layout the repository writes.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order lookups.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. Returns an object-not-found error when no
// order exists under the given identifier.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			customer_id,
			vendor_id,
			courier_id,
			status,
			items,
			history,
			subtotal,
			delivery_fee,
			service_fee,
			discount,
			total,
			address,
			payment_method,
			payment_status,
			created_at,
			delivered_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Raw()).Row()

	var (
		resp        GetOrderQueryResponse
		id          uuid.UUID
		customerID  uuid.UUID
		vendorID    uuid.UUID
		courierID   uuid.NullUUID
		itemsRaw    []byte
		historyRaw  []byte
		deliveredAt sql.NullTime
	)

	err := row.Scan(
		&id,
		&resp.Number,
		&customerID,
		&vendorID,
		&courierID,
		&resp.Status,
		&itemsRaw,
		&historyRaw,
		&resp.Subtotal,
		&resp.DeliveryFee,
		&resp.ServiceFee,
		&resp.Discount,
		&resp.Total,
		&resp.Address,
		&resp.PaymentMethod,
		&resp.PaymentStatus,
		&resp.CreatedAt,
		&deliveredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.VendorID, err = kernel.UUIDFromBytes(vendorID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if courierID.Valid {
		cid, cidErr := kernel.UUIDFromBytes(courierID.UUID[:])
		if cidErr != nil {
			return GetOrderQueryResponse{}, cidErr
		}
		resp.CourierID = &cid
	}
	if deliveredAt.Valid {
		at := deliveredAt.Time.In(time.UTC)
		resp.DeliveredAt = &at
	}

	if err = json.Unmarshal(itemsRaw, &resp.Items); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err = json.Unmarshal(historyRaw, &resp.History); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}
