// Package vendorrepo implements the vendor directory collaborator.
package vendorrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// VendorDTO represents the database structure for vendors.
type VendorDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string
	ChatID          string `gorm:"size:64"`
	Lat             float64
	Lon             float64
	AcceptingOrders bool
	Rating          float64
	RatingCount     int
}

// TableName specifies the database table name for vendor entities.
func (VendorDTO) TableName() string {
	return "vendors"
}

// GormVendorDirectory implements VendorDirectory using GORM.
type GormVendorDirectory struct {
	db *gorm.DB
}

// NewGormVendorDirectory creates a new GORM vendor directory.
func NewGormVendorDirectory(db *gorm.DB) *GormVendorDirectory {
	return &GormVendorDirectory{db: db}
}

// Get retrieves the vendor snapshot.
func (r *GormVendorDirectory) Get(ctx context.Context, id kernel.UUID) (ports.VendorSnapshot, error) {
	if err := id.Validate(); err != nil {
		return ports.VendorSnapshot{}, err
	}

	var dto VendorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.VendorSnapshot{}, errs.NewObjectNotFoundError("vendor", id.String())
		}
		return ports.VendorSnapshot{}, err
	}

	vendorID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.VendorSnapshot{}, err
	}
	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return ports.VendorSnapshot{}, err
	}

	return ports.VendorSnapshot{
		ID:              vendorID,
		Name:            dto.Name,
		ChatID:          dto.ChatID,
		Location:        location,
		AcceptingOrders: dto.AcceptingOrders,
	}, nil
}

// AddRating folds a score into the vendor's running average in the database.
func (r *GormVendorDirectory) AddRating(ctx context.Context, id kernel.UUID, score int) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if score < 1 || score > 5 {
		return errs.NewValueIsOutOfRangeError("score", score, 1, 5)
	}

	result := r.db.WithContext(ctx).
		Model(&VendorDTO{}).
		Where("id = ?", id.Raw()).
		Updates(map[string]any{
			"rating":       gorm.Expr("(rating * rating_count + ?) / (rating_count + 1)", score),
			"rating_count": gorm.Expr("rating_count + 1"),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("vendor", id.String())
	}

	return nil
}
