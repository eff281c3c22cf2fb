// Package productrepo implements the inventory collaborator on the product
// catalog table. Stock movements are single conditional statements; a
// reservation that would oversell affects zero rows and surfaces as a
// conflict instead of a negative stock level.
package productrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ProductDTO represents the database structure for catalog products.
type ProductDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	VendorID  uuid.UUID `gorm:"type:uuid;index"`
	Name      string
	Price     int64
	Stock     int
	Available bool
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// GormProductInventory implements ProductInventory using GORM.
type GormProductInventory struct {
	db *gorm.DB
}

// NewGormProductInventory creates a new GORM product inventory.
func NewGormProductInventory(db *gorm.DB) *GormProductInventory {
	return &GormProductInventory{db: db}
}

// Get retrieves the product snapshot used for price and name capture.
func (r *GormProductInventory) Get(ctx context.Context, id kernel.UUID) (ports.ProductSnapshot, error) {
	if err := id.Validate(); err != nil {
		return ports.ProductSnapshot{}, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ProductSnapshot{}, errs.NewObjectNotFoundError("product", id.String())
		}
		return ports.ProductSnapshot{}, err
	}

	productID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.ProductSnapshot{}, err
	}

	return ports.ProductSnapshot{
		ID:        productID,
		Name:      dto.Name,
		Price:     kernel.Money(dto.Price),
		Available: dto.Available,
	}, nil
}

// Reserve decrements stock only when the product is available and enough
// stock remains. Zero affected rows means the reservation lost.
func (r *GormProductInventory) Reserve(ctx context.Context, id kernel.UUID, quantity int) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not positive", quantity))
	}

	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ? AND available AND stock >= ?", id.Raw(), quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("insufficient stock")
	}

	return nil
}

// Restock returns reserved stock to the shelf.
func (r *GormProductInventory) Restock(ctx context.Context, id kernel.UUID, quantity int) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not positive", quantity))
	}

	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ?", id.Raw()).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("product", id.String())
	}

	return nil
}
