// Package customerrepo implements the customer directory collaborator used
// for notification routing.
package customerrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// CustomerDTO represents the database structure for customers.
type CustomerDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string
	ChatID string `gorm:"size:64"`
}

// TableName specifies the database table name for customer entities.
func (CustomerDTO) TableName() string {
	return "customers"
}

// GormCustomerDirectory implements CustomerDirectory using GORM.
type GormCustomerDirectory struct {
	db *gorm.DB
}

// NewGormCustomerDirectory creates a new GORM customer directory.
func NewGormCustomerDirectory(db *gorm.DB) *GormCustomerDirectory {
	return &GormCustomerDirectory{db: db}
}

// Get retrieves the customer snapshot.
func (r *GormCustomerDirectory) Get(ctx context.Context, id kernel.UUID) (ports.CustomerSnapshot, error) {
	if err := id.Validate(); err != nil {
		return ports.CustomerSnapshot{}, err
	}

	var dto CustomerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CustomerSnapshot{}, errs.NewObjectNotFoundError("customer", id.String())
		}
		return ports.CustomerSnapshot{}, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.CustomerSnapshot{}, err
	}

	return ports.CustomerSnapshot{
		ID:     customerID,
		Name:   dto.Name,
		ChatID: dto.ChatID,
	}, nil
}
